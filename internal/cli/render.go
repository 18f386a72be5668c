package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/qlabel/pkg/config"
	"github.com/matzehuels/qlabel/pkg/label"
	"github.com/matzehuels/qlabel/pkg/pipeline"
	"github.com/matzehuels/qlabel/pkg/printer"
)

// labelFlags holds the label parameters accepted by render and print.
// Only flags set on the command line override the config defaults.
type labelFlags struct {
	size        string
	font        string
	fontSize    int
	align       string
	orientation string
	margin      int
	threshold   int
	marginTop   float64
	marginBot   float64
	marginLeft  float64
	marginRight float64
}

func (f *labelFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.size, "size", "s", "", "label size id (see 'qlabel sizes')")
	fs.StringVarP(&f.font, "font", "f", "", `font as "Family (Style)" (see 'qlabel fonts')`)
	fs.IntVar(&f.fontSize, "font-size", 0, "font size in pixels")
	fs.StringVar(&f.align, "align", "", "text alignment: left, center, right")
	fs.StringVarP(&f.orientation, "orientation", "o", "", "orientation: standard, rotated")
	fs.IntVar(&f.margin, "margin", 0, "legacy margin value")
	fs.IntVar(&f.threshold, "threshold", 0, "black/white threshold (0-100)")
	fs.Float64Var(&f.marginTop, "margin-top", 0, "top margin in percent of the font size")
	fs.Float64Var(&f.marginBot, "margin-bottom", 0, "bottom margin in percent of the font size")
	fs.Float64Var(&f.marginLeft, "margin-left", 0, "left margin in percent of the font size")
	fs.Float64Var(&f.marginRight, "margin-right", 0, "right margin in percent of the font size")
}

// registerLabelCompletions completes --size with the stock catalog.
func registerLabelCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("size", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return label.BrotherQL.IDs(), cobra.ShellCompDirectiveNoFileComp
	})
}

// values returns the changed flags keyed by request parameter name.
func (f *labelFlags) values(fs *pflag.FlagSet) label.Values {
	v := label.Values{}
	set := func(flag, key, val string) {
		if fs.Changed(flag) {
			v[key] = val
		}
	}
	float := func(x float64) string { return strconv.FormatFloat(x, 'f', -1, 64) }

	set("size", "label_size", f.size)
	set("font", "font_family", f.font)
	set("font-size", "font_size", strconv.Itoa(f.fontSize))
	set("align", "align", f.align)
	set("orientation", "orientation", f.orientation)
	set("margin", "margin", strconv.Itoa(f.margin))
	set("threshold", "threshold", strconv.Itoa(f.threshold))
	set("margin-top", "margin_top", float(f.marginTop))
	set("margin-bottom", "margin_bottom", float(f.marginBot))
	set("margin-left", "margin_left", float(f.marginLeft))
	set("margin-right", "margin_right", float(f.marginRight))
	return v
}

// params merges text and flags onto the config defaults.
func (f *labelFlags) params(cfg *config.Config, fs *pflag.FlagSet, text string) (label.Params, error) {
	v := f.values(fs)
	v["text"] = text
	return label.ParseParams(v, cfg.LabelDefaults())
}

// labelText joins arguments into label lines. A single "-" reads stdin.
func labelText(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return strings.Join(args, "\n"), nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   labelFlags
		output  string
		format  string
		noCache bool
		pick    bool
	)

	cmd := &cobra.Command{
		Use:   "render [text...]",
		Short: "Render a label preview to a file",
		Long: `Render lays out the text and writes the preview image.

Each argument becomes one line of the label. Pass "-" to read the text from stdin.`,
		Example: `  qlabel render "Shelf 3" --size 62x29 -O shelf.png
  qlabel render Line1 Line2 --font "Go Mono (Bold)" --align left
  echo "Hello" | qlabel render - --format base64`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			text, err := labelText(args)
			if err != nil {
				return err
			}
			if pick && !cmd.Flags().Changed("size") {
				id, err := pickStock(label.BrotherQL.All(), cfg.Label.DefaultSize)
				if err != nil || id == "" {
					return err
				}
				_ = cmd.Flags().Set("size", id)
			}
			p, err := flags.params(cfg, cmd.Flags(), text)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, runnerOptions{noCache: noCache})
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			prog := newProgress(logger)
			pv, err := runner.PreviewWithCacheInfo(ctx, p, format)
			if err != nil {
				return err
			}
			prog.done("Rendered " + p.LabelSize + " label")

			if output == "-" {
				_, err := os.Stdout.Write(pv.Data)
				return err
			}
			if err := os.WriteFile(output, pv.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered label")
			printFile(output)
			printStats(p.LabelSize, len(pv.Data), pv.CacheHit)
			return nil
		},
	}

	flags.register(cmd.Flags())
	registerLabelCompletions(cmd)
	cmd.Flags().StringVarP(&output, "output", "O", "label.png", `output file ("-" for stdout)`)
	cmd.Flags().StringVar(&format, "format", pipeline.FormatPNG, "output format: png, base64")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the preview cache")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the label size interactively unless --size is given")
	return cmd
}

// printCommand creates the print command.
func (c *CLI) printCommand() *cobra.Command {
	var (
		flags  labelFlags
		dryRun bool
		spool  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "print [text...]",
		Short: "Render a label and submit it as a print job",
		Long: `Print renders the text and hands the job to the configured spooler.

With --dry-run the job is rendered and recorded but not spooled; use
--output to keep the job image.`,
		Example: `  qlabel print "Box 7" --size 62
  qlabel print "Fragile" --size 62red --dry-run -O job.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			text, err := labelText(args)
			if err != nil {
				return err
			}
			p, err := flags.params(cfg, cmd.Flags(), text)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, runnerOptions{noCache: true, dryRun: dryRun, spool: spool})
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			spinner := newJobSpinner(cmd.OutOrStdout(), cmd.ErrOrStderr(), p.LabelSize, spoolTarget(runner))
			spinner.Start(ctx)
			res, err := runner.Print(ctx, p)
			if err != nil {
				spinner.Fail(err)
				return err
			}
			spinner.Succeed(res, runner.DryRun)
			printKeyValue("Printer", printerTarget(cfg))

			if output != "" && res.Data != nil {
				if err := os.WriteFile(output, res.Data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printFile(output)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	registerLabelCompletions(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render and record the job without spooling it")
	cmd.Flags().StringVar(&spool, "spool", "", "override the spool backend: redis, dir, none")
	cmd.Flags().StringVarP(&output, "output", "O", "", "write the dry-run job image to this file")
	return cmd
}

// spoolTarget names where print jobs of runner end up.
func spoolTarget(r *pipeline.Runner) string {
	if r.DryRun || r.Spooler == nil {
		return printer.NullSpooler{}.String()
	}
	return fmt.Sprint(r.Spooler)
}

func printerTarget(cfg *config.Config) string {
	if cfg.Printer.Printer == "" {
		return cfg.Printer.Model
	}
	return cfg.Printer.Model + " @ " + cfg.Printer.Printer
}
