package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qlabel/pkg/label"
)

// sizesCommand creates the sizes command.
func (c *CLI) sizesCommand() *cobra.Command {
	var (
		pick  bool
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "sizes",
		Short: "List the supported label sizes",
		Long: `Sizes lists every label size id with its printable area in dots.

With --pick an interactive list is shown and the selected id is printed,
which makes it usable in scripts:

  qlabel print "Hello" --size "$(qlabel sizes --pick)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stocks := label.BrotherQL.All()

			if pick {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				id, err := pickStock(stocks, cfg.Label.DefaultSize)
				if err != nil || id == "" {
					return err
				}
				fmt.Println(id)
				return nil
			}

			if plain {
				for _, s := range stocks {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(stockRow(s), "\t"))
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), stockTable(stocks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose a size interactively and print its id")
	cmd.Flags().BoolVar(&plain, "plain", false, "tab-separated output without styling")
	return cmd
}

// pickStock runs the interactive picker. It returns "" if the user quit.
func pickStock(stocks []label.Stock, current string) (string, error) {
	final, err := tea.NewProgram(NewStockListModel(stocks, current)).Run()
	if err != nil {
		return "", fmt.Errorf("size picker: %w", err)
	}
	m := final.(StockListModel)
	if m.Selected == nil {
		return "", nil
	}
	return m.Selected.ID, nil
}

func stockTable(stocks []label.Stock) string {
	rows := make([][]string, len(stocks))
	for i, s := range stocks {
		rows[i] = stockRow(s)
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(stockHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			default:
				return StyleValue
			}
		}).
		Render()
}

// fontsCommand creates the fonts command.
func (c *CLI) fontsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List the available fonts",
		Long: `Fonts lists every font family and style known to qlabel: the built-in Go
fonts plus the [[fonts]] entries of the config file. Use the
"Family (Style)" form with --font.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ft, err := cfg.FontTable(c.Logger)
			if err != nil {
				return err
			}

			def := ft.Default()
			for _, family := range ft.Families() {
				fmt.Println(StyleTitle.Render(family))
				for _, style := range ft.Styles(family) {
					line := "  " + StyleValue.Render(style)
					if family == def.Family && style == def.Style {
						line += " " + StyleSuccess.Render("(default)")
					}
					fmt.Println(line)
				}
			}
			if ft.DefaultIsFallback() {
				printWarning("none of label.default_fonts is installed; using %s", def)
			}
			printDetail("%d fonts", ft.Len())
			return nil
		},
	}
}
