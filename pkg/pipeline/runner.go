package pipeline

import (
	"context"
	"encoding/base64"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qlabel/pkg/cache"
	"github.com/matzehuels/qlabel/pkg/errors"
	"github.com/matzehuels/qlabel/pkg/history"
	"github.com/matzehuels/qlabel/pkg/label"
	"github.com/matzehuels/qlabel/pkg/observability"
	"github.com/matzehuels/qlabel/pkg/printer"
	"github.com/matzehuels/qlabel/pkg/raster"
)

const keyTypePreview = "preview"

// Runner executes the pipeline with caching. Its fields are set up once and
// not modified afterwards; a Runner is then safe for concurrent use.
type Runner struct {
	Resolver *label.Resolver
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	CacheTTL time.Duration

	// Print settings. Spooler defaults to a dry-run spooler and History
	// may be nil.
	Printer printer.Options
	Spooler printer.Spooler
	History history.Store
	DryRun  bool
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects DefaultKeyer.
func NewRunner(resolver *label.Resolver, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Resolver: resolver,
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		CacheTTL: cache.TTLPreview,
		Spooler:  printer.NullSpooler{},
	}
}

// Resolve resolves p into a layout.
func (r *Runner) Resolve(ctx context.Context, p label.Params) (label.LayoutSpec, error) {
	spec, err := r.Resolver.Resolve(p)
	observability.Pipeline().OnResolve(ctx, p.LabelSize, err)
	return spec, err
}

// Render resolves p and draws its text.
func (r *Runner) Render(ctx context.Context, p label.Params) (*image.RGBA, label.LayoutSpec, error) {
	spec, err := r.Resolve(ctx, p)
	if err != nil {
		return nil, spec, err
	}
	img, err := r.render(ctx, p.Text, spec)
	return img, spec, err
}

func (r *Runner) render(ctx context.Context, text string, spec label.LayoutSpec) (*image.RGBA, error) {
	start := time.Now()
	ts, err := raster.New(spec.Font, spec.FontSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font %s", spec.Font.Name())
	}
	defer ts.Close()

	img := label.Render(text, spec, ts)
	observability.Pipeline().OnRender(ctx, spec.StockID, img.Bounds().Dx(), img.Bounds().Dy(), time.Since(start))
	return img, nil
}

// PreviewWithCacheInfo renders p and encodes it in format, consulting the
// preview cache first.
func (r *Runner) PreviewWithCacheInfo(ctx context.Context, p label.Params, format string) (*Preview, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	spec, err := r.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	key := r.Keyer.PreviewKey(spec.Hash(p.Text), cache.PreviewKeyOpts{Format: format})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypePreview)
		return &Preview{Data: data, Format: format, CacheHit: true}, nil
	} else if err != nil {
		r.Logger.Warn("preview cache read failed", "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, keyTypePreview)

	img, err := r.render(ctx, p.Text, spec)
	if err != nil {
		return nil, err
	}
	data, err := printer.EncodePNG(img)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode preview")
	}
	if format == FormatBase64 {
		data = []byte(base64.StdEncoding.EncodeToString(data))
	}

	if err := r.Cache.Set(ctx, key, data, r.CacheTTL); err != nil {
		r.Logger.Warn("preview cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypePreview, len(data))
	}
	return &Preview{Data: data, Format: format}, nil
}

// Preview is PreviewWithCacheInfo without the cache information.
func (r *Runner) Preview(ctx context.Context, p label.Params, format string) ([]byte, error) {
	pv, err := r.PreviewWithCacheInfo(ctx, p, format)
	if err != nil {
		return nil, err
	}
	return pv.Data, nil
}

// Print renders p and submits it to the spooler. Every attempt that gets
// past parameter resolution is recorded in the history.
func (r *Runner) Print(ctx context.Context, p label.Params) (*PrintResult, error) {
	if p.Text == "" {
		return nil, errors.New(errors.ErrCodeMissingText, MsgMissingText)
	}
	spec, err := r.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	stock, _ := r.Resolver.Catalog.Lookup(spec.StockID)

	result := &PrintResult{}
	start := time.Now()
	img, err := r.render(ctx, p.Text, spec)
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(start)
	result.Stats.Width, result.Stats.Height = img.Bounds().Dx(), img.Bounds().Dy()

	job, err := printer.NewJob(r.Printer, spec, stock, img)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build print job")
	}
	result.JobID = job.ID

	spooler := r.Spooler
	if r.DryRun || spooler == nil {
		spooler = printer.NullSpooler{}
		result.Data = job.Image
	}

	start = time.Now()
	err = spooler.Submit(ctx, job)
	result.Stats.SpoolTime = time.Since(start)
	observability.Pipeline().OnPrint(ctx, job.ID, spec.StockID, result.Stats.SpoolTime, err)

	r.record(ctx, job, spec, p, err)
	if err != nil {
		if !errors.Is(err, errors.ErrCodePrinter) {
			err = errors.Wrap(errors.ErrCodePrinter, err, "submit job %s", job.ID)
		}
		return nil, err
	}
	return result, nil
}

func (r *Runner) record(ctx context.Context, job *printer.Job, spec label.LayoutSpec, p label.Params, printErr error) {
	if r.History == nil {
		return
	}
	entry := history.Entry{
		ID:          job.ID,
		Text:        p.Text,
		LabelSize:   spec.StockID,
		Font:        spec.Font.Name(),
		Orientation: string(spec.Orientation),
		Printer:     r.Printer.Printer,
		Status:      history.StatusPrinted,
		CreatedAt:   job.CreatedAt,
	}
	switch {
	case printErr != nil:
		entry.Status = history.StatusFailed
		entry.Error = printErr.Error()
	case r.DryRun:
		entry.Status = history.StatusDryRun
	}
	// History is best effort.
	if err := r.History.Record(context.WithoutCancel(ctx), entry); err != nil {
		r.Logger.Warn("record print history", "job", job.ID, "err", err)
	}
}

// Close releases the cache, spooler and history store.
func (r *Runner) Close(ctx context.Context) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.Cache != nil {
		keep(r.Cache.Close())
	}
	if r.Spooler != nil {
		keep(r.Spooler.Close())
	}
	if r.History != nil {
		keep(r.History.Close(ctx))
	}
	return firstErr
}
