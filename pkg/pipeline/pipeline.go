// Package pipeline runs the label pipeline shared by the CLI and the HTTP API.
//
// The pipeline has three stages:
//
//  1. Resolve: request parameters become a label.LayoutSpec
//  2. Render: the layout and text become an image
//  3. Output: the image is encoded as a preview, or turned into a print job
//     and handed to a spooler
//
// # Usage
//
//	runner := pipeline.NewRunner(resolver, cache, nil, logger)
//	png, err := runner.Preview(ctx, params, pipeline.FormatPNG)
//
//	runner.Spooler = spooler
//	result, err := runner.Print(ctx, params)
package pipeline

import (
	"time"

	"github.com/matzehuels/qlabel/pkg/errors"
)

// Preview output formats.
const (
	FormatPNG    = "png"
	FormatBase64 = "base64"
)

// ValidFormats is the set of supported preview formats.
var ValidFormats = map[string]bool{
	FormatPNG:    true,
	FormatBase64: true,
}

// MsgMissingText is returned by Print when no text was supplied.
const MsgMissingText = "Please provide the text for the label"

// ValidateFormat checks that a preview format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid return_format: %q (must be one of: png, base64)", format)
	}
	return nil
}

// Preview is an encoded preview image.
type Preview struct {
	Data   []byte
	Format string
	// CacheHit reports whether Data came from the preview cache.
	CacheHit bool
}

// PrintResult describes a submitted print job.
type PrintResult struct {
	JobID string
	// Data holds the job image when the runner is in dry-run mode.
	Data  []byte
	Stats Stats
}

// Stats contains stage timings.
type Stats struct {
	RenderTime time.Duration
	SpoolTime  time.Duration
	Width      int
	Height     int
}
