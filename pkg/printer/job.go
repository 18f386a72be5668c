// Package printer hands finished labels to a print daemon.
//
// qlabel does not speak the printer's raster protocol. A [Job] carries the
// rendered label as PNG together with the options the protocol encoder
// needs, and a [Spooler] delivers it to a Redis list watched by the
// daemon or to a spool directory. The null spooler drops it.
//
// Job images are already oriented along the feed direction, so the
// rotate option of a job is always [RotateNone] and the daemon must not
// turn the image again.
package printer

import (
	"bytes"
	"context"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/matzehuels/qlabel/pkg/label"
)

// Rotate values. [Rotation] picks one per label and [Orient] applies it.
const (
	RotateNone = "0"
	Rotate90   = "90"
	RotateAuto = "auto"
)

// Job is one label ready to print.
type Job struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Printer   string    `json:"printer"`
	LabelSize string    `json:"label_size"`
	Red       bool      `json:"red"`
	Threshold int       `json:"threshold"`
	Cut       bool      `json:"cut"`
	Rotate    string    `json:"rotate"`
	Image     []byte    `json:"image"` // PNG
	CreatedAt time.Time `json:"created_at"`
}

// Options are the spooler-wide printer settings.
type Options struct {
	Model   string
	Printer string // device URI, e.g. tcp://192.168.1.21:9100
}

// Rotation returns the rotate hint for a label: endless tape is rotated
// only for rotated labels, die-cut stock lets the daemon match the image
// to the stock.
func Rotation(kind label.Kind, o label.Orientation) string {
	if kind.Fixed() {
		return RotateAuto
	}
	if o == label.Rotated {
		return Rotate90
	}
	return RotateNone
}

// Orient applies rotate to img so it runs along the feed direction of
// stock. RotateAuto turns the image by 90 degrees only when it matches the
// printable area with width and length swapped.
func Orient(img image.Image, stock label.Stock, rotate string) image.Image {
	switch rotate {
	case Rotate90:
		return imaging.Rotate90(img)
	case RotateAuto:
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		pw, ph := stock.DotsPrintable[0], stock.DotsPrintable[1]
		if (w != pw || h != ph) && w == ph && h == pw {
			return imaging.Rotate90(img)
		}
	}
	return img
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewJob builds a job for a rendered label. The rotation for spec is
// applied here and the job asks the daemon for none.
func NewJob(opts Options, spec label.LayoutSpec, stock label.Stock, img image.Image) (*Job, error) {
	data, err := EncodePNG(Orient(img, stock, Rotation(spec.Kind, spec.Orientation)))
	if err != nil {
		return nil, err
	}
	return &Job{
		ID:        uuid.NewString(),
		Model:     opts.Model,
		Printer:   opts.Printer,
		LabelSize: spec.StockID,
		Red:       spec.IsRed(),
		Threshold: spec.Threshold,
		Cut:       true,
		Rotate:    RotateNone,
		Image:     data,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Spooler delivers jobs to the printer.
type Spooler interface {
	Submit(ctx context.Context, job *Job) error
	Close() error
}
