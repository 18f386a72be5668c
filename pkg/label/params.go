package label

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/qlabel/pkg/errors"
)

// Default request values.
const (
	DefaultFontSize    = 100
	DefaultMargin      = 10
	DefaultThreshold   = 70
	DefaultLabelSize   = "62"
	DefaultAlign       = AlignCenter
	DefaultOrientation = Standard

	// Per-edge margins in percent of the font size.
	DefaultMarginTop    = 24
	DefaultMarginBottom = 45
	DefaultMarginLeft   = 35
	DefaultMarginRight  = 35
)

// Upper bounds enforced by Validate.
const (
	MaxFontSize      = 500
	MaxMarginPercent = 500
)

// MaxEndlessLength caps the grown axis of an endless label in dots, one
// metre of tape at 300 dpi. Text beyond it is clipped.
const MaxEndlessLength = 11811

// Params is the complete set of options a client may send for one label.
// Every field has a default, see DefaultParams.
type Params struct {
	Text       string `json:"text,omitempty"`
	FontFamily string `json:"font_family,omitempty"` // "Family (Style)"; empty selects the default font
	FontSize   int    `json:"font_size" validate:"gt=0,lte=500"`
	LabelSize  string `json:"label_size" validate:"required"`

	// Margin is accepted for compatibility with older clients; the per-edge
	// margins below supersede it.
	Margin int `json:"margin" validate:"gte=0"`

	Threshold   int         `json:"threshold" validate:"gte=0,lte=100"`
	Align       Align       `json:"align" validate:"oneof=left center right"`
	Orientation Orientation `json:"orientation" validate:"oneof=standard rotated"`

	MarginTop    float64 `json:"margin_top" validate:"gte=0,lte=500"`
	MarginBottom float64 `json:"margin_bottom" validate:"gte=0,lte=500"`
	MarginLeft   float64 `json:"margin_left" validate:"gte=0,lte=500"`
	MarginRight  float64 `json:"margin_right" validate:"gte=0,lte=500"`
}

// DefaultParams returns the built-in defaults.
func DefaultParams() Params {
	return Params{
		FontSize:     DefaultFontSize,
		LabelSize:    DefaultLabelSize,
		Margin:       DefaultMargin,
		Threshold:    DefaultThreshold,
		Align:        DefaultAlign,
		Orientation:  DefaultOrientation,
		MarginTop:    DefaultMarginTop,
		MarginBottom: DefaultMarginBottom,
		MarginLeft:   DefaultMarginLeft,
		MarginRight:  DefaultMarginRight,
	}
}

// Values is a flat mapping of raw request parameters.
type Values map[string]string

// ParseParams coerces raw values onto defaults and validates the result.
// Absent and empty values keep their default.
func ParseParams(values Values, defaults Params) (Params, error) {
	p := defaults

	if text, ok := values["text"]; ok {
		p.Text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))
	}
	if v := values["font_family"]; v != "" {
		p.FontFamily = v
	}
	if v := values["label_size"]; v != "" {
		p.LabelSize = v
	}
	if v := values["align"]; v != "" {
		p.Align = Align(v)
	}
	if v := values["orientation"]; v != "" {
		p.Orientation = Orientation(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"font_size", &p.FontSize},
		{"margin", &p.Margin},
		{"threshold", &p.Threshold},
	}
	for _, f := range ints {
		v := values[f.key]
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Params{}, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q is not an integer", f.key, v)
		}
		*f.dst = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"margin_top", &p.MarginTop},
		{"margin_bottom", &p.MarginBottom},
		{"margin_left", &p.MarginLeft},
		{"margin_right", &p.MarginRight},
	}
	for _, f := range floats {
		v := values[f.key]
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Params{}, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q is not a number", f.key, v)
		}
		*f.dst = n
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks value ranges. It does not consult the font table or the
// stock catalog; unknown fonts and sizes are reported by the Resolver.
func (p Params) Validate() error {
	if err := errors.ValidateText(p.Text); err != nil {
		return err
	}
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid parameters")
	}
	fe := verrs[0]
	return errors.New(errors.ErrCodeInvalidInput, "invalid %s: %v (%s)", fe.Field(), fe.Value(), describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
