package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/qlabel/pkg/label"
)

func TestRotation(t *testing.T) {
	tests := []struct {
		kind label.Kind
		o    label.Orientation
		want string
	}{
		{label.Endless, label.Standard, RotateNone},
		{label.Endless, label.Rotated, Rotate90},
		{label.DieCut, label.Standard, RotateAuto},
		{label.DieCut, label.Rotated, RotateAuto},
		{label.RoundDieCut, label.Rotated, RotateAuto},
	}
	for _, tt := range tests {
		if got := Rotation(tt.kind, tt.o); got != tt.want {
			t.Errorf("Rotation(%s, %s) = %q, want %q", tt.kind, tt.o, got, tt.want)
		}
	}
}

func TestOrient(t *testing.T) {
	stock29x90, _ := label.BrotherQL.Lookup("29x90")  // 306x991
	stock62x29, _ := label.BrotherQL.Lookup("62x29")  // 696x271
	endless62, _ := label.BrotherQL.Lookup("62")

	tests := []struct {
		name   string
		w, h   int
		stock  label.Stock
		rotate string
		wantW  int
		wantH  int
	}{
		{"auto swaps landscape 29x90", 991, 306, stock29x90, RotateAuto, 306, 991},
		{"auto keeps matching 62x29", 696, 271, stock62x29, RotateAuto, 696, 271},
		{"auto keeps square", 236, 236, label.Stock{DotsPrintable: [2]int{236, 236}}, RotateAuto, 236, 236},
		{"none", 696, 120, endless62, RotateNone, 696, 120},
		{"90 on endless", 400, 696, endless62, Rotate90, 696, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := Orient(img, tt.stock, tt.rotate).Bounds()
			if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
				t.Errorf("Orient() = %dx%d, want %dx%d", got.Dx(), got.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNewJob(t *testing.T) {
	stock, _ := label.BrotherQL.Lookup("62red")
	spec := label.LayoutSpec{
		StockID:     "62red",
		Kind:        label.Endless,
		Orientation: label.Rotated,
		Fill:        label.Red,
		Threshold:   55,
	}
	img := image.NewRGBA(image.Rect(0, 0, 300, 696))

	job, err := NewJob(Options{Model: "QL-800", Printer: "file:///dev/usb/lp0"}, spec, stock, img)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("ID %q is not a UUID", job.ID)
	}
	if !job.Red || job.Threshold != 55 || job.LabelSize != "62red" {
		t.Errorf("job = %+v", job)
	}
	if job.Model != "QL-800" || job.Printer != "file:///dev/usb/lp0" {
		t.Errorf("printer options not copied: %+v", job)
	}

	decoded, err := png.Decode(bytes.NewReader(job.Image))
	if err != nil {
		t.Fatalf("decode job image: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 696 || b.Dy() != 300 {
		t.Errorf("job image = %dx%d, want 696x300", b.Dx(), b.Dy())
	}
}

func TestNewJobRotatesOnce(t *testing.T) {
	endless, _ := label.BrotherQL.Lookup("62")
	landscape, _ := label.BrotherQL.Lookup("29x90")
	tests := []struct {
		name         string
		spec         label.LayoutSpec
		stock        label.Stock
		w, h         int
		wantW, wantH int
	}{
		{"endless rotated", label.LayoutSpec{StockID: "62", Kind: label.Endless, Orientation: label.Rotated}, endless, 300, 696, 696, 300},
		{"endless standard", label.LayoutSpec{StockID: "62", Kind: label.Endless}, endless, 696, 300, 696, 300},
		{"die-cut landscape", label.LayoutSpec{StockID: "29x90", Kind: label.DieCut, Orientation: label.Rotated}, landscape, 991, 306, 306, 991},
		{"die-cut matching", label.LayoutSpec{StockID: "29x90", Kind: label.DieCut}, landscape, 306, 991, 306, 991},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			job, err := NewJob(Options{}, tt.spec, tt.stock, img)
			if err != nil {
				t.Fatalf("NewJob: %v", err)
			}
			if job.Rotate != RotateNone {
				t.Errorf("Rotate = %q, want %q for an oriented image", job.Rotate, RotateNone)
			}
			decoded, err := png.Decode(bytes.NewReader(job.Image))
			if err != nil {
				t.Fatal(err)
			}
			if b := decoded.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("job image = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDirSpooler(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spool")
	s, err := NewDirSpooler(dir)
	if err != nil {
		t.Fatalf("NewDirSpooler: %v", err)
	}
	defer s.Close()

	data, _ := EncodePNG(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	job := &Job{ID: "job-1", LabelSize: "62", Image: data}
	if err := s.Submit(context.Background(), job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	img, err := os.ReadFile(filepath.Join(dir, "job-1.png"))
	if err != nil || !bytes.Equal(img, data) {
		t.Errorf("png file: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "job-1.json"))
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	var meta Job
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("sidecar json: %v", err)
	}
	if meta.ID != "job-1" || meta.LabelSize != "62" || meta.Image != nil {
		t.Errorf("sidecar = %+v", meta)
	}
}

func TestNullSpooler(t *testing.T) {
	var s Spooler = NullSpooler{}
	if err := s.Submit(context.Background(), &Job{ID: "x"}); err != nil {
		t.Errorf("Submit: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Submit(ctx, &Job{ID: "x"}); err == nil {
		t.Error("Submit with cancelled context should fail")
	}
}
