package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/qlabel/pkg/pipeline"
)

func TestJobSpinnerSucceed(t *testing.T) {
	var out, frames bytes.Buffer
	s := newJobSpinner(&out, &frames, "62x29", "directory /var/spool/qlabel")
	s.Start(context.Background())
	time.Sleep(100 * time.Millisecond)

	res := &pipeline.PrintResult{JobID: "job-42", Stats: pipeline.Stats{Width: 696, Height: 271}}
	s.Succeed(res, false)

	got := out.String()
	for _, want := range []string{"Spooled job job-42 to directory /var/spool/qlabel", "62x29 · 696x271"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
	if !strings.Contains(frames.String(), "Printing 62x29 label via directory /var/spool/qlabel...") {
		t.Errorf("frames = %q", frames.String())
	}
}

func TestJobSpinnerDryRun(t *testing.T) {
	var out bytes.Buffer
	s := newJobSpinner(&out, io.Discard, "62", "dry run")
	s.Start(context.Background())
	s.Succeed(&pipeline.PrintResult{JobID: "job-1"}, true)

	if got := out.String(); !strings.Contains(got, "Rendered job job-1 (dry run)") || strings.Contains(got, "Spooled") {
		t.Errorf("output = %q", got)
	}
}

func TestJobSpinnerFail(t *testing.T) {
	var out bytes.Buffer
	s := newJobSpinner(&out, io.Discard, "62", "redis list qlabel:jobs")
	s.Start(context.Background())
	s.Fail(errors.New("queue down"))

	if got := out.String(); !strings.Contains(got, "Print failed: queue down") {
		t.Errorf("output = %q", got)
	}
}

func TestJobSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newJobSpinner(io.Discard, io.Discard, "62", "dry run")
	s.Start(ctx)
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancellation")
	}
	s.Stop()
	s.Stop()
}

func TestJobSummary(t *testing.T) {
	st := pipeline.Stats{Width: 306, Height: 991, RenderTime: 12 * time.Millisecond, SpoolTime: 3 * time.Millisecond}
	want := "29x90 · 306x991 · render 12ms · spool 3ms · total 20ms"
	if got := jobSummary("29x90", st, 20*time.Millisecond); got != want {
		t.Errorf("jobSummary() = %q, want %q", got, want)
	}
}

func TestPrintCommandReportsJob(t *testing.T) {
	t.Setenv(envConfig, "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"print", "Box", "--size", "62x29", "--dry-run"})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("print: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "(dry run)") || !strings.Contains(got, "62x29 · 696x271") {
		t.Errorf("print output = %q", got)
	}
}
