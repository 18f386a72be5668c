package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/qlabel/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// jobSpinner animates on frames while a print job is rendered and spooled,
// then reports the outcome on out.
type jobSpinner struct {
	out, frames io.Writer
	labelSize   string
	backend     string

	start    time.Time
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

func newJobSpinner(out, frames io.Writer, labelSize, backend string) *jobSpinner {
	return &jobSpinner{
		out:       out,
		frames:    frames,
		labelSize: labelSize,
		backend:   backend,
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

func (s *jobSpinner) message() string {
	return fmt.Sprintf("Printing %s label via %s...", s.labelSize, s.backend)
}

// Start begins the animation. It ends on Stop or when ctx is done.
func (s *jobSpinner) Start(ctx context.Context) {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(s.frames, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message()))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation and clears its line. It may be called repeatedly.
func (s *jobSpinner) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.stopped
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.frames, "\r%s\r", strings.Repeat(" ", len(s.message())+4))
}

// Succeed stops the spinner and reports the job.
func (s *jobSpinner) Succeed(res *pipeline.PrintResult, dryRun bool) {
	s.Stop()
	verb := "Spooled job " + res.JobID + " to " + s.backend
	if dryRun {
		verb = "Rendered job " + res.JobID + " (dry run)"
	}
	fmt.Fprintln(s.out, styleIconSuccess.Render(iconSuccess)+" "+verb)
	fmt.Fprintln(s.out, "  "+StyleDim.Render(jobSummary(s.labelSize, res.Stats, time.Since(s.start))))
}

// Fail stops the spinner and reports err.
func (s *jobSpinner) Fail(err error) {
	s.Stop()
	fmt.Fprintln(s.out, styleIconError.Render(iconError)+" Print failed: "+err.Error())
}

func jobSummary(labelSize string, st pipeline.Stats, total time.Duration) string {
	return fmt.Sprintf("%s · %dx%d · render %s · spool %s · total %s",
		labelSize, st.Width, st.Height,
		st.RenderTime.Round(time.Millisecond),
		st.SpoolTime.Round(time.Millisecond),
		total.Round(time.Millisecond))
}
