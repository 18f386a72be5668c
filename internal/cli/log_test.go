package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Rendered 62 label")

	got := buf.String()
	if !strings.Contains(got, "INFO") || !strings.Contains(got, "Rendered 62 label (") {
		t.Errorf("progress output = %q", got)
	}
}

func runWithLog(t *testing.T, level log.Level, args ...string) string {
	t.Helper()
	t.Setenv(envConfig, "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs bytes.Buffer
	root := New(&logs, level).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return logs.String()
}

func TestRenderLogsProgress(t *testing.T) {
	out := filepath.Join(t.TempDir(), "label.png")
	logs := runWithLog(t, LogInfo, "render", "Hi", "--size", "62x29", "-O", out)
	if !strings.Contains(logs, "Rendered 62x29 label (") {
		t.Errorf("logs = %q", logs)
	}
}

func TestVerboseFlagEnablesDebug(t *testing.T) {
	out := filepath.Join(t.TempDir(), "label.png")
	if logs := runWithLog(t, LogInfo, "render", "Hi", "-O", out); strings.Contains(logs, "spooler") {
		t.Errorf("info level logged debug lines: %q", logs)
	}
	if logs := runWithLog(t, LogInfo, "-v", "render", "Hi", "-O", out); !strings.Contains(logs, "spooler") {
		t.Errorf("-v should log the spooler target, got %q", logs)
	}
}

func TestLoggerInCommandContext(t *testing.T) {
	t.Setenv(envConfig, "")
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"sizes", "--plain"})
	root.SetOut(io.Discard)

	var got *log.Logger
	sizes, _, _ := root.Find([]string{"sizes"})
	run := sizes.RunE
	sizes.RunE = func(cmd *cobra.Command, args []string) error {
		got = loggerFromContext(cmd.Context())
		return run(cmd, args)
	}
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != c.Logger {
		t.Error("commands should see the CLI logger in their context")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should fall back to log.Default()")
	}
}
