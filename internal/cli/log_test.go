package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		emit    func(*log.Logger)
		wantLog bool
	}{
		{"info at info", LogInfo, func(l *log.Logger) { l.Info("loaded scene", "anchors", 6) }, true},
		{"rebuild debug at info", LogInfo, func(l *log.Logger) { l.Debug("rebuilt anchors", "count", 6) }, false},
		{"rebuild debug with verbose", LogDebug, func(l *log.Logger) { l.Debug("rebuilt anchors", "count", 6) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v (%q)", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo), "influence diagram")
	prog.done("path", "influence.svg", "bytes", 512)

	out := buf.String()
	for _, want := range []string{"influence diagram", "path=influence.svg", "bytes=512", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestProgressFail(t *testing.T) {
	tests := []struct {
		level   log.Level
		wantLog bool
	}{
		{LogInfo, false},
		{LogDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			newProgress(newLogger(&buf, tt.level), "write artifacts").fail(errors.New("disk full"))
			out := buf.String()
			if got := strings.Contains(out, "write artifacts failed"); got != tt.wantLog {
				t.Errorf("logged failure = %v, want %v (%q)", got, tt.wantLog, out)
			}
			if tt.wantLog && !strings.Contains(out, "disk full") {
				t.Errorf("output %q missing the error", out)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should fall back to log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, LogInfo)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("loggerFromContext did not return the attached logger")
	}
}

func TestRenderLogsArtifactStage(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	out := filepath.Join(t.TempDir(), "sheet")
	root.SetArgs([]string{"render", "--preset", "sheet", "--no-cache", "-f", "svg,json", "-o", out})
	if err := root.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("render error: %v", err)
	}

	got := logs.String()
	for _, want := range []string{"write artifacts", "files=2", "elapsed="} {
		if !strings.Contains(got, want) {
			t.Errorf("logs %q missing %q", got, want)
		}
	}
}
