package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
	"github.com/bft-labs/swingcam/pkg/log"
)

func appendLine(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		t.Fatal(err)
	}
}

func openTranscript(t *testing.T, path string) *TranscriptSource {
	t.Helper()
	src := NewTranscriptSource(path, log.NewNoopLogger())
	src.rescan = 20 * time.Millisecond
	if err := src.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

// nextCommand polls until a command arrives or the timeout passes.
func nextCommand(t *testing.T, src *TranscriptSource, timeout time.Duration) (domain.Command, bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		cmd, err := src.Next(context.Background())
		if err == nil {
			return cmd, true
		}
		if !errors.Is(err, ports.ErrNoData) {
			t.Fatalf("Next() error = %v", err)
		}
	}
	return domain.CommandNone, false
}

func TestTranscriptSource_ReadsNewUtterances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	appendLine(t, path, "okay said before start\n")

	src := openTranscript(t, path)
	appendLine(t, path, "uh lento por favor\nhello there\nRápido\n")

	want := []domain.Command{domain.CommandLento, domain.CommandRapido}
	for _, w := range want {
		got, ok := nextCommand(t, src, 2*time.Second)
		if !ok {
			t.Fatalf("no command, want %v", w)
		}
		if got != w {
			t.Errorf("command = %v, want %v", got, w)
		}
	}

	if got, ok := nextCommand(t, src, 100*time.Millisecond); ok {
		t.Errorf("unexpected command %v", got)
	}
}

func TestTranscriptSource_WaitsForCompleteLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	src := openTranscript(t, path)

	appendLine(t, path, "sal")
	if got, ok := nextCommand(t, src, 100*time.Millisecond); ok {
		t.Fatalf("command %v from a partial line", got)
	}

	appendLine(t, path, "ir\n")
	got, ok := nextCommand(t, src, 2*time.Second)
	if !ok || got != domain.CommandSalir {
		t.Errorf("command = %v (%v), want salir", got, ok)
	}
}

func TestTranscriptSource_HandlesTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	appendLine(t, path, "some earlier text that is long enough\n")
	src := openTranscript(t, path)

	if err := os.WriteFile(path, []byte("otra\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, ok := nextCommand(t, src, 2*time.Second)
	if !ok || got != domain.CommandOtra {
		t.Errorf("command = %v (%v), want otra", got, ok)
	}
}

func TestTranscriptSource_NextHonorsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	src := openTranscript(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestTranscriptSource_OpenMissingDir(t *testing.T) {
	src := NewTranscriptSource(filepath.Join(t.TempDir(), "nope", "transcript.txt"), log.NewNoopLogger())
	if err := src.Open(context.Background()); err == nil {
		_ = src.Close()
		t.Error("Open() error = nil, want error for missing directory")
	}
}
