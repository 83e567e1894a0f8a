package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
	"github.com/bft-labs/swingcam/pkg/log"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// spoolFrame writes a frame the way a capture tool does: temp file, then
// rename into place.
func spoolFrame(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	tmp := filepath.Join(dir, name+".part")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		t.Fatal(err)
	}
}

func openSpool(t *testing.T, cfg DirFrameSourceConfig) (*DirFrameSource, ports.SourceInfo) {
	t.Helper()
	if cfg.Rescan == 0 {
		cfg.Rescan = 20 * time.Millisecond
	}
	src := NewDirFrameSource(cfg, log.NewNoopLogger())
	info, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src, info
}

func nextFrame(t *testing.T, src *DirFrameSource, timeout time.Duration) *domain.Frame {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		f, err := src.Next(context.Background())
		if err == nil {
			return f
		}
		if !errors.Is(err, ports.ErrNoData) {
			t.Fatalf("Next() error = %v", err)
		}
	}
	return nil
}

func TestDirFrameSource_OpenReportsInfoAndClearsStale(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "000001.png")
	if err := os.WriteFile(stale, encodePNG(t, 2, 2), 0o600); err != nil {
		t.Fatal(err)
	}

	src, info := openSpool(t, DirFrameSourceConfig{Dir: dir, FrameRate: 25, Width: 640, Height: 480, Rotation: 90})

	if info.FrameRate != 25 || info.Width != 640 || info.Height != 480 || info.Rotation != 90 {
		t.Errorf("info = %+v", info)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale frame not removed")
	}
	if f := nextFrame(t, src, 100*time.Millisecond); f != nil {
		t.Errorf("got stale frame %+v", f)
	}
}

func TestDirFrameSource_ConsumesFramesInOrder(t *testing.T) {
	dir := t.TempDir()
	src, _ := openSpool(t, DirFrameSourceConfig{Dir: dir, FrameRate: 30, Buffer: 16})

	data := encodePNG(t, 8, 6)
	for i := 1; i <= 3; i++ {
		spoolFrame(t, dir, fmt.Sprintf("%06d.png", i), data)
	}

	var prev uint64
	for i := 0; i < 3; i++ {
		f := nextFrame(t, src, 2*time.Second)
		if f == nil {
			t.Fatalf("frame %d missing", i)
		}
		if f.Width != 8 || f.Height != 6 {
			t.Errorf("frame %d size = %dx%d, want 8x6", i, f.Width, f.Height)
		}
		if f.Seq <= prev {
			t.Errorf("frame %d seq = %d after %d", i, f.Seq, prev)
		}
		if f.Timestamp.IsZero() {
			t.Errorf("frame %d has no timestamp", i)
		}
		prev = f.Seq
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d files left in spool, want 0", len(entries))
	}
}

func TestDirFrameSource_SkipsUndecodableFiles(t *testing.T) {
	dir := t.TempDir()
	src, _ := openSpool(t, DirFrameSourceConfig{Dir: dir, FrameRate: 30})

	spoolFrame(t, dir, "000001.jpg", []byte("not an image"))
	spoolFrame(t, dir, "000002.png", encodePNG(t, 4, 4))
	spoolFrame(t, dir, "notes.txt", []byte("ignored"))

	f := nextFrame(t, src, 2*time.Second)
	if f == nil || f.Width != 4 {
		t.Fatalf("frame = %+v, want the 4x4 png", f)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("non-frame file was touched")
	}
}

func TestDirFrameSource_DropsOldestWhenFull(t *testing.T) {
	src := NewDirFrameSource(DirFrameSourceConfig{Dir: t.TempDir(), Buffer: 2}, log.NewNoopLogger())

	for i := uint64(1); i <= 5; i++ {
		src.enqueue(&domain.Frame{Seq: i})
	}

	if got := src.Dropped(); got != 3 {
		t.Errorf("Dropped() = %d, want 3", got)
	}
	for _, want := range []uint64{4, 5} {
		f, err := src.Next(context.Background())
		if err != nil || f.Seq != want {
			t.Fatalf("Next() = %+v, %v, want seq %d", f, err, want)
		}
	}
}

func TestIsFrameFile(t *testing.T) {
	tests := map[string]bool{
		"000001.jpg":  true,
		"000001.JPEG": true,
		"a.png":       true,
		"a.png.part":  false,
		"a.txt":       false,
		"jpg":         false,
	}
	for name, want := range tests {
		if got := isFrameFile(name); got != want {
			t.Errorf("isFrameFile(%q) = %v, want %v", name, got, want)
		}
	}
}
