package fs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
)

// Default spool settings.
const (
	DefaultFrameWait   = 100 * time.Millisecond
	DefaultSpoolBuffer = 8
)

// DirFrameSourceConfig configures a DirFrameSource.
type DirFrameSourceConfig struct {
	// Dir is the spool directory the capture tool writes frames into.
	Dir string

	// FrameRate is the capture tool's nominal rate. The directory itself
	// carries no timing information.
	FrameRate float64

	// Width and Height are reported until the first frame is decoded.
	Width  int
	Height int

	Rotation int

	// Buffer is how many decoded frames may wait for Next. When full the
	// oldest is discarded.
	Buffer int

	// Rescan is the fallback directory poll interval.
	Rescan time.Duration
}

// DirFrameSource implements ports.FrameSource over a spool directory.
//
// An external capture tool writes each frame as a JPEG or PNG file, named
// so that lexical order is capture order, and renames it into place once
// complete. Files are consumed in name order and removed once read. The
// file's modification time is the capture timestamp.
type DirFrameSource struct {
	cfg    DirFrameSourceConfig
	wait   time.Duration
	logger ports.Logger

	frames  chan *domain.Frame
	watch   *dirWatcher
	cancel  context.CancelFunc
	done    chan struct{}
	seq     uint64
	dropped atomic.Uint64
}

// NewDirFrameSource creates a spool directory source.
func NewDirFrameSource(cfg DirFrameSourceConfig, logger ports.Logger) *DirFrameSource {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultSpoolBuffer
	}
	return &DirFrameSource{
		cfg:    cfg,
		wait:   DefaultFrameWait,
		logger: logger,
		frames: make(chan *domain.Frame, cfg.Buffer),
	}
}

// Open creates the spool directory if needed, discards stale frames left
// from a previous run and starts watching.
func (s *DirFrameSource) Open(ctx context.Context) (ports.SourceInfo, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return ports.SourceInfo{}, fmt.Errorf("create spool dir: %w", err)
	}
	stale, err := s.pending()
	if err != nil {
		return ports.SourceInfo{}, fmt.Errorf("read spool dir: %w", err)
	}
	for _, path := range stale {
		_ = os.Remove(path)
	}
	if len(stale) > 0 {
		s.logger.Info("discarded stale frames", ports.Int("count", len(stale)))
	}

	w, err := newDirWatcher(s.cfg.Dir, s.cfg.Rescan, nil, s.logger)
	if err != nil {
		return ports.SourceInfo{}, err
	}
	s.watch = w

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		w.run(runCtx, s.scan)
	}()

	return ports.SourceInfo{
		Name:      "spool:" + s.cfg.Dir,
		FrameRate: s.cfg.FrameRate,
		Width:     s.cfg.Width,
		Height:    s.cfg.Height,
		Rotation:  s.cfg.Rotation,
	}, nil
}

// Next returns the oldest buffered frame or ports.ErrNoData.
func (s *DirFrameSource) Next(ctx context.Context) (*domain.Frame, error) {
	timer := time.NewTimer(s.wait)
	defer timer.Stop()

	select {
	case f := <-s.frames:
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ports.ErrNoData
	}
}

// Close stops watching. Unread files stay in the spool directory.
func (s *DirFrameSource) Close() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	err := s.watch.close()
	<-s.done
	s.cancel = nil
	return err
}

// Dropped returns how many frames were discarded because Next fell behind.
func (s *DirFrameSource) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *DirFrameSource) scan() {
	paths, err := s.pending()
	if err != nil {
		s.logger.Warn("read spool dir", ports.Err(err))
		return
	}
	for _, path := range paths {
		f, err := s.load(path)
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("remove frame file", ports.String("file", path), ports.Err(rmErr))
		}
		if err != nil {
			s.logger.Warn("skipping unreadable frame", ports.String("file", path), ports.Err(err))
			continue
		}
		s.enqueue(f)
	}
}

// pending lists frame files in name order.
func (s *DirFrameSource) pending() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isFrameFile(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(s.cfg.Dir, e.Name()))
	}
	return out, nil
}

func (s *DirFrameSource) load(path string) (*domain.Frame, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	s.seq++
	return &domain.Frame{
		Seq:       s.seq,
		Timestamp: fi.ModTime(),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Data:      data,
	}, nil
}

// enqueue never blocks. When the buffer is full the oldest frame goes.
func (s *DirFrameSource) enqueue(f *domain.Frame) {
	for {
		select {
		case s.frames <- f:
			return
		default:
		}
		select {
		case <-s.frames:
			if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
				s.logger.Warn("spool buffer full, dropping oldest frames", ports.Uint64("dropped", n))
			}
		default:
		}
	}
}

func isFrameFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
