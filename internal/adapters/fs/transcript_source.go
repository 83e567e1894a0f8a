package fs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
)

// DefaultCommandWait bounds how long Next waits for a command.
const DefaultCommandWait = 50 * time.Millisecond

// TranscriptSource implements ports.CommandSource by tailing a transcript
// file that an offline speech recognizer appends to, one utterance per
// line. Only lines written after Open are considered.
type TranscriptSource struct {
	path   string
	wait   time.Duration
	rescan time.Duration
	logger ports.Logger

	commands chan domain.Command
	watch    *dirWatcher
	cancel   context.CancelFunc
	done     chan struct{}

	// Owned by the watch goroutine.
	offset  int64
	partial []byte
}

// NewTranscriptSource creates a source tailing path.
func NewTranscriptSource(path string, logger ports.Logger) *TranscriptSource {
	return &TranscriptSource{
		path:     path,
		wait:     DefaultCommandWait,
		rescan:   DefaultRescanInterval,
		logger:   logger,
		commands: make(chan domain.Command, 64),
	}
}

// Open starts watching the transcript. The file itself may not exist yet,
// but its directory must.
func (s *TranscriptSource) Open(ctx context.Context) error {
	if fi, err := os.Stat(s.path); err == nil {
		s.offset = fi.Size()
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat transcript: %w", err)
	}

	name := filepath.Base(s.path)
	w, err := newDirWatcher(filepath.Dir(s.path), s.rescan, func(e fsnotify.Event) bool {
		return filepath.Base(e.Name) == name
	}, s.logger)
	if err != nil {
		return err
	}
	s.watch = w

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		w.run(runCtx, func() { s.scan(runCtx) })
	}()

	s.logger.Info("listening for commands", ports.String("transcript", s.path))
	return nil
}

// Next returns the next recognized command or ports.ErrNoData.
func (s *TranscriptSource) Next(ctx context.Context) (domain.Command, error) {
	timer := time.NewTimer(s.wait)
	defer timer.Stop()

	select {
	case cmd := <-s.commands:
		return cmd, nil
	case <-ctx.Done():
		return domain.CommandNone, ctx.Err()
	case <-timer.C:
		return domain.CommandNone, ports.ErrNoData
	}
}

// Close stops watching.
func (s *TranscriptSource) Close() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	err := s.watch.close()
	<-s.done
	s.cancel = nil
	return err
}

// scan reads whatever was appended since the last scan.
func (s *TranscriptSource) scan(ctx context.Context) {
	f, err := os.Open(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("open transcript", ports.Err(err))
		}
		// Removed or rotated away; the next file starts from the top.
		s.offset, s.partial = 0, nil
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		s.logger.Warn("stat transcript", ports.Err(err))
		return
	}
	if fi.Size() < s.offset {
		s.logger.Debug("transcript truncated", ports.Int64("size", fi.Size()))
		s.offset, s.partial = 0, nil
	}
	if fi.Size() == s.offset {
		return
	}

	if _, err := f.Seek(s.offset, io.SeekStart); err != nil {
		s.logger.Warn("seek transcript", ports.Err(err))
		return
	}
	data, err := io.ReadAll(io.LimitReader(f, fi.Size()-s.offset))
	if err != nil {
		s.logger.Warn("read transcript", ports.Err(err))
		return
	}
	s.offset += int64(len(data))

	data = append(s.partial, data...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		s.utterance(ctx, string(data[:i]))
		data = data[i+1:]
	}
	s.partial = append([]byte(nil), data...)
}

func (s *TranscriptSource) utterance(ctx context.Context, text string) {
	cmd := domain.ParseCommand(text)
	if cmd == domain.CommandNone {
		s.logger.Debug("no command in utterance", ports.String("text", text))
		return
	}
	select {
	case s.commands <- cmd:
	case <-ctx.Done():
	}
}
