package console

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
)

// DefaultLineWait bounds how long Next waits for a command.
const DefaultLineWait = 50 * time.Millisecond

// LineSource implements ports.CommandSource over a line-oriented reader,
// typically stdin. Each line is one utterance.
type LineSource struct {
	r      io.Reader
	wait   time.Duration
	logger ports.Logger

	commands chan domain.Command
	stop     chan struct{}
}

// NewLineSource creates a source reading from r.
func NewLineSource(r io.Reader, logger ports.Logger) *LineSource {
	return &LineSource{
		r:        r,
		wait:     DefaultLineWait,
		logger:   logger,
		commands: make(chan domain.Command, 16),
		stop:     make(chan struct{}),
	}
}

// Open starts reading lines.
func (s *LineSource) Open(ctx context.Context) error {
	go s.read()
	return nil
}

func (s *LineSource) read() {
	scanner := bufio.NewScanner(s.r)
	for scanner.Scan() {
		text := scanner.Text()
		cmd := domain.ParseCommand(text)
		if cmd == domain.CommandNone {
			s.logger.Debug("no command in utterance", ports.String("text", text))
			continue
		}
		select {
		case s.commands <- cmd:
		case <-s.stop:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("command input failed", ports.Err(err))
		return
	}
	s.logger.Debug("command input closed")
}

// Next returns the next typed command or ports.ErrNoData.
func (s *LineSource) Next(ctx context.Context) (domain.Command, error) {
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

// Close stops delivering commands. A read already blocked on the reader
// is abandoned, not interrupted; the reader itself is not closed.
func (s *LineSource) Close() error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	return nil
}
