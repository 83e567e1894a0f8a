package console

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
)

// StatusSink implements ports.FrameSink by printing one status line each
// time what the screen would show changes. Frames themselves are counted,
// not drawn.
type StatusSink struct {
	mu     sync.Mutex
	w      io.Writer
	last   string
	frames int
}

// NewStatusSink creates a sink writing to w.
func NewStatusSink(w io.Writer) *StatusSink {
	return &StatusSink{w: w}
}

// Present implements ports.FrameSink.
func (s *StatusSink) Present(ctx context.Context, p ports.Presentation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames++
	key := statusKey(p)
	if key == s.last {
		return nil
	}
	s.last = key
	_, err := fmt.Fprintln(s.w, statusLine(p, s.frames))
	return err
}

// Frames returns how many frames were presented.
func (s *StatusSink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// statusKey changes whenever the printed line should change. The
// recording countdown ticks once per second.
func statusKey(p ports.Presentation) string {
	secs := int(math.Ceil(p.Remaining.Seconds()))
	return fmt.Sprintf("%d|%d|%.2f|%t|%d", p.Mode, p.Swings, p.Speed, p.InfoPanel, secs)
}

func statusLine(p ports.Presentation, frames int) string {
	var b strings.Builder
	switch p.Mode {
	case domain.ModeRecording:
		fmt.Fprintf(&b, "RECORDING... (%.1fs)", p.Remaining.Round(100*time.Millisecond).Seconds())
	case domain.ModeReplaying:
		fmt.Fprintf(&b, "REPLAY %.2fx", p.Speed)
	default:
		b.WriteString("LIVE")
	}
	fmt.Fprintf(&b, "  swings=%d", p.Swings)

	if p.InfoPanel {
		fmt.Fprintf(&b, "  speed=%.2fx rotation=%d frames=%d", p.Speed, p.Rotation, frames)
		if f := p.Frame; f != nil {
			fmt.Fprintf(&b, " size=%dx%d seq=%d", f.Width, f.Height, f.Seq)
		}
	}
	return b.String()
}
