// Package synthetic provides a camera stand-in that renders a moving test
// pattern. It is used for demos and for exercising the pipeline without
// hardware.
package synthetic

import (
	"context"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
)

// PatternSource implements ports.FrameSource. Frames are 8-bit grayscale,
// width*height bytes, with a diagonal gradient that shifts one pixel per
// frame.
type PatternSource struct {
	fps      float64
	width    int
	height   int
	rotation int

	interval time.Duration
	next     time.Time
	seq      uint64
}

// NewPatternSource creates a pattern source. A non-positive fps leaves the
// rate unreported.
func NewPatternSource(fps float64, width, height, rotation int) *PatternSource {
	if width <= 0 {
		width = 160
	}
	if height <= 0 {
		height = 120
	}
	return &PatternSource{fps: fps, width: width, height: height, rotation: rotation}
}

// Open implements ports.FrameSource.
func (s *PatternSource) Open(ctx context.Context) (ports.SourceInfo, error) {
	rate := s.fps
	if rate <= 0 {
		rate = domain.DefaultFrameRate
	}
	s.interval = time.Duration(float64(time.Second) / rate)
	s.next = time.Now()
	s.seq = 0

	return ports.SourceInfo{
		Name:      "test-pattern",
		FrameRate: s.fps,
		Width:     s.width,
		Height:    s.height,
		Rotation:  s.rotation,
	}, nil
}

// Next waits for the next frame slot and renders it. The wait is at most
// one frame interval.
func (s *PatternSource) Next(ctx context.Context) (*domain.Frame, error) {
	if wait := time.Until(s.next); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	now := time.Now()
	s.next = s.next.Add(s.interval)
	if s.next.Before(now) {
		// Fell behind; do not burst to catch up.
		s.next = now.Add(s.interval)
	}

	f := &domain.Frame{
		Seq:       s.seq,
		Timestamp: now,
		Width:     s.width,
		Height:    s.height,
		Data:      render(s.width, s.height, int(s.seq)),
	}
	s.seq++
	return f, nil
}

// Close implements ports.FrameSource.
func (s *PatternSource) Close() error {
	return nil
}

func render(width, height, shift int) []byte {
	data := make([]byte, width*height)
	for y := 0; y < height; y++ {
		row := data[y*width : (y+1)*width]
		for x := range row {
			row[x] = byte(x + y + shift)
		}
	}
	return data
}
