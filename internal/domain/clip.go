package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultFrameRate is assumed when a camera does not report its rate.
const DefaultFrameRate = 30.0

// Clip is the ordered sequence of frames captured by one recording session.
// A Clip is built by the recorder and is read-only once handed over.
type Clip struct {
	// ID uniquely identifies the recording session.
	ID string

	// Frames in arrival order.
	Frames []*Frame

	// Duration is the target recording duration, not the span of Frames.
	Duration time.Duration

	// FrameRate is the camera's nominal rate at capture time.
	FrameRate float64

	// CapturedAt is when the recording session started.
	CapturedAt time.Time
}

// NewClip creates an empty clip for a session starting at start.
func NewClip(start time.Time, duration time.Duration, frameRate float64) *Clip {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Clip{
		ID:         uuid.NewString(),
		Frames:     make([]*Frame, 0, int(duration.Seconds()*frameRate)+1),
		Duration:   duration,
		FrameRate:  frameRate,
		CapturedAt: start,
	}
}

// Len returns the number of frames in the clip.
func (c *Clip) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Frames)
}

// Empty returns true if the clip has no frames. A nil clip is empty.
func (c *Clip) Empty() bool {
	return c.Len() == 0
}

// FrameInterval is the wall-clock spacing between frames at 1.0x.
func (c *Clip) FrameInterval() time.Duration {
	rate := c.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	return time.Duration(float64(time.Second) / rate)
}

// PlayDuration returns how long the clip lasts when replayed at 1.0x.
func (c *Clip) PlayDuration() time.Duration {
	return time.Duration(c.Len()) * c.FrameInterval()
}
