package app

import (
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
)

// Recorder starts fixed-duration recording sessions.
type Recorder struct {
	duration  time.Duration
	frameRate float64
}

// NewRecorder creates a recorder producing clips of the given duration.
// frameRate is the camera's nominal rate, stored on every clip.
func NewRecorder(duration time.Duration, frameRate float64) *Recorder {
	if frameRate <= 0 {
		frameRate = domain.DefaultFrameRate
	}
	return &Recorder{duration: duration, frameRate: frameRate}
}

// Duration returns the configured recording duration.
func (r *Recorder) Duration() time.Duration {
	return r.duration
}

// Start begins a session now.
func (r *Recorder) Start() *Session {
	return r.StartAt(time.Now())
}

// StartAt begins a session whose window opens at start.
func (r *Recorder) StartAt(start time.Time) *Session {
	deadline := start.Add(r.duration)
	return &Session{
		clip:     domain.NewClip(start, r.duration, r.frameRate),
		start:    start,
		deadline: deadline,
		timer:    time.NewTimer(time.Until(deadline)),
	}
}

// Session is one recording in progress. It is owned by a single goroutine.
//
// The session ends on the wall clock: Done fires at the deadline whether or
// not any frame arrived, so a stalled camera yields a short or empty clip
// instead of a hung recording.
type Session struct {
	clip     *domain.Clip
	start    time.Time
	deadline time.Time
	timer    *time.Timer
	skipped  int
	finished bool
}

// Done fires once the session deadline passes.
func (s *Session) Done() <-chan time.Time {
	return s.timer.C
}

// Deadline returns the wall-clock time at which the session ends.
func (s *Session) Deadline() time.Time {
	return s.deadline
}

// Remaining returns the time left before the deadline, never negative.
func (s *Session) Remaining(now time.Time) time.Duration {
	if left := s.deadline.Sub(now); left > 0 {
		return left
	}
	return 0
}

// Append adds a frame that arrived at arrival.
// Frames captured outside [start, deadline) belong to the live feed around
// the recording, not to the clip, and are skipped. Returns whether the
// frame was kept.
func (s *Session) Append(f *domain.Frame, arrival time.Time) bool {
	if s.finished || f == nil {
		return false
	}
	captured := f.CapturedAt(arrival)
	if captured.Before(s.start) || !captured.Before(s.deadline) {
		s.skipped++
		return false
	}
	s.clip.Frames = append(s.clip.Frames, f)
	return true
}

// Len returns the number of frames recorded so far.
func (s *Session) Len() int {
	return s.clip.Len()
}

// Skipped returns how many frames fell outside the session window.
func (s *Session) Skipped() int {
	return s.skipped
}

// Finish closes the session and hands over the clip. The clip may be empty.
// Calling Finish again returns the same clip.
func (s *Session) Finish() *domain.Clip {
	if !s.finished {
		s.finished = true
		s.timer.Stop()
	}
	return s.clip
}
