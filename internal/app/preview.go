package app

import (
	"sync"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
)

// livePreview is a live frame waiting to be shown.
type livePreview struct {
	frame     *domain.Frame
	mode      domain.Mode
	remaining time.Duration
}

// previewSlot hands live frames from the event loop to the presenter. It
// holds one frame; a newer frame replaces one the presenter has not taken
// yet, so a slow sink costs preview frames and never capture time.
type previewSlot struct {
	mu      sync.Mutex
	pending livePreview
	full    bool
	ready   chan struct{}
}

func newPreviewSlot() *previewSlot {
	return &previewSlot{ready: make(chan struct{}, 1)}
}

// put stores p and reports whether it replaced an untaken frame.
func (s *previewSlot) put(p livePreview) bool {
	s.mu.Lock()
	replaced := s.full
	s.pending = p
	s.full = true
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return replaced
}

// take removes the pending frame, if any.
func (s *previewSlot) take() (livePreview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		return livePreview{}, false
	}
	p := s.pending
	s.pending = livePreview{}
	s.full = false
	return p, true
}

// Ready receives a signal after put. A signal may be stale; take reports
// whether a frame is actually there.
func (s *previewSlot) Ready() <-chan struct{} {
	return s.ready
}
