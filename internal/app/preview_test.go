package app

import (
	"testing"

	"github.com/bft-labs/swingcam/internal/domain"
)

func TestPreviewSlot_KeepsLatest(t *testing.T) {
	s := newPreviewSlot()

	if _, ok := s.take(); ok {
		t.Fatal("take() on an empty slot returned a frame")
	}

	if s.put(livePreview{frame: &domain.Frame{Seq: 1}}) {
		t.Error("first put reported a replaced frame")
	}
	if !s.put(livePreview{frame: &domain.Frame{Seq: 2}}) {
		t.Error("second put did not report the replaced frame")
	}

	select {
	case <-s.Ready():
	default:
		t.Fatal("no ready signal after put")
	}
	p, ok := s.take()
	if !ok || p.frame.Seq != 2 {
		t.Fatalf("take() = %+v, %v; want frame 2", p, ok)
	}
	if _, ok := s.take(); ok {
		t.Error("slot not empty after take")
	}
	if s.put(livePreview{frame: &domain.Frame{Seq: 3}}) {
		t.Error("put after take reported a replaced frame")
	}
}
