package ports

import (
	"context"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
)

// Presentation is everything the presentation layer needs to draw one frame.
type Presentation struct {
	Frame *domain.Frame
	Mode  domain.Mode

	// Swings is the number of completed recordings.
	Swings int

	// Speed is the current replay speed multiplier.
	Speed float64

	// InfoPanel reports whether the info panel is visible.
	InfoPanel bool

	// Rotation in degrees clockwise, copied from SourceInfo.
	Rotation int

	// Remaining is the recording time left; zero outside ModeRecording.
	Remaining time.Duration
}

// FrameSink renders frames. Rotation, fullscreen and overlays are entirely
// the sink's concern.
//
// Present is called from one goroutine at a time, but not always the same
// goroutine: live frames come from the live presenter, replayed frames from
// the replay pacer. A slow Present skips live frames; it never delays
// recording.
type FrameSink interface {
	Present(ctx context.Context, p Presentation) error
}
