package ports

import (
	"context"

	"github.com/bft-labs/swingcam/internal/domain"
)

// SourceInfo describes a frame source. It is queried once at startup.
type SourceInfo struct {
	// Name identifies the device for logs.
	Name string

	// FrameRate is the nominal capture rate. Zero means unreported.
	FrameRate float64

	// Width and Height of produced frames in pixels.
	Width  int
	Height int

	// Rotation in degrees clockwise (0, 90, 180, 270) the sink should apply.
	Rotation int
}

// FrameSource produces camera frames.
type FrameSource interface {
	// Open acquires the device. An error here is fatal: the appliance does
	// not start without a camera.
	Open(ctx context.Context) (SourceInfo, error)

	// Next returns the next frame.
	// It must not block indefinitely: when no frame arrives within a short,
	// bounded wait it returns ErrNoData. Other errors are treated as
	// transient by the caller and retried with backoff.
	Next(ctx context.Context) (*domain.Frame, error)

	// Close releases the device.
	Close() error
}
