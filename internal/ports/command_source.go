package ports

import (
	"context"

	"github.com/bft-labs/swingcam/internal/domain"
)

// CommandSource wraps the continuous audio recognizer and yields one
// classified command per utterance.
type CommandSource interface {
	// Open starts listening. An error here is fatal at startup.
	Open(ctx context.Context) error

	// Next returns the next recognized command, or ErrNoData if nothing was
	// recognized within a short, bounded wait. Recognition runs on its own
	// schedule; Next only drains what it produced.
	Next(ctx context.Context) (domain.Command, error)

	// Close stops listening and releases the audio device.
	Close() error
}
