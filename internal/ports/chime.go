package ports

import "github.com/bft-labs/swingcam/internal/domain"

// Chime gives audible feedback that a command was accepted.
// Ring is fire-and-forget and must return immediately.
type Chime interface {
	Ring(cmd domain.Command)
}
