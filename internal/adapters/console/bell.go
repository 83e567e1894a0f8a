package console

import (
	"io"
	"sync"

	"github.com/bft-labs/swingcam/internal/domain"
)

// Bell implements ports.Chime with the terminal bell.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Ring writes BEL without waiting for the write to finish.
func (b *Bell) Ring(cmd domain.Command) {
	go func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		_, _ = b.w.Write([]byte{'\a'})
	}()
}
