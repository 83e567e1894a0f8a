package app

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
)

// SpeedReader exposes the current replay speed. Load is called once per
// emitted frame and must be safe to call from the pacing goroutine.
type SpeedReader interface {
	Load() float64
}

// PresentFunc receives each replayed frame in playback order.
type PresentFunc func(ctx context.Context, f *domain.Frame)

// Replayer starts paced, variable-speed playbacks of clips.
type Replayer struct {
	logger ports.Logger
}

// NewReplayer creates a replayer.
func NewReplayer(logger ports.Logger) *Replayer {
	return &Replayer{logger: logger}
}

// Start plays clip on a new goroutine, handing frames to present at the
// clip's nominal frame interval. Speed is re-read for every frame.
// The playback ends by itself after the last frame, or when ctx ends or
// Stop is called.
func (r *Replayer) Start(ctx context.Context, clip *domain.Clip, speed SpeedReader, present PresentFunc) *Playback {
	runCtx, cancel := context.WithCancel(ctx)
	p := &Playback{
		clip:    clip,
		speed:   speed,
		present: present,
		cancel:  cancel,
		done:    make(chan struct{}),
		cur:     newCursor(clip.Len()),
		logger:  r.logger,
	}
	go p.run(runCtx)
	return p
}

// cursor is the fractional playback position. Each tick emits the frame at
// floor(pos) and advances pos by the speed read for that tick, so speeds
// below 1.0x repeat source frames and speeds above 1.0x skip them.
type cursor struct {
	pos  float64
	last int
}

func newCursor(frames int) cursor {
	return cursor{last: frames - 1}
}

// next returns the index to emit and advances by speed. It reports false
// once the position has passed the last frame.
func (c *cursor) next(speed float64) (int, bool) {
	idx := int(math.Floor(c.pos))
	if idx > c.last {
		return 0, false
	}
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = 1
	}
	c.pos += speed
	return idx, true
}

func (c *cursor) reset() {
	c.pos = 0
}

// Playback is one running replay of a clip.
type Playback struct {
	clip    *domain.Clip
	speed   SpeedReader
	present PresentFunc
	cancel  context.CancelFunc
	done    chan struct{}
	logger  ports.Logger

	mu       sync.Mutex
	cur      cursor
	restart  bool
	finished bool
	emitted  int
}

// Done is closed when the playback goroutine has exited. After Done is
// closed present is never called again.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Restart rewinds to the first frame without rebuilding the playback.
// It returns false if the playback has already finished, in which case the
// caller must start a new one.
func (p *Playback) Restart() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return false
	}
	p.restart = true
	return true
}

// Stop ends the playback and waits for the pacing goroutine to exit.
func (p *Playback) Stop() {
	p.cancel()
	<-p.done
}

// Emitted returns the number of frames handed to present so far.
func (p *Playback) Emitted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.emitted
}

// Clip returns the clip being played.
func (p *Playback) Clip() *domain.Clip {
	return p.clip
}

func (p *Playback) run(ctx context.Context) {
	defer close(p.done)
	defer p.cancel()
	defer func() {
		p.mu.Lock()
		p.finished = true
		p.mu.Unlock()
	}()

	interval := p.clip.FrameInterval()
	next := time.Now()
	late := 0

	for {
		idx, ok := p.advance()
		if !ok {
			if late > 0 {
				p.logger.Debug("replay ran behind schedule", ports.Int("late_frames", late))
			}
			return
		}

		p.present(ctx, p.clip.Frames[idx])

		next = next.Add(interval)
		wait := time.Until(next)
		if wait <= 0 {
			late++
			if ctx.Err() != nil {
				return
			}
			// More than a frame behind (stalled sink): restart the schedule
			// from now rather than emitting the backlog back to back.
			if -wait >= interval {
				next = time.Now()
			}
			continue
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// advance picks the next frame index under the lock shared with Restart.
func (p *Playback) advance() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.restart {
		p.cur.reset()
		p.restart = false
	}
	idx, ok := p.cur.next(p.speed.Load())
	if !ok {
		p.finished = true
		return 0, false
	}
	p.emitted++
	return idx, true
}
