package app

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/pkg/log"
)

func makeClip(n int, fps float64) *domain.Clip {
	c := domain.NewClip(time.Now(), time.Duration(float64(n)/fps*float64(time.Second)), fps)
	for i := 0; i < n; i++ {
		c.Frames = append(c.Frames, &domain.Frame{Seq: uint64(i)})
	}
	return c
}

func drain(c cursor, speed func(tick int) float64) []int {
	var out []int
	for tick := 0; ; tick++ {
		idx, ok := c.next(speed(tick))
		if !ok {
			return out
		}
		out = append(out, idx)
	}
}

func constant(s float64) func(int) float64 {
	return func(int) float64 { return s }
}

func TestCursor_Sequences(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		speed  float64
		want   []int
	}{
		{"normal", 4, 1.0, []int{0, 1, 2, 3}},
		{"half speed repeats", 4, 0.5, []int{0, 0, 1, 1, 2, 2, 3, 3}},
		{"double speed skips", 4, 2.0, []int{0, 2}},
		{"three quarters", 4, 0.75, []int{0, 0, 1, 2, 3, 3}},
		{"one and a half", 6, 1.5, []int{0, 1, 3, 4}},
		{"empty clip", 0, 1.0, nil},
		{"invalid speed treated as normal", 3, 0, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drain(newCursor(tt.frames), constant(tt.speed))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCursor_PlayedDurationWithinOneFrame(t *testing.T) {
	const fps = 30.0
	interval := 1 / fps

	for _, n := range []int{1, 7, 30, 120} {
		for s := 0.25; s <= 2.0; s += 0.05 {
			got := len(drain(newCursor(n), constant(s)))
			played := float64(got) * interval
			ideal := (float64(n) / fps) / s
			if math.Abs(played-ideal) > interval+1e-9 {
				t.Errorf("n=%d speed=%.2f: played %.4fs, ideal %.4fs", n, s, played, ideal)
			}
		}
	}
}

func TestCursor_SpeedChangeMidReplayKeepsOrder(t *testing.T) {
	speed := func(tick int) float64 {
		if tick < 4 {
			return 1.0
		}
		return 0.5
	}
	got := drain(newCursor(10), speed)

	want := []int{0, 1, 2, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCursor_RandomSpeedChangesNeverReorder(t *testing.T) {
	speeds := []float64{0.25, 1.75, 0.5, 2.0, 1.0, 0.75, 1.25}
	got := drain(newCursor(50), func(tick int) float64 { return speeds[tick%len(speeds)] })

	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("index went backwards at %d: %v", i, got)
		}
		if got[i]-got[i-1] > 2 {
			t.Fatalf("skipped more than the 2.0x policy allows at %d: %v", i, got)
		}
	}
	if got[0] != 0 {
		t.Errorf("playback should start at frame 0, got %d", got[0])
	}
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []*domain.Frame
	at     []time.Time
	notify chan struct{}
}

func newFrameRecorder() *frameRecorder {
	return &frameRecorder{notify: make(chan struct{}, 1024)}
}

func (r *frameRecorder) present(_ context.Context, f *domain.Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.at = append(r.at, time.Now())
	r.mu.Unlock()
	r.notify <- struct{}{}
}

func (r *frameRecorder) seqs() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint64, len(r.frames))
	for i, f := range r.frames {
		out[i] = f.Seq
	}
	return out
}

func waitDone(t *testing.T, p *Playback, timeout time.Duration) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(timeout):
		t.Fatal("playback did not finish in time")
	}
}

func TestPlayback_PacesAtFrameRate(t *testing.T) {
	clip := makeClip(20, 200) // 5ms per frame
	rec := newFrameRecorder()
	r := NewReplayer(log.NewNoopLogger())

	start := time.Now()
	p := r.Start(context.Background(), clip, domain.NewSpeedRef(0.5), rec.present)
	waitDone(t, p, 2*time.Second)
	elapsed := time.Since(start)

	if p.Emitted() != 40 {
		t.Errorf("Emitted() = %d, want 40 at 0.5x", p.Emitted())
	}
	// 40 frames at 5ms: the last one is shown at ~195ms and held for one interval.
	if elapsed < 190*time.Millisecond {
		t.Errorf("playback took %v, frames were dumped instead of paced", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("playback took %v, want about 200ms", elapsed)
	}
}

func TestPlayback_LiveSpeedChange(t *testing.T) {
	clip := makeClip(40, 100)
	rec := newFrameRecorder()
	speed := domain.NewSpeedRef(1.0)
	r := NewReplayer(log.NewNoopLogger())

	p := r.Start(context.Background(), clip, speed, rec.present)
	for i := 0; i < 5; i++ {
		<-rec.notify
	}
	speed.Store(2.0)
	waitDone(t, p, 2*time.Second)

	seqs := rec.seqs()
	for i := 1; i < len(seqs); i++ {
		if seqs[i] <= seqs[i-1] {
			t.Fatalf("frames out of order after speed change: %v", seqs)
		}
	}
	if len(seqs) >= 40 {
		t.Errorf("got %d frames, speeding up should skip frames", len(seqs))
	}
	if seqs[len(seqs)-1] < 38 {
		t.Errorf("last frame %d, playback should reach the end of the clip", seqs[len(seqs)-1])
	}
}

func TestPlayback_RestartBeginsAtFirstFrame(t *testing.T) {
	clip := makeClip(30, 100)
	rec := newFrameRecorder()
	r := NewReplayer(log.NewNoopLogger())

	p := r.Start(context.Background(), clip, domain.NewSpeedRef(1.0), rec.present)
	for i := 0; i < 10; i++ {
		<-rec.notify
	}
	if !p.Restart() {
		t.Fatal("Restart() = false on a running playback")
	}
	waitDone(t, p, 3*time.Second)

	seqs := rec.seqs()
	restartAt := -1
	for i := 1; i < len(seqs); i++ {
		if seqs[i] < seqs[i-1] {
			restartAt = i
			break
		}
	}
	if restartAt < 0 {
		t.Fatalf("no rewind observed: %v", seqs)
	}
	if seqs[restartAt] != 0 {
		t.Errorf("restart resumed at frame %d, want 0", seqs[restartAt])
	}
	if tail := seqs[restartAt:]; len(tail) != 30 {
		t.Errorf("after restart got %d frames, want the full clip of 30", len(tail))
	}
}

func TestPlayback_RestartAfterFinish(t *testing.T) {
	clip := makeClip(3, 500)
	rec := newFrameRecorder()
	r := NewReplayer(log.NewNoopLogger())

	p := r.Start(context.Background(), clip, domain.NewSpeedRef(1.0), rec.present)
	waitDone(t, p, time.Second)

	if p.Restart() {
		t.Error("Restart() = true after playback finished")
	}
}

func TestPlayback_StopHaltsPresentation(t *testing.T) {
	clip := makeClip(100, 50)
	rec := newFrameRecorder()
	r := NewReplayer(log.NewNoopLogger())

	p := r.Start(context.Background(), clip, domain.NewSpeedRef(1.0), rec.present)
	<-rec.notify
	p.Stop()

	n := len(rec.seqs())
	time.Sleep(60 * time.Millisecond)
	if len(rec.seqs()) != n {
		t.Error("frames presented after Stop returned")
	}
	if n >= 100 {
		t.Errorf("Stop did not interrupt playback, got %d frames", n)
	}
}

func TestPlayback_StalledSinkDoesNotBurst(t *testing.T) {
	clip := makeClip(20, 100) // 10ms per frame
	rec := newFrameRecorder()
	r := NewReplayer(log.NewNoopLogger())

	var calls int
	stallFirst := func(ctx context.Context, f *domain.Frame) {
		calls++
		if calls == 1 {
			time.Sleep(100 * time.Millisecond)
		}
		rec.present(ctx, f)
	}

	p := r.Start(context.Background(), clip, domain.NewSpeedRef(1.0), stallFirst)
	waitDone(t, p, 2*time.Second)

	rec.mu.Lock()
	at := append([]time.Time(nil), rec.at...)
	rec.mu.Unlock()
	if len(at) != 20 {
		t.Fatalf("presented %d frames, want 20", len(at))
	}

	// After the stall at most one overdue frame may follow immediately.
	tight := 0
	for i := 1; i < len(at); i++ {
		if at[i].Sub(at[i-1]) < 3*time.Millisecond {
			tight++
		}
	}
	if tight > 1 {
		t.Errorf("%d frames shown back to back after a stall, want at most 1", tight)
	}
}
