package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
)

// Default orchestrator configuration values.
const (
	DefaultRecordDuration = 4 * time.Second
	DefaultQueueSize      = 64
)

// Config contains configuration for the orchestrator.
type Config struct {
	// RecordDuration is the wall-clock length of every recording.
	RecordDuration time.Duration

	// Speed bounds the replay speed and sets its step and default.
	Speed domain.SpeedPolicy

	// QueueSize is the capacity of the event queue shared by both pumps.
	QueueSize int

	// PollInterval is the initial pump backoff when a source has no data.
	PollInterval time.Duration

	// PreviewWhileRecording keeps live frames flowing to the sink during a
	// recording.
	PreviewWhileRecording bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		RecordDuration:        DefaultRecordDuration,
		Speed:                 domain.DefaultSpeedPolicy(),
		QueueSize:             DefaultQueueSize,
		PollInterval:          DefaultPollInitial,
		PreviewWhileRecording: true,
	}
}

// Status is a point-in-time view of the orchestrator, safe to take from any
// goroutine.
type Status struct {
	Mode            domain.Mode
	Swings          int
	Speed           float64
	InfoPanel       bool
	ClipFrames      int
	FramesDropped   uint64
	PreviewSkipped  uint64
	CommandsIgnored uint64
	PresentErrors   uint64
}

type eventKind int

const (
	eventFrame eventKind = iota
	eventCommand
)

// event is one entry of the queue both pumps feed.
type event struct {
	kind    eventKind
	frame   *domain.Frame
	command domain.Command
	at      time.Time
}

// action handles one command in one mode and reports whether the command
// was accepted. Rejected commands change nothing and do not ring the chime.
type action func(o *Orchestrator, ctx context.Context, cmd domain.Command) bool

// transitions is the complete command table. Every (mode, command) pair has
// an entry; commands outside the vocabulary never reach it.
var transitions = [domain.NumModes][domain.NumCommands]action{
	domain.ModeIdle: {
		domain.CommandNone:   ignore,
		domain.CommandOkay:   (*Orchestrator).beginRecording,
		domain.CommandOtra:   (*Orchestrator).replayLastClip,
		domain.CommandLento:  (*Orchestrator).adjustSpeed,
		domain.CommandRapido: (*Orchestrator).adjustSpeed,
		domain.CommandMenu:   (*Orchestrator).toggleInfo,
		domain.CommandSalir:  (*Orchestrator).quit,
	},
	domain.ModeRecording: {
		domain.CommandNone:   ignore,
		domain.CommandOkay:   ignore,
		domain.CommandOtra:   ignore,
		domain.CommandLento:  (*Orchestrator).adjustSpeed,
		domain.CommandRapido: (*Orchestrator).adjustSpeed,
		domain.CommandMenu:   (*Orchestrator).toggleInfo,
		domain.CommandSalir:  (*Orchestrator).quit,
	},
	domain.ModeReplaying: {
		domain.CommandNone:   ignore,
		domain.CommandOkay:   (*Orchestrator).beginRecording,
		domain.CommandOtra:   (*Orchestrator).restartReplay,
		domain.CommandLento:  (*Orchestrator).adjustSpeed,
		domain.CommandRapido: (*Orchestrator).adjustSpeed,
		domain.CommandMenu:   (*Orchestrator).toggleInfo,
		domain.CommandSalir:  (*Orchestrator).quit,
	},
}

func ignore(*Orchestrator, context.Context, domain.Command) bool { return false }

// Orchestrator is the session state machine. It owns the mode, the swing
// counter, the replay speed and the current clip.
//
// Run starts four cooperating goroutines: a frame pump, a command pump, the
// event loop and a live presenter. Only the event loop mutates state; the
// pumps just feed the event queue. Frames are dropped when the queue is full
// so the camera is never blocked; commands wait for room. The loop hands live
// frames to the presenter through a one-frame slot, so the sink never paces
// capture.
type Orchestrator struct {
	config   Config
	source   ports.FrameSource
	commands ports.CommandSource
	sink     ports.FrameSink
	chime    ports.Chime
	settings ports.SettingsRepository
	logger   ports.Logger

	info     ports.SourceInfo
	recorder *Recorder
	replayer *Replayer
	events   chan event
	preview  *previewSlot
	opened   bool
	closer   sync.Once

	// sinkMu serializes the presenter and the replay pacer.
	sinkMu sync.Mutex

	// Owned by the event loop.
	session  *Session
	playback *Playback
	clip     *domain.Clip
	quitting bool

	// Written by the event loop, read anywhere.
	mode            atomic.Int32
	swings          atomic.Int64
	speed           *domain.SpeedRef
	infoPanel       atomic.Bool
	clipFrames      atomic.Int64
	framesDropped   atomic.Uint64
	previewSkipped  atomic.Uint64
	commandsIgnored atomic.Uint64
	presentErrors   atomic.Uint64
}

// NewOrchestrator creates an orchestrator with the given dependencies.
// A nil chime disables audible feedback.
func NewOrchestrator(
	config Config,
	source ports.FrameSource,
	commands ports.CommandSource,
	sink ports.FrameSink,
	chime ports.Chime,
	settings ports.SettingsRepository,
	logger ports.Logger,
) *Orchestrator {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInitial
	}
	if config.RecordDuration <= 0 {
		config.RecordDuration = DefaultRecordDuration
	}
	if chime == nil {
		chime = silentChime{}
	}
	return &Orchestrator{
		config:   config,
		source:   source,
		commands: commands,
		sink:     sink,
		chime:    chime,
		settings: settings,
		logger:   logger,
		replayer: NewReplayer(logger),
		events:   make(chan event, config.QueueSize),
		preview:  newPreviewSlot(),
		speed:    domain.NewSpeedRef(config.Speed.Default),
	}
}

// Open acquires the camera and the command source and restores the saved
// replay speed. Device errors are fatal and wrap domain.ErrDeviceUnavailable.
func (o *Orchestrator) Open(ctx context.Context) error {
	info, err := o.source.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: camera: %w", domain.ErrDeviceUnavailable, err)
	}
	if info.FrameRate <= 0 {
		o.logger.Warn("camera did not report a frame rate, assuming default",
			ports.Float64("fps", domain.DefaultFrameRate))
		info.FrameRate = domain.DefaultFrameRate
	}

	if err := o.commands.Open(ctx); err != nil {
		if cerr := o.source.Close(); cerr != nil {
			o.logger.Warn("failed to close camera", ports.Err(cerr))
		}
		return fmt.Errorf("%w: command source: %w", domain.ErrDeviceUnavailable, err)
	}

	o.info = info
	o.recorder = NewRecorder(o.config.RecordDuration, info.FrameRate)
	o.speed.Store(o.loadSpeed(ctx))
	o.opened = true

	o.logger.Info("devices opened",
		ports.String("camera", info.Name),
		ports.Float64("fps", info.FrameRate),
		ports.Int("width", info.Width),
		ports.Int("height", info.Height),
		ports.Float64("speed", o.speed.Load()),
	)
	return nil
}

// Run processes frames and commands until "salir" is recognized or ctx
// ends, then releases both devices. Both endings return nil.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !o.opened {
		return domain.ErrNotRunning
	}
	defer o.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return o.pumpFrames(gctx) })
	g.Go(func() error { return o.pumpCommands(gctx) })
	g.Go(func() error { return o.presentLive(gctx) })
	g.Go(func() error {
		// Leaving the loop, for any reason, stops the pumps.
		defer cancel()
		return o.loop(gctx)
	})
	return g.Wait()
}

// Snapshot returns the current status.
func (o *Orchestrator) Snapshot() Status {
	return Status{
		Mode:            o.Mode(),
		Swings:          int(o.swings.Load()),
		Speed:           o.speed.Load(),
		InfoPanel:       o.infoPanel.Load(),
		ClipFrames:      int(o.clipFrames.Load()),
		FramesDropped:   o.framesDropped.Load(),
		PreviewSkipped:  o.previewSkipped.Load(),
		CommandsIgnored: o.commandsIgnored.Load(),
		PresentErrors:   o.presentErrors.Load(),
	}
}

// Mode returns the current mode.
func (o *Orchestrator) Mode() domain.Mode {
	return domain.Mode(o.mode.Load())
}

// SourceInfo returns what the camera reported at Open.
func (o *Orchestrator) SourceInfo() ports.SourceInfo {
	return o.info
}

func (o *Orchestrator) loop(ctx context.Context) error {
	defer o.teardown()

	for {
		var recordDone <-chan time.Time
		if o.session != nil {
			recordDone = o.session.Done()
		}
		var replayDone <-chan struct{}
		if o.playback != nil {
			replayDone = o.playback.Done()
		}

		select {
		case <-ctx.Done():
			return nil

		case ev := <-o.events:
			o.dispatch(ctx, ev)

		case <-recordDone:
			o.endRecording(ctx)

		case <-replayDone:
			o.finishReplay()
		}

		if o.quitting {
			o.logger.Info("shutdown requested by voice command")
			return nil
		}
	}
}

func (o *Orchestrator) dispatch(ctx context.Context, ev event) {
	switch ev.kind {
	case eventFrame:
		o.handleFrame(ctx, ev.frame, ev.at)
	case eventCommand:
		o.handleCommand(ctx, ev.command)
	}
}

func (o *Orchestrator) handleFrame(_ context.Context, f *domain.Frame, at time.Time) {
	switch o.Mode() {
	case domain.ModeIdle:
		o.showLive(livePreview{frame: f, mode: domain.ModeIdle})
	case domain.ModeRecording:
		o.session.Append(f, at)
		if o.config.PreviewWhileRecording {
			o.showLive(livePreview{
				frame:     f,
				mode:      domain.ModeRecording,
				remaining: o.session.Remaining(time.Now()),
			})
		}
	case domain.ModeReplaying:
		// The replayer owns the sink.
	}
}

// endRecording runs when the recording deadline passes. Events still queued
// from inside the window are handled first, in Recording mode, so frames
// captured before the deadline reach the clip even if the loop was behind.
// The first event from after the deadline is handled once the clip is done.
func (o *Orchestrator) endRecording(ctx context.Context) {
	deadline := o.session.Deadline()
	var later *event

drain:
	for !o.quitting {
		select {
		case ev := <-o.events:
			if !ev.before(deadline) {
				later = &ev
				break drain
			}
			o.dispatch(ctx, ev)
		default:
			break drain
		}
	}
	if o.quitting {
		return
	}

	o.finishRecording(ctx)
	if later != nil {
		o.dispatch(ctx, *later)
	}
}

// before reports whether the event happened before t. Frames go by capture
// time, commands by arrival.
func (ev event) before(t time.Time) bool {
	if ev.kind == eventFrame {
		return ev.frame.CapturedAt(ev.at).Before(t)
	}
	return ev.at.Before(t)
}

func (o *Orchestrator) handleCommand(ctx context.Context, cmd domain.Command) {
	mode := o.Mode()
	if !cmd.Valid() {
		o.commandsIgnored.Add(1)
		o.logger.Debug("dropped unknown command", ports.Int("token", int(cmd)))
		return
	}

	if !transitions[mode][cmd](o, ctx, cmd) {
		o.commandsIgnored.Add(1)
		o.logger.Debug("ignored command",
			ports.Stringer("command", cmd),
			ports.Stringer("mode", mode))
		return
	}
	o.chime.Ring(cmd)
}

func (o *Orchestrator) beginRecording(_ context.Context, _ domain.Command) bool {
	o.stopPlayback()
	o.session = o.recorder.Start()
	o.setMode(domain.ModeRecording, "okay")
	return true
}

func (o *Orchestrator) replayLastClip(ctx context.Context, _ domain.Command) bool {
	if err := o.startReplay(ctx, "otra"); err != nil {
		o.logger.Debug("otra ignored", ports.Err(err))
		return false
	}
	return true
}

func (o *Orchestrator) restartReplay(ctx context.Context, _ domain.Command) bool {
	if o.playback != nil && o.playback.Restart() {
		o.logger.Info("replay restarted", ports.String("clip", o.clip.ID))
		return true
	}
	// The playback ran out just before the command; start over.
	return o.startReplay(ctx, "otra") == nil
}

func (o *Orchestrator) adjustSpeed(ctx context.Context, cmd domain.Command) bool {
	prev := o.speed.Load()
	next := o.config.Speed.Apply(cmd, prev)
	o.speed.Store(next)
	o.logger.Info("replay speed changed",
		ports.Float64("from", prev),
		ports.Float64("to", next),
		ports.Stringer("mode", o.Mode()))
	o.saveSpeed(ctx, next)
	return true
}

func (o *Orchestrator) toggleInfo(_ context.Context, _ domain.Command) bool {
	visible := !o.infoPanel.Load()
	o.infoPanel.Store(visible)
	o.logger.Debug("info panel toggled", ports.Bool("visible", visible))
	return true
}

func (o *Orchestrator) quit(_ context.Context, _ domain.Command) bool {
	o.quitting = true
	return true
}

func (o *Orchestrator) finishRecording(ctx context.Context) {
	session := o.session
	o.session = nil
	clip := session.Finish()

	if clip.Empty() {
		o.logger.Warn("recording captured no frames",
			ports.Duration("duration", o.config.RecordDuration))
		o.setMode(domain.ModeIdle, "empty clip")
		return
	}

	o.clip = clip
	o.clipFrames.Store(int64(clip.Len()))
	swing := o.swings.Add(1)
	o.logger.Info("recording finished",
		ports.String("clip", clip.ID),
		ports.Int("frames", clip.Len()),
		ports.Int("skipped", session.Skipped()),
		ports.Int64("swing", swing))

	o.startReplay(ctx, "recording finished")
}

// startReplay plays the last clip from the start. Returns domain.ErrNoClip
// if nothing has been recorded yet.
func (o *Orchestrator) startReplay(ctx context.Context, reason string) error {
	if o.clip.Empty() {
		return domain.ErrNoClip
	}
	o.stopPlayback()
	o.setMode(domain.ModeReplaying, reason)
	o.playback = o.replayer.Start(ctx, o.clip, o.speed, o.presentReplay)
	return nil
}

func (o *Orchestrator) finishReplay() {
	o.playback = nil
	o.setMode(domain.ModeIdle, "end of clip")
}

func (o *Orchestrator) stopPlayback() {
	if o.playback != nil {
		o.playback.Stop()
		o.playback = nil
	}
}

func (o *Orchestrator) teardown() {
	o.stopPlayback()
	if o.session != nil {
		o.session.Finish()
		o.session = nil
	}
	o.setMode(domain.ModeIdle, "shutdown")
}

func (o *Orchestrator) setMode(m domain.Mode, reason string) {
	prev := domain.Mode(o.mode.Swap(int32(m)))
	if prev == m {
		return
	}
	o.logger.Info("mode change",
		ports.Stringer("from", prev),
		ports.Stringer("to", m),
		ports.String("reason", reason))
}

func (o *Orchestrator) showLive(p livePreview) {
	if o.preview.put(p) {
		o.previewSkipped.Add(1)
	}
}

// presentLive shows the latest live frame whenever one is waiting. A frame
// whose mode has passed by the time it is taken is dropped.
func (o *Orchestrator) presentLive(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-o.preview.Ready():
		}
		p, ok := o.preview.take()
		if !ok || p.mode != o.Mode() {
			continue
		}
		o.present(ctx, p.frame, p.mode, p.remaining)
	}
}

func (o *Orchestrator) presentReplay(ctx context.Context, f *domain.Frame) {
	o.present(ctx, f, domain.ModeReplaying, 0)
}

func (o *Orchestrator) present(ctx context.Context, f *domain.Frame, mode domain.Mode, remaining time.Duration) {
	o.sinkMu.Lock()
	defer o.sinkMu.Unlock()

	err := o.sink.Present(ctx, ports.Presentation{
		Frame:     f,
		Mode:      mode,
		Swings:    int(o.swings.Load()),
		Speed:     o.speed.Load(),
		InfoPanel: o.infoPanel.Load(),
		Rotation:  o.info.Rotation,
		Remaining: remaining,
	})
	if err != nil && ctx.Err() == nil {
		if n := o.presentErrors.Add(1); n == 1 || n%100 == 0 {
			o.logger.Warn("sink rejected frame", ports.Err(err), ports.Uint64("count", n))
		}
	}
}

func (o *Orchestrator) loadSpeed(ctx context.Context) float64 {
	policy := o.config.Speed
	s, err := o.settings.Load(ctx)
	if err != nil {
		o.logger.Error("failed to load settings, using default speed",
			ports.Err(err), ports.Float64("speed", policy.Default))
		return policy.Default
	}
	if s.IsEmpty() {
		return policy.Default
	}
	speed := policy.Clamp(s.Speed)
	if speed != s.Speed {
		o.logger.Warn("saved speed out of range, clamped",
			ports.Float64("saved", s.Speed), ports.Float64("speed", speed))
	}
	return speed
}

func (o *Orchestrator) saveSpeed(ctx context.Context, speed float64) {
	err := o.settings.Save(ctx, domain.Settings{Speed: speed, UpdatedAt: time.Now()})
	if err != nil {
		o.logger.Error("failed to save settings", ports.Err(err))
	}
}

func (o *Orchestrator) pumpFrames(ctx context.Context) error {
	b := newBackoff(o.config.PollInterval, DefaultPollMax)
	for ctx.Err() == nil {
		f, err := o.source.Next(ctx)
		if err != nil || f == nil {
			if ctx.Err() != nil {
				break
			}
			if err != nil && !errors.Is(err, ports.ErrNoData) {
				o.logger.Debug("camera read failed", ports.Err(err))
			}
			if b.Wait(ctx) != nil {
				break
			}
			continue
		}
		b.Reset()

		select {
		case o.events <- event{kind: eventFrame, frame: f, at: time.Now()}:
		default:
			if n := o.framesDropped.Add(1); n == 1 || n%100 == 0 {
				o.logger.Warn("event queue full, dropping frames", ports.Uint64("dropped", n))
			}
		}
	}
	return nil
}

func (o *Orchestrator) pumpCommands(ctx context.Context) error {
	b := newBackoff(o.config.PollInterval, DefaultPollMax)
	for ctx.Err() == nil {
		cmd, err := o.commands.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if !errors.Is(err, ports.ErrNoData) {
				o.logger.Debug("command source read failed", ports.Err(err))
			}
			if b.Wait(ctx) != nil {
				break
			}
			continue
		}
		b.Reset()

		select {
		case o.events <- event{kind: eventCommand, command: cmd, at: time.Now()}:
		case <-ctx.Done():
		}
	}
	return nil
}

func (o *Orchestrator) close() {
	o.closer.Do(func() {
		if err := o.source.Close(); err != nil {
			o.logger.Warn("failed to close camera", ports.Err(err))
		}
		if err := o.commands.Close(); err != nil {
			o.logger.Warn("failed to close command source", ports.Err(err))
		}
		o.logger.Info("devices released")
	})
}

type silentChime struct{}

func (silentChime) Ring(domain.Command) {}
