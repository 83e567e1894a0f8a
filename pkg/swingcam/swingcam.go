package swingcam

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/bft-labs/swingcam/internal/adapters/console"
	"github.com/bft-labs/swingcam/internal/adapters/fs"
	"github.com/bft-labs/swingcam/internal/adapters/synthetic"
	"github.com/bft-labs/swingcam/internal/app"
	"github.com/bft-labs/swingcam/internal/ports"
	"github.com/bft-labs/swingcam/pkg/log"
)

// Session is a replay session that can be embedded in other applications.
// Use New() to create an instance, then Start() to open the devices.
type Session struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	logger    ports.Logger

	mu     sync.RWMutex
	orch   *app.Orchestrator
	done   chan struct{}
	runErr error
}

// New creates a Session with the given configuration.
// The session is created in StateStopped; call Start() to begin.
func New(cfg Config, opts ...Option) (*Session, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}
	if o.settings == nil {
		if cfg.SettingsDir == "" {
			return nil, fmt.Errorf("%w: settings dir is required without a settings repository", ErrInvalidConfig)
		}
		o.settings = fs.NewSettingsFile(cfg.SettingsDir)
	}
	if o.source == nil {
		o.source = synthetic.NewPatternSource(cfg.FrameRate, cfg.Width, cfg.Height, cfg.Rotation)
	}
	if o.commands == nil {
		o.commands = console.NewLineSource(os.Stdin, o.logger)
	}
	if o.sink == nil {
		o.sink = console.NewStatusSink(os.Stdout)
	}

	return &Session{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(o.logger, eventEmitter{handler: o.eventHandler}),
		logger:    o.logger,
	}, nil
}

// Start opens the camera and the recognizer and runs the session in the
// background. Device failures are returned wrapping ErrDeviceUnavailable
// and leave the session in StateCrashed; Start may be called again.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.lifecycle.SetCancel(cancel)

	orch := app.NewOrchestrator(
		s.config.orchestratorConfig(),
		s.opts.source,
		s.opts.commands,
		s.opts.sink,
		s.opts.chime,
		s.opts.settings,
		s.logger,
	)
	if err := orch.Open(runCtx); err != nil {
		cancel()
		s.logger.Error("failed to open devices", ports.Err(err))
		_ = s.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		return err
	}

	done := make(chan struct{})
	s.orch = orch
	s.done = done
	s.runErr = nil

	_ = s.lifecycle.TransitionTo(app.StateRunning, "devices open")

	s.lifecycle.Go(func() {
		defer close(done)
		err := orch.Run(runCtx)
		cancel()
		s.finish(err)
	})
	return nil
}

// finish records how the run ended. A run that ends on its own, through
// "salir", stops the session; during Stop() the lifecycle is left to Stop.
func (s *Session) finish(err error) {
	s.mu.Lock()
	s.runErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("session failed", ports.Err(err))
		_ = s.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		return
	}
	if s.lifecycle.TransitionTo(app.StateStopping, "session ended") == nil {
		_ = s.lifecycle.TransitionTo(app.StateStopped, "session ended")
	}
}

// Stop ends the session and releases the devices.
// Waits up to app.ShutdownTimeout; returns ErrShutdownTimeout if exceeded.
func (s *Session) Stop() error {
	s.mu.Lock()
	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	s.lifecycle.Cancel()
	s.mu.Unlock()

	err := s.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
	if err != nil {
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = s.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (s *Session) Status() State {
	return s.lifecycle.State()
}

// Snapshot returns the replay state of the current or last run: mode,
// swing count, speed and counters. It is the zero Snapshot before the
// first successful Start.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	orch := s.orch
	s.mu.RUnlock()

	if orch == nil {
		return Snapshot{}
	}
	return orch.Snapshot()
}

// Done is closed when the current run ends, either through Stop or the
// "salir" command. It is nil before the first successful Start.
func (s *Session) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// Err returns the error that ended the last run, or nil.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runErr
}
