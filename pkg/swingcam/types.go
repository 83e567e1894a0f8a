package swingcam

import (
	"github.com/bft-labs/swingcam/internal/app"
	"github.com/bft-labs/swingcam/internal/domain"
	"github.com/bft-labs/swingcam/internal/ports"
	"github.com/bft-labs/swingcam/pkg/log"
)

// Device interfaces and the values that cross them.
type (
	FrameSource        = ports.FrameSource
	CommandSource      = ports.CommandSource
	FrameSink          = ports.FrameSink
	Chime              = ports.Chime
	SettingsRepository = ports.SettingsRepository

	SourceInfo   = ports.SourceInfo
	Presentation = ports.Presentation
	Frame        = domain.Frame
	Command      = domain.Command
	Mode         = domain.Mode
	Settings     = domain.Settings

	// Snapshot is a point-in-time view of a running session.
	Snapshot = app.Status

	// Logger is the structured logger used by a session.
	Logger = log.Logger
)

// Commands.
const (
	CommandNone   = domain.CommandNone
	CommandOkay   = domain.CommandOkay
	CommandOtra   = domain.CommandOtra
	CommandLento  = domain.CommandLento
	CommandRapido = domain.CommandRapido
	CommandMenu   = domain.CommandMenu
	CommandSalir  = domain.CommandSalir
)

// Modes.
const (
	ModeIdle      = domain.ModeIdle
	ModeRecording = domain.ModeRecording
	ModeReplaying = domain.ModeReplaying
)

// ErrNoData is returned by sources that have nothing new right now.
var ErrNoData = ports.ErrNoData

// Errors returned by Session methods.
var (
	ErrAlreadyRunning    = domain.ErrAlreadyRunning
	ErrNotRunning        = domain.ErrNotRunning
	ErrShutdownTimeout   = domain.ErrShutdownTimeout
	ErrInvalidConfig     = domain.ErrInvalidConfig
	ErrDeviceUnavailable = domain.ErrDeviceUnavailable
)

// ParseCommand classifies a recognized utterance.
func ParseCommand(utterance string) Command {
	return domain.ParseCommand(utterance)
}

// State is the lifecycle state of a Session.
type State = app.State

// Lifecycle states.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateCrashed  = app.StateCrashed
)

// StateChangeEvent describes one lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// EventHandler receives session events. Calls are synchronous; return
// quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
}

// BaseEventHandler implements EventHandler with no-ops, for embedding.
type BaseEventHandler struct{}

// OnStateChange implements EventHandler.
func (BaseEventHandler) OnStateChange(StateChangeEvent) {}

// eventEmitter adapts an EventHandler to the lifecycle.
type eventEmitter struct {
	handler EventHandler
}

func (e eventEmitter) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: previous,
		Current:  current,
		Reason:   reason,
	})
}
