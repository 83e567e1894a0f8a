package domain

import "errors"

// Domain errors represent error conditions in the swingcam domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("swingcam: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("swingcam: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("swingcam: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("swingcam: invalid configuration")

	// ErrDeviceUnavailable is returned when the camera or the command
	// source cannot be opened at startup.
	ErrDeviceUnavailable = errors.New("swingcam: device unavailable")

	// ErrNoClip is returned when a replay is requested before any clip exists.
	ErrNoClip = errors.New("swingcam: no clip recorded")
)
