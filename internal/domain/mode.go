package domain

// Mode is the orchestrator's current top-level activity.
// Exactly one mode is active at any instant and it decides which component
// owns the frame pipeline.
type Mode int32

const (
	// ModeIdle forwards live camera frames to the presentation sink.
	ModeIdle Mode = iota
	// ModeRecording routes camera frames into the active recording session.
	ModeRecording
	// ModeReplaying presents frames produced by the replayer.
	ModeReplaying

	// NumModes is the number of modes.
	NumModes
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeRecording:
		return "Recording"
	case ModeReplaying:
		return "Replaying"
	default:
		return "Unknown"
	}
}
