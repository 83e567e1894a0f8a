package domain

import "time"

// Frame is a single captured video frame.
// Frames are shared by pointer between the capture pipeline, the recorder
// and the replayer; nothing may modify a Frame after it has been produced.
type Frame struct {
	// Seq is the source-assigned sequence number, monotonically increasing.
	Seq uint64

	// Timestamp is the capture time taken from a monotonic clock reading.
	Timestamp time.Time

	// Width of the frame in pixels
	Width int

	// Height of the frame in pixels
	Height int

	// Data holds the encoded image bytes (typically JPEG).
	Data []byte
}

// CapturedAt returns the capture timestamp, falling back to the given
// arrival time for sources that do not stamp their frames.
func (f *Frame) CapturedAt(arrival time.Time) time.Time {
	if f.Timestamp.IsZero() {
		return arrival
	}
	return f.Timestamp
}
