package domain

import "time"

// Settings holds the user preferences that survive restarts.
type Settings struct {
	// Speed is the last chosen replay speed multiplier.
	Speed float64 `json:"speed"`

	// UpdatedAt is the time of the last save.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty returns true if the settings have never been saved.
func (s Settings) IsEmpty() bool {
	return s.Speed == 0
}
