package swingcam

import (
	"fmt"
	"time"

	"github.com/bft-labs/swingcam/internal/app"
	"github.com/bft-labs/swingcam/internal/domain"
)

// Config holds the session configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// RecordDuration is the length of every clip.
	RecordDuration time.Duration

	// Replay speed bounds. DefaultSpeed applies until the user picks
	// another speed; the pick is saved and restored on the next start.
	MinSpeed     float64
	MaxSpeed     float64
	SpeedStep    float64
	DefaultSpeed float64

	// PreviewWhileRecording keeps the live feed on screen while recording.
	PreviewWhileRecording bool

	// QueueSize is the capacity of the frame and command queue.
	QueueSize int

	// PollInterval is the initial retry delay when a source has no data.
	PollInterval time.Duration

	// SettingsDir holds settings.json. Required unless a
	// SettingsRepository is supplied.
	SettingsDir string

	// FrameRate, Width, Height and Rotation configure the default test
	// pattern camera. Ignored when a FrameSource is supplied.
	FrameRate float64
	Width     int
	Height    int
	Rotation  int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	speed := domain.DefaultSpeedPolicy()
	return Config{
		RecordDuration:        app.DefaultRecordDuration,
		MinSpeed:              speed.Min,
		MaxSpeed:              speed.Max,
		SpeedStep:             speed.Step,
		DefaultSpeed:          speed.Default,
		PreviewWhileRecording: true,
		QueueSize:             app.DefaultQueueSize,
		PollInterval:          app.DefaultPollInitial,
		FrameRate:             domain.DefaultFrameRate,
	}
}

// SetDefaults fills zero fields with default values.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.RecordDuration == 0 {
		c.RecordDuration = d.RecordDuration
	}
	if c.MinSpeed == 0 && c.MaxSpeed == 0 && c.SpeedStep == 0 && c.DefaultSpeed == 0 {
		c.MinSpeed, c.MaxSpeed, c.SpeedStep, c.DefaultSpeed = d.MinSpeed, d.MaxSpeed, d.SpeedStep, d.DefaultSpeed
	}
	if c.QueueSize == 0 {
		c.QueueSize = d.QueueSize
	}
	if c.PollInterval == 0 {
		c.PollInterval = d.PollInterval
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.RecordDuration <= 0 {
		return fmt.Errorf("%w: record duration must be positive", ErrInvalidConfig)
	}
	if err := c.speedPolicy().Validate(); err != nil {
		return err
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue size must be positive", ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) speedPolicy() domain.SpeedPolicy {
	return domain.SpeedPolicy{
		Min:     c.MinSpeed,
		Max:     c.MaxSpeed,
		Step:    c.SpeedStep,
		Default: c.DefaultSpeed,
	}
}

func (c *Config) orchestratorConfig() app.Config {
	return app.Config{
		RecordDuration:        c.RecordDuration,
		Speed:                 c.speedPolicy(),
		QueueSize:             c.QueueSize,
		PollInterval:          c.PollInterval,
		PreviewWhileRecording: c.PreviewWhileRecording,
	}
}
