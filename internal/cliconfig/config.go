package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/swingcam/internal/domain"
)

// Frame source kinds.
const (
	FrameSourcePattern = "pattern"
	FrameSourceDir     = "dir"
)

// Command source kinds.
const (
	CommandSourceStdin      = "stdin"
	CommandSourceTranscript = "transcript"
)

// Config holds CLI configuration for swingcam.
type Config struct {
	FrameSource string
	FrameDir    string
	FrameRate   float64
	Width       int
	Height      int
	Rotation    int

	CommandSource  string
	TranscriptPath string

	RecordDuration time.Duration
	MinSpeed       float64
	MaxSpeed       float64
	SpeedStep      float64
	DefaultSpeed   float64

	SettingsDir           string
	PollInterval          time.Duration
	QueueSize             int
	PreviewWhileRecording bool
	Chime                 bool
	LogLevel              string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	speed := domain.DefaultSpeedPolicy()
	return Config{
		FrameSource:           FrameSourcePattern,
		FrameRate:             domain.DefaultFrameRate,
		Width:                 640,
		Height:                480,
		CommandSource:         CommandSourceStdin,
		RecordDuration:        4 * time.Second,
		MinSpeed:              speed.Min,
		MaxSpeed:              speed.Max,
		SpeedStep:             speed.Step,
		DefaultSpeed:          speed.Default,
		SettingsDir:           "", // Derived from $HOME during Validate
		PollInterval:          10 * time.Millisecond,
		QueueSize:             64,
		PreviewWhileRecording: true,
		Chime:                 true,
		LogLevel:              "info",
	}
}

// SpeedPolicy returns the configured replay speed bounds.
func (c *Config) SpeedPolicy() domain.SpeedPolicy {
	return domain.SpeedPolicy{
		Min:     c.MinSpeed,
		Max:     c.MaxSpeed,
		Step:    c.SpeedStep,
		Default: c.DefaultSpeed,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
// Every error wraps domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	switch c.FrameSource {
	case FrameSourcePattern:
	case FrameSourceDir:
		if c.FrameDir == "" {
			return invalid("frame-dir is required for the dir frame source")
		}
	default:
		return invalid("unknown frame source %q", c.FrameSource)
	}

	switch c.CommandSource {
	case CommandSourceStdin:
	case CommandSourceTranscript:
		if c.TranscriptPath == "" {
			return invalid("transcript is required for the transcript command source")
		}
	default:
		return invalid("unknown command source %q", c.CommandSource)
	}

	if c.FrameRate < 0 {
		return invalid("fps must not be negative")
	}
	if c.Width < 0 || c.Height < 0 {
		return invalid("frame size must not be negative")
	}
	switch c.Rotation {
	case 0, 90, 180, 270:
	default:
		return invalid("rotation must be 0, 90, 180 or 270")
	}

	if c.RecordDuration <= 0 {
		return invalid("duration must be positive")
	}
	if err := c.SpeedPolicy().Validate(); err != nil {
		return err
	}

	if c.PollInterval <= 0 {
		return invalid("poll interval must be positive")
	}
	if c.QueueSize <= 0 {
		return invalid("queue size must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return invalid("unknown log level %q", c.LogLevel)
	}

	if c.SettingsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return invalid("settings-dir is required when $HOME is unknown")
		}
		c.SettingsDir = filepath.Join(home, ".swingcam")
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Unlike setInt, zero is accepted: rotation 0 is meaningful.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if valid.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
