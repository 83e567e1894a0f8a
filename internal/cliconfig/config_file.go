package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	FrameSource           string  `toml:"frame_source"`
	FrameDir              string  `toml:"frame_dir"`
	FrameRate             float64 `toml:"frame_rate"`
	Width                 int     `toml:"width"`
	Height                int     `toml:"height"`
	Rotation              *int    `toml:"rotation"`
	CommandSource         string  `toml:"command_source"`
	TranscriptPath        string  `toml:"transcript_path"`
	RecordDuration        string  `toml:"record_duration"`
	MinSpeed              float64 `toml:"min_speed"`
	MaxSpeed              float64 `toml:"max_speed"`
	SpeedStep             float64 `toml:"speed_step"`
	DefaultSpeed          float64 `toml:"default_speed"`
	SettingsDir           string  `toml:"settings_dir"`
	PollInterval          string  `toml:"poll_interval"`
	QueueSize             int     `toml:"queue_size"`
	PreviewWhileRecording *bool   `toml:"preview_while_recording"`
	Chime                 *bool   `toml:"chime"`
	LogLevel              string  `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.swingcam/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".swingcam", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("frame-source", fc.FrameSource, &cfg.FrameSource)
	s.setString("frame-dir", fc.FrameDir, &cfg.FrameDir)
	s.setString("command-source", fc.CommandSource, &cfg.CommandSource)
	s.setString("transcript", fc.TranscriptPath, &cfg.TranscriptPath)
	s.setString("settings-dir", fc.SettingsDir, &cfg.SettingsDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("duration", fc.RecordDuration, &cfg.RecordDuration); err != nil {
		return err
	}
	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}

	s.setFloat("fps", fc.FrameRate, &cfg.FrameRate)
	s.setFloat("min-speed", fc.MinSpeed, &cfg.MinSpeed)
	s.setFloat("max-speed", fc.MaxSpeed, &cfg.MaxSpeed)
	s.setFloat("speed-step", fc.SpeedStep, &cfg.SpeedStep)
	s.setFloat("default-speed", fc.DefaultSpeed, &cfg.DefaultSpeed)

	s.setInt("width", fc.Width, &cfg.Width)
	s.setInt("height", fc.Height, &cfg.Height)
	s.setInt("queue-size", fc.QueueSize, &cfg.QueueSize)
	if fc.Rotation != nil && !changed["rotation"] {
		cfg.Rotation = *fc.Rotation
	}

	s.setBool("preview", fc.PreviewWhileRecording, &cfg.PreviewWhileRecording)
	s.setBool("chime", fc.Chime, &cfg.Chime)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
