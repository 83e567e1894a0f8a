package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (SWINGCAM_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("frame-source", os.Getenv("SWINGCAM_FRAME_SOURCE"), &cfg.FrameSource)
	s.setString("frame-dir", os.Getenv("SWINGCAM_FRAME_DIR"), &cfg.FrameDir)
	s.setString("command-source", os.Getenv("SWINGCAM_COMMAND_SOURCE"), &cfg.CommandSource)
	s.setString("transcript", os.Getenv("SWINGCAM_TRANSCRIPT_PATH"), &cfg.TranscriptPath)
	s.setString("settings-dir", os.Getenv("SWINGCAM_SETTINGS_DIR"), &cfg.SettingsDir)
	s.setString("log-level", os.Getenv("SWINGCAM_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("duration", os.Getenv("SWINGCAM_RECORD_DURATION"), &cfg.RecordDuration); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("SWINGCAM_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}

	floats := []struct {
		flag, env string
		dst       *float64
	}{
		{"fps", "SWINGCAM_FRAME_RATE", &cfg.FrameRate},
		{"min-speed", "SWINGCAM_MIN_SPEED", &cfg.MinSpeed},
		{"max-speed", "SWINGCAM_MAX_SPEED", &cfg.MaxSpeed},
		{"speed-step", "SWINGCAM_SPEED_STEP", &cfg.SpeedStep},
		{"default-speed", "SWINGCAM_DEFAULT_SPEED", &cfg.DefaultSpeed},
	}
	for _, f := range floats {
		if err := s.setFloatFromString(f.flag, os.Getenv(f.env), f.dst); err != nil {
			return err
		}
	}

	ints := []struct {
		flag, env string
		dst       *int
	}{
		{"width", "SWINGCAM_WIDTH", &cfg.Width},
		{"height", "SWINGCAM_HEIGHT", &cfg.Height},
		{"rotation", "SWINGCAM_ROTATION", &cfg.Rotation},
		{"queue-size", "SWINGCAM_QUEUE_SIZE", &cfg.QueueSize},
	}
	for _, i := range ints {
		if err := s.setIntFromString(i.flag, os.Getenv(i.env), i.dst); err != nil {
			return err
		}
	}

	s.setBoolFromString("preview", os.Getenv("SWINGCAM_PREVIEW_WHILE_RECORDING"), &cfg.PreviewWhileRecording)
	s.setBoolFromString("chime", os.Getenv("SWINGCAM_CHIME"), &cfg.Chime)

	return nil
}
