package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"SWINGCAM_FRAME_SOURCE":            "dir",
				"SWINGCAM_FRAME_DIR":               "/env/spool",
				"SWINGCAM_FRAME_RATE":              "25",
				"SWINGCAM_WIDTH":                   "800",
				"SWINGCAM_HEIGHT":                  "600",
				"SWINGCAM_ROTATION":                "180",
				"SWINGCAM_COMMAND_SOURCE":          "transcript",
				"SWINGCAM_TRANSCRIPT_PATH":         "/env/heard.txt",
				"SWINGCAM_RECORD_DURATION":         "6s",
				"SWINGCAM_MIN_SPEED":               "0.5",
				"SWINGCAM_MAX_SPEED":               "3",
				"SWINGCAM_SPEED_STEP":              "0.5",
				"SWINGCAM_DEFAULT_SPEED":           "1.5",
				"SWINGCAM_SETTINGS_DIR":            "/env/settings",
				"SWINGCAM_POLL_INTERVAL":           "5ms",
				"SWINGCAM_QUEUE_SIZE":              "8",
				"SWINGCAM_PREVIEW_WHILE_RECORDING": "0",
				"SWINGCAM_CHIME":                   "1",
				"SWINGCAM_LOG_LEVEL":               "warn",
			},
			changed: map[string]bool{},
			initial: Config{PreviewWhileRecording: true},
			expected: Config{
				FrameSource:           "dir",
				FrameDir:              "/env/spool",
				FrameRate:             25,
				Width:                 800,
				Height:                600,
				Rotation:              180,
				CommandSource:         "transcript",
				TranscriptPath:        "/env/heard.txt",
				RecordDuration:        6 * time.Second,
				MinSpeed:              0.5,
				MaxSpeed:              3,
				SpeedStep:             0.5,
				DefaultSpeed:          1.5,
				SettingsDir:           "/env/settings",
				PollInterval:          5 * time.Millisecond,
				QueueSize:             8,
				PreviewWhileRecording: false,
				Chime:                 true,
				LogLevel:              "warn",
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"SWINGCAM_FRAME_DIR":       "/env/spool",
				"SWINGCAM_RECORD_DURATION": "6s",
			},
			changed:  map[string]bool{"frame-dir": true},
			initial:  Config{FrameDir: "/flag/spool"},
			expected: Config{FrameDir: "/flag/spool", RecordDuration: 6 * time.Second},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"SWINGCAM_RECORD_DURATION": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"SWINGCAM_QUEUE_SIZE": "lots"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid float",
			envVars: map[string]string{"SWINGCAM_DEFAULT_SPEED": "fast"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"SWINGCAM_CHIME": "false"},
			changed:  map[string]bool{},
			initial:  Config{Chime: true},
			expected: Config{Chime: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v\nwant     %+v", cfg, tt.expected)
			}
		})
	}
}

// Precedence: flags > env > file > defaults.
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		FrameDir:       "/file/spool",
		TranscriptPath: "/file/heard.txt",
		RecordDuration: "2s",
		Chime:          &trueVal,
	}

	t.Setenv("SWINGCAM_FRAME_DIR", "/env/spool")
	t.Setenv("SWINGCAM_TRANSCRIPT_PATH", "/env/heard.txt")
	t.Setenv("SWINGCAM_QUEUE_SIZE", "16")

	changed := map[string]bool{"frame-dir": true}
	cfg := DefaultConfig()
	cfg.FrameDir = "/cli/spool"
	cfg.Chime = false

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.FrameDir != "/cli/spool" {
		t.Errorf("FrameDir = %v, want /cli/spool (flag wins)", cfg.FrameDir)
	}
	if cfg.TranscriptPath != "/env/heard.txt" {
		t.Errorf("TranscriptPath = %v, want /env/heard.txt (env over file)", cfg.TranscriptPath)
	}
	if cfg.RecordDuration != 2*time.Second {
		t.Errorf("RecordDuration = %v, want 2s (file over default)", cfg.RecordDuration)
	}
	if cfg.QueueSize != 16 {
		t.Errorf("QueueSize = %v, want 16", cfg.QueueSize)
	}
	if !cfg.Chime {
		t.Error("Chime = false, want true from file")
	}
	if cfg.Width != 640 {
		t.Errorf("Width = %v, want default 640", cfg.Width)
	}
}
