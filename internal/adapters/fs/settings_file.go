package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/swingcam/internal/domain"
)

const settingsFileName = "settings.json"

// SettingsFile implements ports.SettingsRepository as a JSON file.
type SettingsFile struct {
	dir string
}

// NewSettingsFile creates a SettingsFile stored in dir.
func NewSettingsFile(dir string) *SettingsFile {
	return &SettingsFile{dir: dir}
}

// Load reads the saved settings.
// A missing file yields empty settings and a nil error.
func (r *SettingsFile) Load(ctx context.Context) (domain.Settings, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, err
	}

	var s domain.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Settings{}, fmt.Errorf("parse %s: %w", r.Path(), err)
	}
	return s, nil
}

// Save writes the settings through a temp file and rename, so a crash
// mid-write never leaves a truncated file behind.
func (r *SettingsFile) Save(ctx context.Context, s domain.Settings) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the full path to the settings file.
func (r *SettingsFile) Path() string {
	return filepath.Join(r.dir, settingsFileName)
}
