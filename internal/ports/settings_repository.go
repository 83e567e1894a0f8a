package ports

import (
	"context"

	"github.com/bft-labs/swingcam/internal/domain"
)

// SettingsRepository persists user settings across restarts.
type SettingsRepository interface {
	// Load retrieves the last saved settings.
	// Returns empty settings and nil error if nothing was saved yet.
	// Returns an error for unreadable or corrupt data; callers fall back
	// to defaults.
	Load(ctx context.Context) (domain.Settings, error)

	// Save persists settings atomically.
	Save(ctx context.Context, s domain.Settings) error
}
