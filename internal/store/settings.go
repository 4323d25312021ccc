package store

import (
	"context"

	"citaspa/internal/domain"
)

// SettingsRepository manages the singleton business-settings record.
// Get materializes the default record on first read; the row is never
// deleted.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, settings domain.Settings) (domain.Settings, error)
}
