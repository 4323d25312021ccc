package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Scheduling defaults used when the settings row does not exist yet.
const (
	DefaultOpenTime      = "09:00"
	DefaultCloseTime     = "21:00"
	DefaultBufferMinutes = 10
)

// Settings is the single business-wide configuration record. The scheduling
// engine only reads OpenTime, CloseTime and AppointmentBufferMinutes; the
// remaining fields belong to the admin dashboard and the backup scheduler.
type Settings struct {
	bun.BaseModel `bun:"table:settings"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	PrimaryColor    string    `bun:"primary_color"`
	BackgroundColor string    `bun:"background_color"`
	SidebarColor    string    `bun:"sidebar_color"`
	ThemeMode       string    `bun:"theme_mode"`
	LogoURL         string    `bun:"logo_url"`

	OpenTime                 string `bun:"open_time,notnull"`
	CloseTime                string `bun:"close_time,notnull"`
	AppointmentBufferMinutes int    `bun:"appointment_buffer_minutes,notnull"`

	BackupEnabled   bool   `bun:"backup_enabled"`
	BackupFrequency string `bun:"backup_frequency"`
	BackupTime      string `bun:"backup_time"`
	BackupEmail     string `bun:"backup_email"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// DefaultSettings returns the record materialized on first read when no
// settings row exists.
func DefaultSettings() Settings {
	return Settings{
		PrimaryColor:             "#8B7355",
		BackgroundColor:          "#F5F1E8",
		SidebarColor:             "#2C3E50",
		ThemeMode:                "light",
		OpenTime:                 DefaultOpenTime,
		CloseTime:                DefaultCloseTime,
		AppointmentBufferMinutes: DefaultBufferMinutes,
	}
}

// Buffer returns the configured inter-appointment buffer as a duration.
func (s *Settings) Buffer() time.Duration {
	return time.Duration(s.AppointmentBufferMinutes) * time.Minute
}

func (s *Settings) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}
