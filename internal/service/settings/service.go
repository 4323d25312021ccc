package settings

import (
	"context"
	"strings"

	"citaspa/internal/domain"
	"citaspa/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	repo store.SettingsRepository
}

func NewService(repo store.SettingsRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	return s.repo.Get(ctx)
}

// UpdateInput carries a partial update; nil fields keep the stored value.
type UpdateInput struct {
	PrimaryColor    *string
	BackgroundColor *string
	SidebarColor    *string
	ThemeMode       *string
	LogoURL         *string

	OpenTime                 *string
	CloseTime                *string
	AppointmentBufferMinutes *int

	BackupEnabled   *bool
	BackupFrequency *string
	BackupTime      *string
	BackupEmail     *string
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	if in.PrimaryColor != nil {
		settings.PrimaryColor = strings.TrimSpace(*in.PrimaryColor)
	}
	if in.BackgroundColor != nil {
		settings.BackgroundColor = strings.TrimSpace(*in.BackgroundColor)
	}
	if in.SidebarColor != nil {
		settings.SidebarColor = strings.TrimSpace(*in.SidebarColor)
	}
	if in.ThemeMode != nil {
		mode := strings.TrimSpace(*in.ThemeMode)
		if mode != "light" && mode != "dark" {
			return domain.Settings{}, validationError("theme_mode must be light or dark")
		}
		settings.ThemeMode = mode
	}
	if in.LogoURL != nil {
		settings.LogoURL = strings.TrimSpace(*in.LogoURL)
	}

	if in.OpenTime != nil {
		settings.OpenTime = strings.TrimSpace(*in.OpenTime)
	}
	if in.CloseTime != nil {
		settings.CloseTime = strings.TrimSpace(*in.CloseTime)
	}
	openMin, err := domain.ParseClock(settings.OpenTime)
	if err != nil {
		return domain.Settings{}, validationError("open_time must be HH:mm")
	}
	closeMin, err := domain.ParseClock(settings.CloseTime)
	if err != nil {
		return domain.Settings{}, validationError("close_time must be HH:mm")
	}
	// Equal open and close is allowed: a zero-minute day means closed.
	if closeMin < openMin {
		return domain.Settings{}, validationError("close_time must not be before open_time")
	}

	if in.AppointmentBufferMinutes != nil {
		if *in.AppointmentBufferMinutes < 0 {
			return domain.Settings{}, validationError("appointment_buffer_minutes must not be negative")
		}
		settings.AppointmentBufferMinutes = *in.AppointmentBufferMinutes
	}

	if in.BackupEnabled != nil {
		settings.BackupEnabled = *in.BackupEnabled
	}
	if in.BackupFrequency != nil {
		settings.BackupFrequency = strings.TrimSpace(*in.BackupFrequency)
	}
	if in.BackupTime != nil {
		bt := strings.TrimSpace(*in.BackupTime)
		if bt != "" {
			if _, err := domain.ParseClock(bt); err != nil {
				return domain.Settings{}, validationError("backup_time must be HH:mm")
			}
		}
		settings.BackupTime = bt
	}
	if in.BackupEmail != nil {
		settings.BackupEmail = strings.TrimSpace(*in.BackupEmail)
	}

	return s.repo.Update(ctx, settings)
}
