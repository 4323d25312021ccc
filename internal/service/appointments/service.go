package appointments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

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
	repo store.AppointmentRepository
}

func NewService(repo store.AppointmentRepository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	ClientID        uuid.UUID
	WorkerID        uuid.UUID
	ServiceID       uuid.UUID
	Date            time.Time
	DurationMinutes int
	Status          domain.AppointmentStatus
	Notes           string
	Cost            float64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	if in.ClientID == uuid.Nil {
		return domain.Appointment{}, validationError("client_id is required")
	}
	if in.WorkerID == uuid.Nil {
		return domain.Appointment{}, validationError("worker_id is required")
	}
	if in.ServiceID == uuid.Nil {
		return domain.Appointment{}, validationError("service_id is required")
	}
	if in.Date.IsZero() {
		return domain.Appointment{}, validationError("date is required")
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultDurationMinutes
	}
	if duration < 1 {
		return domain.Appointment{}, validationError("duration_minutes must be at least 1")
	}
	if duration > 24*60 {
		return domain.Appointment{}, validationError("duration too long")
	}

	status := in.Status
	if status == "" {
		status = domain.AppointmentStatusPending
	}
	if !status.Valid() {
		return domain.Appointment{}, validationError("invalid status")
	}

	if in.Cost < 0 {
		return domain.Appointment{}, validationError("cost must not be negative")
	}

	appt := domain.Appointment{
		ClientID:        in.ClientID,
		WorkerID:        in.WorkerID,
		ServiceID:       in.ServiceID,
		Date:            in.Date.UTC(),
		DurationMinutes: duration,
		Status:          status,
		Notes:           strings.TrimSpace(in.Notes),
		Cost:            in.Cost,
	}

	return s.repo.Create(ctx, appt)
}

// UpdateInput carries a partial update; nil fields keep the stored value.
type UpdateInput struct {
	ClientID        *uuid.UUID
	WorkerID        *uuid.UUID
	ServiceID       *uuid.UUID
	Date            *time.Time
	DurationMinutes *int
	Status          *domain.AppointmentStatus
	Notes           *string
	Cost            *float64
}

func (s *Service) Update(ctx context.Context, appointmentID uuid.UUID, in UpdateInput) (domain.Appointment, error) {
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}

	appt, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return domain.Appointment{}, err
	}

	if in.ClientID != nil {
		if *in.ClientID == uuid.Nil {
			return domain.Appointment{}, validationError("client_id is required")
		}
		appt.ClientID = *in.ClientID
	}
	if in.WorkerID != nil {
		if *in.WorkerID == uuid.Nil {
			return domain.Appointment{}, validationError("worker_id is required")
		}
		appt.WorkerID = *in.WorkerID
	}
	if in.ServiceID != nil {
		if *in.ServiceID == uuid.Nil {
			return domain.Appointment{}, validationError("service_id is required")
		}
		appt.ServiceID = *in.ServiceID
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return domain.Appointment{}, validationError("date is required")
		}
		appt.Date = in.Date.UTC()
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes < 1 {
			return domain.Appointment{}, validationError("duration_minutes must be at least 1")
		}
		if *in.DurationMinutes > 24*60 {
			return domain.Appointment{}, validationError("duration too long")
		}
		appt.DurationMinutes = *in.DurationMinutes
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return domain.Appointment{}, validationError("invalid status")
		}
		appt.Status = *in.Status
	}
	if in.Notes != nil {
		appt.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Cost != nil {
		if *in.Cost < 0 {
			return domain.Appointment{}, validationError("cost must not be negative")
		}
		appt.Cost = *in.Cost
	}

	return s.repo.Update(ctx, appt)
}

func (s *Service) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id is required")
	}
	return s.repo.Get(ctx, appointmentID)
}

func (s *Service) List(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	start := windowStart.UTC()
	end := windowEnd.UTC()
	if end.Equal(start) || end.Before(start) {
		return nil, validationError("window_end must be after window_start")
	}
	return s.repo.List(ctx, start, end)
}

func (s *Service) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	if appointmentID == uuid.Nil {
		return validationError("appointment_id is required")
	}
	return s.repo.Delete(ctx, appointmentID)
}
