package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"citaspa/internal/domain"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	Delete(ctx context.Context, appointmentID uuid.UUID) error
}
