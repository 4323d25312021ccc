package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"citaspa/internal/domain"
)

// AgendaTx is the set of queries the scheduling validation pipeline issues
// inside one transaction. The spa runs a single shared appointment timeline,
// so the implementation serializes writers on that timeline before the
// pipeline reads.
type AgendaTx interface {
	GetSettings(ctx context.Context) (domain.Settings, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	ListActiveInRange(ctx context.Context, rangeStart, rangeEnd time.Time, excludeID uuid.UUID) ([]domain.Appointment, error)
	ListBlockedSlotsOnDate(ctx context.Context, localDate string) ([]domain.BlockedSlot, error)
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
