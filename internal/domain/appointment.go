package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// DefaultDurationMinutes is applied when a create request omits the duration.
const DefaultDurationMinutes = 60

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID              uuid.UUID         `bun:"id,pk,type:uuid"`
	ClientID        uuid.UUID         `bun:"client_id,notnull,type:uuid"`
	WorkerID        uuid.UUID         `bun:"worker_id,notnull,type:uuid"`
	ServiceID       uuid.UUID         `bun:"service_id,notnull,type:uuid"`
	Date            time.Time         `bun:"date,notnull"`
	DurationMinutes int               `bun:"duration_minutes,notnull"`
	Status          AppointmentStatus `bun:"status,notnull"`
	Notes           string            `bun:"notes"`
	Cost            float64           `bun:"cost"`
	CreatedAt       time.Time         `bun:"created_at,notnull"`
	UpdatedAt       time.Time         `bun:"updated_at,notnull"`
}

// End returns the instant the appointment finishes.
func (a *Appointment) End() time.Time {
	return a.Date.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsCancelled reports whether the appointment is ignored by conflict checks.
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
