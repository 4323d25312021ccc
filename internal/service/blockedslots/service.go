package blockedslots

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
	repo store.BlockedSlotRepository
}

func NewService(repo store.BlockedSlotRepository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Date      time.Time
	StartTime string
	EndTime   string
	Reason    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.BlockedSlot, error) {
	if in.Date.IsZero() {
		return domain.BlockedSlot{}, validationError("date is required")
	}

	startTime, endTime, err := validateWindow(in.StartTime, in.EndTime)
	if err != nil {
		return domain.BlockedSlot{}, err
	}

	slot := domain.BlockedSlot{
		Date:      in.Date.UTC(),
		StartTime: startTime,
		EndTime:   endTime,
		Reason:    strings.TrimSpace(in.Reason),
	}

	return s.repo.Create(ctx, slot)
}

type UpdateInput struct {
	Date      *time.Time
	StartTime *string
	EndTime   *string
	Reason    *string
}

func (s *Service) Update(ctx context.Context, slotID uuid.UUID, in UpdateInput) (domain.BlockedSlot, error) {
	if slotID == uuid.Nil {
		return domain.BlockedSlot{}, validationError("slot_id is required")
	}

	slot, err := s.repo.Get(ctx, slotID)
	if err != nil {
		return domain.BlockedSlot{}, err
	}

	if in.Date != nil {
		if in.Date.IsZero() {
			return domain.BlockedSlot{}, validationError("date is required")
		}
		slot.Date = in.Date.UTC()
	}
	if in.StartTime != nil {
		slot.StartTime = strings.TrimSpace(*in.StartTime)
	}
	if in.EndTime != nil {
		slot.EndTime = strings.TrimSpace(*in.EndTime)
	}
	if _, _, err := validateWindow(slot.StartTime, slot.EndTime); err != nil {
		return domain.BlockedSlot{}, err
	}
	if in.Reason != nil {
		slot.Reason = strings.TrimSpace(*in.Reason)
	}

	return s.repo.Update(ctx, slot)
}

func (s *Service) List(ctx context.Context) ([]domain.BlockedSlot, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, slotID uuid.UUID) error {
	if slotID == uuid.Nil {
		return validationError("slot_id is required")
	}
	return s.repo.Delete(ctx, slotID)
}

// validateWindow checks the HH:mm pair and returns the trimmed values.
func validateWindow(startTime, endTime string) (string, string, error) {
	start := strings.TrimSpace(startTime)
	end := strings.TrimSpace(endTime)
	if start == "" {
		return "", "", validationError("start_time is required")
	}
	if end == "" {
		return "", "", validationError("end_time is required")
	}

	startMin, err := domain.ParseClock(start)
	if err != nil {
		return "", "", validationError("start_time must be HH:mm")
	}
	endMin, err := domain.ParseClock(end)
	if err != nil {
		return "", "", validationError("end_time must be HH:mm")
	}
	if endMin <= startMin {
		return "", "", validationError("end_time must be after start_time")
	}

	return start, end, nil
}
