package store

import (
	"context"

	"github.com/google/uuid"

	"citaspa/internal/domain"
)

type BlockedSlotRepository interface {
	Create(ctx context.Context, slot domain.BlockedSlot) (domain.BlockedSlot, error)
	Update(ctx context.Context, slot domain.BlockedSlot) (domain.BlockedSlot, error)
	Get(ctx context.Context, slotID uuid.UUID) (domain.BlockedSlot, error)
	List(ctx context.Context) ([]domain.BlockedSlot, error)
	Delete(ctx context.Context, slotID uuid.UUID) error
}
