package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"citaspa/internal/domain"
	"citaspa/internal/store"
)

type BlockedSlotRepo struct {
	db *bun.DB
}

func NewBlockedSlotRepo(db *bun.DB) *BlockedSlotRepo {
	return &BlockedSlotRepo{db: db}
}

func (r *BlockedSlotRepo) Create(ctx context.Context, slot domain.BlockedSlot) (domain.BlockedSlot, error) {
	m := slot
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.BlockedSlot{}, err
	}
	return m, nil
}

func (r *BlockedSlotRepo) Update(ctx context.Context, slot domain.BlockedSlot) (domain.BlockedSlot, error) {
	m := slot
	res, err := r.db.NewUpdate().
		Model(&m).
		WherePK().
		ExcludeColumn("id", "created_at").
		Exec(ctx)
	if err != nil {
		return domain.BlockedSlot{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.BlockedSlot{}, err
	}
	if affected == 0 {
		return domain.BlockedSlot{}, store.ErrNotFound
	}
	return m, nil
}

func (r *BlockedSlotRepo) Get(ctx context.Context, slotID uuid.UUID) (domain.BlockedSlot, error) {
	var slot domain.BlockedSlot
	err := r.db.NewSelect().
		Model(&slot).
		Where("id = ?", slotID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BlockedSlot{}, store.ErrNotFound
		}
		return domain.BlockedSlot{}, err
	}
	return slot, nil
}

func (r *BlockedSlotRepo) List(ctx context.Context) ([]domain.BlockedSlot, error) {
	var rows []domain.BlockedSlot
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("date ASC, start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BlockedSlotRepo) Delete(ctx context.Context, slotID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.BlockedSlot)(nil)).
		Where("id = ?", slotID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
