package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"citaspa/internal/domain"
)

type SettingsRepo struct {
	db *bun.DB
}

func NewSettingsRepo(db *bun.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the singleton settings row, creating it with defaults on first
// read.
func (r *SettingsRepo) Get(ctx context.Context) (domain.Settings, error) {
	settings, err := r.findFirst(ctx, r.db)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, err
	}

	m := domain.DefaultSettings()
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Settings{}, err
	}
	return m, nil
}

func (r *SettingsRepo) Update(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	var out domain.Settings
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := r.findFirst(ctx, tx)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			m := settings
			if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
				return err
			}
			out = m
			return nil
		}

		m := settings
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		if _, err := tx.NewUpdate().Model(&m).WherePK().ExcludeColumn("id", "created_at").Exec(ctx); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return out, nil
}

func (r *SettingsRepo) findFirst(ctx context.Context, db bun.IDB) (domain.Settings, error) {
	var settings domain.Settings
	err := db.NewSelect().
		Model(&settings).
		OrderExpr("created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}
