package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultBlockReason is shown when an administrator blocked a window
// without giving a reason.
const DefaultBlockReason = "Bloqueado"

// BlockedSlot is an administrator-defined exclusion window on a specific
// calendar day. Only the day component of Date is meaningful; the window
// itself is given by the StartTime/EndTime wall-clock strings.
type BlockedSlot struct {
	bun.BaseModel `bun:"table:blocked_slots"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Date      time.Time `bun:"date,notnull"`
	StartTime string    `bun:"start_time,notnull"`
	EndTime   string    `bun:"end_time,notnull"`
	Reason    string    `bun:"reason"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// DisplayReason returns the reason, falling back to DefaultBlockReason.
func (s *BlockedSlot) DisplayReason() string {
	if s.Reason == "" {
		return DefaultBlockReason
	}
	return s.Reason
}

func (s *BlockedSlot) BeforeAppendModel(ctx context.Context, query bun.Query) error {
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
