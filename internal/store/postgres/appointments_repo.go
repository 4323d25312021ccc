package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"citaspa/internal/domain"
	"citaspa/internal/store"
)

type AppointmentRepo struct {
	db  *bun.DB
	loc *time.Location
}

// NewAppointmentRepo returns a repository whose scheduling checks interpret
// wall-clock configuration in loc, the business timezone.
func NewAppointmentRepo(db *bun.DB, loc *time.Location) *AppointmentRepo {
	return &AppointmentRepo{db: db, loc: loc}
}

type agendaTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.InAgendaTransaction(ctx, func(ctx context.Context, tx store.AgendaTx) error {
		if err := ensureSchedulable(ctx, tx, appt, uuid.Nil, r.loc); err != nil {
			return err
		}
		a, err := tx.InsertAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.InAgendaTransaction(ctx, func(ctx context.Context, tx store.AgendaTx) error {
		if err := schedulableForUpdate(ctx, tx, appt, r.loc); err != nil {
			return err
		}
		a, err := tx.UpdateAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepo) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *AppointmentRepo) List(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("date < ?", windowEnd).
		Where("date + make_interval(mins => duration_minutes) > ?", windowStart).
		OrderExpr("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, appointmentID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", appointmentID).
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

// InAgendaTransaction runs fn holding the advisory lock on the shared agenda
// timeline, so two concurrent writers cannot both pass the conflict checks.
func (r *AppointmentRepo) InAgendaTransaction(ctx context.Context, fn func(ctx context.Context, tx store.AgendaTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockAgenda(ctx, tx); err != nil {
			return err
		}
		return fn(ctx, agendaTx{tx: tx})
	})
}

func lockAgenda(ctx context.Context, tx bun.Tx) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "citaspa:agenda").Exec(ctx)
	return err
}

// schedulableForUpdate re-runs the validation pipeline only when the update
// moves or resizes the interval. Edits that keep date and duration (status
// flips, notes, cost) skip it: an appointment sitting under a later-created
// blocked window or outside narrowed hours must still be cancellable.
func schedulableForUpdate(ctx context.Context, tx store.AgendaTx, appt domain.Appointment, loc *time.Location) error {
	current, err := tx.GetAppointment(ctx, appt.ID)
	if err != nil {
		return err
	}
	if appt.Date.Equal(current.Date) && appt.DurationMinutes == current.DurationMinutes {
		return nil
	}
	return ensureSchedulable(ctx, tx, appt, appt.ID, loc)
}

// ensureSchedulable is the validation pipeline for appointment writes:
// normalize to the business timezone, check operating hours, check buffered
// overlaps against active appointments, then check blocked windows. The first
// failing step decides the write.
func ensureSchedulable(ctx context.Context, tx store.AgendaTx, appt domain.Appointment, excludeID uuid.UUID, loc *time.Location) error {
	settings, err := tx.GetSettings(ctx)
	if err != nil {
		return err
	}

	span := domain.NormalizeSpan(appt.Date, appt.DurationMinutes, loc)
	if err := domain.CheckBusinessHours(span, settings.OpenTime, settings.CloseTime); err != nil {
		return err
	}

	buffer := settings.Buffer()
	checkStart := appt.Date.Add(-buffer)
	checkEnd := appt.End().Add(buffer)

	// The scan window is widened well past the buffered interval so that a
	// multi-hour appointment starting before the window is still fetched.
	candidates, err := tx.ListActiveInRange(ctx,
		checkStart.Add(-domain.ConflictScanPadding),
		checkEnd.Add(domain.ConflictScanPadding),
		excludeID,
	)
	if err != nil {
		return err
	}
	if err := domain.FirstConflict(appt.Date, appt.End(), candidates, buffer); err != nil {
		return err
	}

	slots, err := tx.ListBlockedSlotsOnDate(ctx, span.StartDate)
	if err != nil {
		return err
	}
	return domain.CheckBlockedSlots(span, slots)
}

func (t agendaTx) GetSettings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := t.tx.NewSelect().
		Model(&settings).
		OrderExpr("created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, err
	}
	return settings, nil
}

func (t agendaTx) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := t.tx.NewSelect().
		Model(&appt).
		Where("id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (t agendaTx) ListActiveInRange(ctx context.Context, rangeStart, rangeEnd time.Time, excludeID uuid.UUID) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q := t.tx.NewSelect().
		Model(&rows).
		Where("status != ?", domain.AppointmentStatusCancelled).
		Where("date >= ?", rangeStart).
		Where("date <= ?", rangeEnd)
	if excludeID != uuid.Nil {
		q = q.Where("id != ?", excludeID)
	}

	if err := q.OrderExpr("date ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t agendaTx) ListBlockedSlotsOnDate(ctx context.Context, localDate string) ([]domain.BlockedSlot, error) {
	var rows []domain.BlockedSlot
	err := t.tx.NewSelect().
		Model(&rows).
		Where("date = ?", localDate).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t agendaTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	_, err := t.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapOverlapConstraint(err)
	}
	return m, nil
}

func (t agendaTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	res, err := t.tx.NewUpdate().
		Model(&m).
		WherePK().
		ExcludeColumn("id", "created_at").
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapOverlapConstraint(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return m, nil
}

// mapOverlapConstraint translates the schema-level overlap backstop into the
// store conflict sentinel. The constraint only guards raw intervals; the
// buffer rule is enforced by the pipeline under the agenda lock.
func mapOverlapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap" {
			return store.ErrConflict
		}
	}
	return err
}
