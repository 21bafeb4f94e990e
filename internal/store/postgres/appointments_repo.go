package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"github.com/profyt7/carelinkai-sub009/internal/calendar"
	"github.com/profyt7/carelinkai-sub009/internal/domain"
	"github.com/profyt7/carelinkai-sub009/internal/store"
)

const (
	pgExclusionViolation = "23P01"
	noOverlapConstraint  = "appointments_no_overlap"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) FindOverlapping(ctx context.Context, ownerID string, window calendar.TimeWindow) ([]domain.Appointment, error) {
	return selectAppointments(ctx, r.db, ownerID, window)
}

// InOwnerTransaction runs fn in a transaction holding the owner's advisory lock, so
// concurrent bookings for one owner are serialized.
func (r *AppointmentRepo) InOwnerTransaction(ctx context.Context, ownerID string, fn func(ctx context.Context, tx store.CalendarTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockOwnerCalendar(ctx, tx, ownerID); err != nil {
			return err
		}
		return fn(ctx, calendarTx{tx: tx})
	})
}

func lockOwnerCalendar(ctx context.Context, tx bun.Tx, ownerID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", ownerID).Exec(ctx)
	return err
}

type calendarTx struct {
	tx bun.Tx
}

func (c calendarTx) ListAppointments(ctx context.Context, ownerID string, window calendar.TimeWindow) ([]domain.Appointment, error) {
	return selectAppointments(ctx, c.tx, ownerID, window)
}

func (c calendarTx) ListAvailability(ctx context.Context, ownerID string, window calendar.TimeWindow) ([]domain.AvailabilitySlot, error) {
	return selectAvailability(ctx, c.tx, ownerID, window)
}

// CreateAppointment inserts appt. Re-inserting an existing id is treated as a replay:
// the stored row is returned when it describes the same booking.
func (c calendarTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	res, err := c.tx.NewInsert().
		Model(&m).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		if pgCode(err) == pgExclusionViolation {
			return domain.Appointment{}, store.ErrConflict
		}
		return domain.Appointment{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 1 {
		return m, nil
	}

	var existing domain.Appointment
	err = c.tx.NewSelect().
		Model(&existing).
		Where("id = ?", m.ID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !sameBooking(existing, appt) {
		return domain.Appointment{}, store.ErrIdempotencyConflict
	}
	return existing, nil
}

// sameBooking reports whether a stored appointment is a replay of in.
func sameBooking(existing, in domain.Appointment) bool {
	return existing.OwnerID == in.OwnerID &&
		existing.Title == in.Title &&
		existing.Type == in.Type &&
		existing.StartTime.Equal(in.StartTime) &&
		existing.EndTime.Equal(in.EndTime)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	if pgErr.Code == pgExclusionViolation && pgErr.ConstraintName != noOverlapConstraint {
		return ""
	}
	return pgErr.Code
}

func selectAppointments(ctx context.Context, db bun.IDB, ownerID string, window calendar.TimeWindow) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := db.NewSelect().
		Model(&rows).
		Where("owner_id = ?", ownerID).
		Where("start_time < ?", window.End).
		Where("end_time > ?", window.Start).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
