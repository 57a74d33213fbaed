package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/quickcourt/quickcourt-backend/internal/model"
)

// TimeSlotRepo manages the slot records of a court: the generated bookable
// grid, maintenance blocks and per-slot price overrides.  Blocking is an
// upsert keyed by the unique (court, date, start, end) tuple; unblocking an
// already-unblocked or missing tuple affects zero rows and is not an error.
type TimeSlotRepo struct {
	db *sql.DB
}

// NewTimeSlotRepo returns a new TimeSlotRepo bound to the given database.
func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo { return &TimeSlotRepo{db: db} }

const slotColumns = `id, court_id, DATE_FORMAT(slot_date, '%Y-%m-%d'),
	TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	is_blocked, block_reason, price_override_cents, created_at, updated_at`

// GenerateForDate inserts slot rows for the given intervals, skipping
// tuples that already exist so repeated generation is idempotent and never
// disturbs existing blocks or price overrides.
func (r *TimeSlotRepo) GenerateForDate(ctx context.Context, courtID uint64, date string, slots []model.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	q := `INSERT IGNORE INTO time_slots (court_id, slot_date, start_time, end_time, price_override_cents) VALUES `
	args := make([]interface{}, 0, len(slots)*5)
	for i, s := range slots {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, ?, ?)"
		args = append(args, courtID, date, s.StartTime, s.EndTime, s.PriceOverrideCents)
	}
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// ListForDate returns all slot rows of a court on a date, ordered by start
// time.  Owners use this to pick slot IDs for block/unblock.
func (r *TimeSlotRepo) ListForDate(ctx context.Context, courtID uint64, date string) ([]model.TimeSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM time_slots
	           WHERE court_id = ? AND slot_date = ? ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, courtID, date)
	if err != nil {
		return nil, err
	}
	return collectSlots(rows)
}

// BlockedForDate returns only the blocked slots of a court on a date; these
// are subtracted from availability alongside bookings.
func (r *TimeSlotRepo) BlockedForDate(ctx context.Context, courtID uint64, date string) ([]model.TimeSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM time_slots
	           WHERE court_id = ? AND slot_date = ? AND is_blocked = 1 ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, courtID, date)
	if err != nil {
		return nil, err
	}
	return collectSlots(rows)
}

// Block upserts a blocking record for the exact tuple: an existing row is
// updated to blocked with the new reason, otherwise a blocked row is
// inserted.
func (r *TimeSlotRepo) Block(ctx context.Context, courtID uint64, date, start, end string, reason *string) error {
	const q = `INSERT INTO time_slots (court_id, slot_date, start_time, end_time, is_blocked, block_reason)
	           VALUES (?, ?, ?, ?, 1, ?)
	           ON DUPLICATE KEY UPDATE is_blocked = 1, block_reason = VALUES(block_reason)`
	_, err := r.db.ExecContext(ctx, q, courtID, date, start, end, reason)
	return err
}

// Unblock clears the blocked flag and reason for the exact tuple.  Returns
// the number of rows changed; zero means the tuple was missing or already
// unblocked, which callers treat as a no-op.
func (r *TimeSlotRepo) Unblock(ctx context.Context, courtID uint64, date, start, end string) (int64, error) {
	const q = `UPDATE time_slots SET is_blocked = 0, block_reason = NULL
	           WHERE court_id = ? AND slot_date = ? AND start_time = ? AND end_time = ? AND is_blocked = 1`
	res, err := r.db.ExecContext(ctx, q, courtID, date, start, end)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BlockByIDs marks existing slot rows blocked.  The court predicate keeps a
// caller from blocking slots of a court they did not name (and therefore
// did not pass the ownership check for).
func (r *TimeSlotRepo) BlockByIDs(ctx context.Context, courtID uint64, ids []uint64, reason *string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := `UPDATE time_slots SET is_blocked = 1, block_reason = ?
	      WHERE court_id = ? AND id IN (` + placeholders(len(ids)) + `)`
	args := append([]interface{}{reason, courtID}, idArgs(ids)...)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UnblockByIDs clears the blocked flag on existing slot rows.  Rows that
// are not currently blocked are left untouched; zero affected rows is a
// no-op, not an error.
func (r *TimeSlotRepo) UnblockByIDs(ctx context.Context, courtID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := `UPDATE time_slots SET is_blocked = 0, block_reason = NULL
	      WHERE court_id = ? AND is_blocked = 1 AND id IN (` + placeholders(len(ids)) + `)`
	args := append([]interface{}{courtID}, idArgs(ids)...)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []uint64) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func collectSlots(rows *sql.Rows) ([]model.TimeSlot, error) {
	defer rows.Close()
	out := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		var reason sql.NullString
		var override sql.NullInt64
		if err := rows.Scan(&s.ID, &s.CourtID, &s.Date, &s.StartTime, &s.EndTime,
			&s.Blocked, &reason, &override, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if reason.Valid {
			rs := reason.String
			s.BlockReason = &rs
		}
		if override.Valid {
			p := uint32(override.Int64)
			s.PriceOverrideCents = &p
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
