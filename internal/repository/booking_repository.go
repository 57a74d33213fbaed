package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quickcourt/quickcourt-backend/internal/model"
)

// BookingRepo provides booking persistence and the write-time conflict
// check.  Correctness against double booking has two layers: inside the
// insert/reschedule transaction a SELECT ... FOR UPDATE counts overlapping
// non-cancelled bookings (and blocked slots) using the half-open interval
// test, and the bookings table carries a unique key on the exact
// (court, date, start, end) tuple among non-cancelled rows as a backstop
// for identical-tuple races.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, court_id, venue_id,
	DATE_FORMAT(booking_date, '%Y-%m-%d'),
	TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	total_amount_cents, status, payment_status, notes, cancel_reason,
	created_at, updated_at`

// overlapQ counts non-cancelled bookings on the court/date whose [start,end)
// interval intersects the candidate: existing.start < cand.end AND
// existing.end > cand.start.  FOR UPDATE locks the matched rows so a
// concurrent insert for an overlapping interval serializes behind us.
const overlapQ = `SELECT COUNT(*) FROM bookings
	WHERE court_id = ? AND booking_date = ? AND status <> 'cancelled'
	  AND start_time < ? AND end_time > ? AND id <> ?
	FOR UPDATE`

// blockedOverlapQ is the same interval test against blocked maintenance
// slots.
const blockedOverlapQ = `SELECT COUNT(*) FROM time_slots
	WHERE court_id = ? AND slot_date = ? AND is_blocked = 1
	  AND start_time < ? AND end_time > ?
	FOR UPDATE`

// CreateConflictChecked inserts a confirmed booking after verifying, within
// a single transaction, that no non-cancelled booking and no blocked slot
// overlaps the requested interval.  Any overlap, including a duplicate-key
// collision from a racing identical insert or a deadlock between racing
// overlapping inserts, is reported as ErrSlotTaken.
// On success the record's generated fields are populated.
func (r *BookingRepo) CreateConflictChecked(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := checkOverlapTx(ctx, tx, b.CourtID, b.Date, b.StartTime, b.EndTime, 0); err != nil {
		return err
	}

	const ins = `INSERT INTO bookings
		(user_id, court_id, venue_id, booking_date, start_time, end_time,
		 total_amount_cents, status, payment_status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'confirmed', 'pending', ?)`
	res, err := tx.ExecContext(ctx, ins, b.UserID, b.CourtID, b.VenueID,
		b.Date, b.StartTime, b.EndTime, b.TotalAmountCents, b.Notes)
	if err != nil {
		if isDuplicateEntry(err) || isDeadlock(err) {
			return ErrSlotTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Query back the full row to populate status defaults and timestamps.
	loaded, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*b = *loaded
	return nil
}

// Reschedule moves a booking to a new date/interval after running the same
// transactional overlap check, ignoring the booking's own row.  The amount
// is updated alongside since the new interval may differ in length.
func (r *BookingRepo) Reschedule(ctx context.Context, id uint64, date, start, end string, amountCents uint32) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var courtID uint64
	err = tx.QueryRowContext(ctx, `SELECT court_id FROM bookings WHERE id = ? FOR UPDATE`, id).Scan(&courtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if err := checkOverlapTx(ctx, tx, courtID, date, start, end, id); err != nil {
		return nil, err
	}

	const upd = `UPDATE bookings SET booking_date = ?, start_time = ?, end_time = ?, total_amount_cents = ?
	             WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, date, start, end, amountCents, id); err != nil {
		if isDuplicateEntry(err) || isDeadlock(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	loaded, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return loaded, nil
}

func checkOverlapTx(ctx context.Context, tx *sql.Tx, courtID uint64, date, start, end string, excludeID uint64) error {
	var n int
	if err := tx.QueryRowContext(ctx, overlapQ, courtID, date, end, start, excludeID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrSlotTaken
	}
	if err := tx.QueryRowContext(ctx, blockedOverlapQ, courtID, date, end, start).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrSlotTaken
	}
	return nil
}

// GetByID loads a booking by primary key.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListForDate returns the non-cancelled bookings of a court on a date.
// This feeds the availability computation.
func (r *BookingRepo) ListForDate(ctx context.Context, courtID uint64, date string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE court_id = ? AND booking_date = ? AND status <> 'cancelled'
	           ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, courtID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBookingRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// SetStatus transitions a booking's status.  Cancellations record the
// optional reason.  Time-based rules (no cancelling past bookings) are
// enforced by the caller before this single-statement update.
func (r *BookingRepo) SetStatus(ctx context.Context, id uint64, status string, reason *string) error {
	var err error
	if status == model.BookingCancelled {
		_, err = r.db.ExecContext(ctx,
			`UPDATE bookings SET status = ?, cancel_reason = ? WHERE id = ?`, status, reason, id)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	}
	return err
}

// BookingDetail is a booking joined with its court and venue names, the
// shape returned to customers and owners.
type BookingDetail struct {
	model.Booking
	CourtName string `json:"courtName"`
	VenueName string `json:"venueName"`
}

const detailQ = `SELECT b.id, b.user_id, b.court_id, b.venue_id,
	DATE_FORMAT(b.booking_date, '%Y-%m-%d'),
	TIME_FORMAT(b.start_time, '%H:%i'), TIME_FORMAT(b.end_time, '%H:%i'),
	b.total_amount_cents, b.status, b.payment_status, b.notes, b.cancel_reason,
	b.created_at, b.updated_at, c.name, v.name
	FROM bookings b
	JOIN courts c ON c.id = b.court_id
	JOIN venues v ON v.id = b.venue_id`

// ListByUser returns all bookings of a user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQ+` WHERE b.user_id = ? ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

// ListByVenueForOwner returns all bookings on a venue after verifying that
// the venue belongs to the caller.  Returns ErrVenueNotFound when the venue
// does not exist and ErrForbidden when it is someone else's.
func (r *BookingRepo) ListByVenueForOwner(ctx context.Context, venueID, ownerID uint64) ([]BookingDetail, error) {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM venues WHERE id = ?`, venueID).Scan(&actualOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	if actualOwner != ownerID {
		return nil, ErrForbidden
	}
	rows, err := r.db.QueryContext(ctx,
		detailQ+` WHERE b.venue_id = ? ORDER BY b.booking_date DESC, b.start_time DESC`, venueID)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

func collectDetails(rows *sql.Rows) ([]BookingDetail, error) {
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var notes, reason sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.CourtID, &d.VenueID,
			&d.Date, &d.StartTime, &d.EndTime,
			&d.TotalAmountCents, &d.Status, &d.PaymentStatus, &notes, &reason,
			&d.CreatedAt, &d.UpdatedAt, &d.CourtName, &d.VenueName); err != nil {
			return nil, err
		}
		if notes.Valid {
			n := notes.String
			d.Notes = &n
		}
		if reason.Valid {
			rs := reason.String
			d.CancelReason = &rs
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanBooking(row *sql.Row) (*model.Booking, error) {
	return scanBookingRows(row)
}

func scanBookingRows(s rowScanner) (*model.Booking, error) {
	var b model.Booking
	var notes, reason sql.NullString
	if err := s.Scan(&b.ID, &b.UserID, &b.CourtID, &b.VenueID,
		&b.Date, &b.StartTime, &b.EndTime,
		&b.TotalAmountCents, &b.Status, &b.PaymentStatus, &notes, &reason,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	if reason.Valid {
		rs := reason.String
		b.CancelReason = &rs
	}
	return &b, nil
}
