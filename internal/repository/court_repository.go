package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quickcourt/quickcourt-backend/internal/model"
)

// CourtRepo provides CRUD operations for courts.  TIME columns are scanned
// as strings and normalized to HH:MM, the form the schedule package and the
// HTTP surface use.
type CourtRepo struct {
	db *sql.DB
}

// NewCourtRepo returns a new CourtRepo bound to the given database.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

const courtColumns = `id, venue_id, name, sport_type, price_per_hour_cents,
	TIME_FORMAT(open_time, '%H:%i'), TIME_FORMAT(close_time, '%H:%i'),
	is_active, created_at, updated_at`

// Create inserts a court and returns it with generated fields populated.
// The caller must have verified venue ownership first.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
	const q = `INSERT INTO courts (venue_id, name, sport_type, price_per_hour_cents, open_time, close_time, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, 1)`
	res, err := r.db.ExecContext(ctx, q, c.VenueID, c.Name, c.SportType,
		c.PricePerHourCents, c.OpenTime, c.CloseTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.reload(ctx, c)
}

// GetByID loads a court by primary key.  Returns ErrCourtNotFound when it
// does not exist.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (*model.Court, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = ?`, id)
	return scanCourt(row)
}

// GetPublic loads an active court belonging to an approved venue.  This is
// what the availability endpoint resolves against: inactive courts and
// courts of unapproved venues do not exist as far as the public is
// concerned.
func (r *CourtRepo) GetPublic(ctx context.Context, id uint64) (*model.Court, error) {
	const q = `SELECT c.id, c.venue_id, c.name, c.sport_type, c.price_per_hour_cents,
	                  TIME_FORMAT(c.open_time, '%H:%i'), TIME_FORMAT(c.close_time, '%H:%i'),
	                  c.is_active, c.created_at, c.updated_at
	           FROM courts c
	           JOIN venues v ON v.id = c.venue_id
	           WHERE c.id = ? AND c.is_active = 1 AND v.status = 'approved'`
	return scanCourt(r.db.QueryRowContext(ctx, q, id))
}

// ListByVenue returns courts of a venue.  With activeOnly the inactive
// courts are filtered out (public surface); owners see everything.
func (r *CourtRepo) ListByVenue(ctx context.Context, venueID uint64, activeOnly bool) ([]model.Court, error) {
	q := `SELECT ` + courtColumns + ` FROM courts WHERE venue_id = ?`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	courts := make([]model.Court, 0)
	for rows.Next() {
		c, err := scanCourtRows(rows)
		if err != nil {
			return nil, err
		}
		courts = append(courts, *c)
	}
	return courts, rows.Err()
}

// Update modifies the mutable court fields.  Each mutable column is
// enumerated explicitly; there is no generic field-name mapping.
func (r *CourtRepo) Update(ctx context.Context, c *model.Court) error {
	const q = `UPDATE courts SET name = ?, sport_type = ?, price_per_hour_cents = ?,
	           open_time = ?, close_time = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.SportType, c.PricePerHourCents,
		c.OpenTime, c.CloseTime, c.Active, c.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM courts WHERE id = ?`, c.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCourtNotFound
			}
			return err
		}
	}
	return r.reload(ctx, c)
}

// VenueOf returns the venue_id of a court, or ErrCourtNotFound.  Handlers
// use it together with VenueRepo.OwnerOf for ownership checks.
func (r *CourtRepo) VenueOf(ctx context.Context, id uint64) (uint64, error) {
	var venueID uint64
	err := r.db.QueryRowContext(ctx, `SELECT venue_id FROM courts WHERE id = ?`, id).Scan(&venueID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrCourtNotFound
	}
	return venueID, err
}

func (r *CourtRepo) reload(ctx context.Context, c *model.Court) error {
	loaded, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *loaded
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCourt(row *sql.Row) (*model.Court, error) {
	c, err := scanCourtRows(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return c, nil
}

func scanCourtRows(s rowScanner) (*model.Court, error) {
	var c model.Court
	var open, close sql.NullString
	if err := s.Scan(&c.ID, &c.VenueID, &c.Name, &c.SportType, &c.PricePerHourCents,
		&open, &close, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if open.Valid {
		o := open.String
		c.OpenTime = &o
	}
	if close.Valid {
		cl := close.String
		c.CloseTime = &cl
	}
	return &c, nil
}
