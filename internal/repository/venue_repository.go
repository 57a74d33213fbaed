package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/quickcourt/quickcourt-backend/internal/model"
)

// VenueRepo provides CRUD operations for venues.  Ownership is enforced in
// the queries: owner-scoped updates carry an owner_id predicate so that a
// caller can never modify someone else's venue.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a new VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = `id, owner_id, name, description, address, city, status, created_at, updated_at`

// Create inserts a venue in 'pending' status and returns it with generated
// fields populated.  New venues stay invisible to the public surface until
// an admin approves them.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (owner_id, name, description, address, city, status)
	           VALUES (?, ?, ?, ?, ?, 'pending')`
	res, err := r.db.ExecContext(ctx, q, v.OwnerID, v.Name, v.Description, v.Address, v.City)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return r.reload(ctx, v)
}

// GetByID loads a venue by primary key.  Returns ErrVenueNotFound when it
// does not exist.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id)
	return scanVenue(row)
}

// ListApproved returns approved venues for the public browse surface,
// optionally filtered by city (case-insensitive exact match).
func (r *VenueRepo) ListApproved(ctx context.Context, city string) ([]model.Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues WHERE status = 'approved'`
	args := []interface{}{}
	if city != "" {
		q += ` AND LOWER(city) = ?`
		args = append(args, strings.ToLower(city))
	}
	q += ` ORDER BY name`
	return r.list(ctx, q, args...)
}

// ListByOwner returns all venues of one owner, any status, newest first.
func (r *VenueRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE owner_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, ownerID)
}

// ListByStatus returns venues in the given approval status for the admin
// review queue, oldest first so the queue drains fairly.
func (r *VenueRepo) ListByStatus(ctx context.Context, status string) ([]model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE status = ? ORDER BY created_at`
	return r.list(ctx, q, status)
}

// Update modifies the mutable venue fields.  The owner_id predicate makes
// this a no-op for venues the caller does not own; in that case the method
// distinguishes ErrVenueNotFound from ErrForbidden.
func (r *VenueRepo) Update(ctx context.Context, ownerID uint64, v *model.Venue) error {
	const q = `UPDATE venues SET name = ?, description = ?, address = ?, city = ?
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Description, v.Address, v.City, v.ID, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var actualOwner uint64
		err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM venues WHERE id = ?`, v.ID).Scan(&actualOwner)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		if err != nil {
			return err
		}
		if actualOwner != ownerID {
			return ErrForbidden
		}
	}
	return r.reload(ctx, v)
}

// SetStatus records an admin approval decision.  Returns ErrVenueNotFound
// when the venue does not exist.
func (r *VenueRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE venues SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrVenueNotFound
			}
			return err
		}
	}
	return nil
}

// OwnerOf returns the owner_id of a venue, or ErrVenueNotFound.
func (r *VenueRepo) OwnerOf(ctx context.Context, id uint64) (uint64, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM venues WHERE id = ?`, id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrVenueNotFound
	}
	return ownerID, err
}

func (r *VenueRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	venues := make([]model.Venue, 0)
	for rows.Next() {
		var v model.Venue
		var desc sql.NullString
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Name, &desc, &v.Address, &v.City,
			&v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			v.Description = &d
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (r *VenueRepo) reload(ctx context.Context, v *model.Venue) error {
	loaded, err := r.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	*v = *loaded
	return nil
}

func scanVenue(row *sql.Row) (*model.Venue, error) {
	var v model.Venue
	var desc sql.NullString
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &desc, &v.Address, &v.City,
		&v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		v.Description = &d
	}
	return &v, nil
}
