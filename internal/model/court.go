package model

import "time"

// Court is a bookable resource within a venue.  Operating hours bound the
// period in which slots may be generated; when OpenTime/CloseTime are nil
// the default 06:00–22:00 window applies (see the schedule package).
//
// Fields:
//  ID                – primary key identifier.
//  VenueID           – owning venue.
//  Name              – court display name (e.g. "Court 2").
//  SportType         – sport played on this court (badminton, tennis, ...).
//  PricePerHourCents – hourly price in cents, never negative.
//  OpenTime          – HH:MM opening time-of-day (nullable).
//  CloseTime         – HH:MM closing time-of-day (nullable).
//  Active            – inactive courts are hidden and not bookable.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Court struct {
	ID                uint64    // courts.id
	VenueID           uint64    // courts.venue_id
	Name              string    // courts.name
	SportType         string    // courts.sport_type
	PricePerHourCents uint32    // courts.price_per_hour_cents
	OpenTime          *string   // courts.open_time (nullable TIME)
	CloseTime         *string   // courts.close_time (nullable TIME)
	Active            bool      // courts.is_active
	CreatedAt         time.Time // courts.created_at
	UpdatedAt         time.Time // courts.updated_at
}
