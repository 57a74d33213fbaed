package model

import "time"

// TimeSlot is a slot record for a court on a date.  Owners generate rows
// for the bookable grid and may mark individual rows blocked for
// maintenance; blocked rows are subtracted from availability exactly like
// bookings.  The tuple (court, date, start, end) is unique.  Blocks are not
// cross-validated against existing bookings.
//
// Fields:
//  ID                 – primary key identifier.
//  CourtID            – court this slot belongs to.
//  Date               – YYYY-MM-DD slot date.
//  StartTime          – HH:MM interval start.
//  EndTime            – HH:MM interval end (exclusive).
//  Blocked            – true while the slot is unavailable for maintenance.
//  BlockReason        – why the slot is blocked (nullable).
//  PriceOverrideCents – per-slot price overriding the court price (nullable).
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type TimeSlot struct {
	ID                 uint64    // time_slots.id
	CourtID            uint64    // time_slots.court_id
	Date               string    // time_slots.slot_date
	StartTime          string    // time_slots.start_time
	EndTime            string    // time_slots.end_time
	Blocked            bool      // time_slots.is_blocked
	BlockReason        *string   // time_slots.block_reason (nullable)
	PriceOverrideCents *uint32   // time_slots.price_override_cents (nullable)
	CreatedAt          time.Time // time_slots.created_at
	UpdatedAt          time.Time // time_slots.updated_at
}
