package model

import "time"

// Booking statuses.  A booking is never hard-deleted by the normal flow;
// cancellation flips the status and frees the slot.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
	BookingNoShow    = "no_show"
)

// Payment statuses tracked as data only; no payment provider is integrated.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Booking reserves a court for a contiguous [StartTime,EndTime) interval on
// a specific date.  VenueID is denormalized from the court for query
// convenience.  Among non-cancelled bookings no two may overlap on the same
// court and date; the exact tuple (court, date, start, end) is additionally
// guarded by a unique key in the database.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who booked.
//  CourtID          – booked court.
//  VenueID          – venue of the court (denormalized).
//  Date             – YYYY-MM-DD booking date.
//  StartTime        – HH:MM interval start.
//  EndTime          – HH:MM interval end (exclusive).
//  TotalAmountCents – price for the reservation in cents.
//  Status           – confirmed, cancelled, completed or no_show.
//  PaymentStatus    – pending, paid or refunded.
//  Notes            – optional free-form note from the customer.
//  CancelReason     – optional reason recorded on cancellation.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Booking struct {
	ID               uint64    // bookings.id
	UserID           uint64    // bookings.user_id
	CourtID          uint64    // bookings.court_id
	VenueID          uint64    // bookings.venue_id
	Date             string    // bookings.booking_date
	StartTime        string    // bookings.start_time
	EndTime          string    // bookings.end_time
	TotalAmountCents uint32    // bookings.total_amount_cents
	Status           string    // bookings.status
	PaymentStatus    string    // bookings.payment_status
	Notes            *string   // bookings.notes (nullable)
	CancelReason     *string   // bookings.cancel_reason (nullable)
	CreatedAt        time.Time // bookings.created_at
	UpdatedAt        time.Time // bookings.updated_at
}
