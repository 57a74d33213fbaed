// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notifications.
package queue

// Event types carried in BookingEvent.Type.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published whenever a booking is created or cancelled.  It
// carries enough context for downstream consumers (notification dispatch,
// analytics) to act without querying the primary database.  Notification
// delivery is deliberately decoupled from the booking flow: publishing is
// best effort and a broker outage never fails a booking.
type BookingEvent struct {
	Type             string  `json:"type"`
	BookingID        uint64  `json:"bookingId"`
	UserID           uint64  `json:"userId"`
	CourtID          uint64  `json:"courtId"`
	CourtName        string  `json:"courtName,omitempty"`
	VenueID          uint64  `json:"venueId"`
	VenueName        string  `json:"venueName,omitempty"`
	Date             string  `json:"date"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	TotalAmountCents uint32  `json:"totalAmountCents"`
	Reason           *string `json:"reason,omitempty"`
	OccurredAt       string  `json:"occurredAt"`
}
