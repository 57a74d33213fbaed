package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quickcourt/quickcourt-backend/internal/model"
	"github.com/quickcourt/quickcourt-backend/internal/queue"
	"github.com/quickcourt/quickcourt-backend/internal/repository"
	"github.com/quickcourt/quickcourt-backend/internal/schedule"
)

// BookingStore is the slice of BookingRepo the customer handler needs.
// Declaring it at the consumer keeps the handler testable with a fake.
type BookingStore interface {
	CreateConflictChecked(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	SetStatus(ctx context.Context, id uint64, status string, reason *string) error
	Reschedule(ctx context.Context, id uint64, date, start, end string, amountCents uint32) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// CourtStore resolves courts for validation and pricing.
type CourtStore interface {
	GetPublic(ctx context.Context, id uint64) (*model.Court, error)
}

// BookingHandler implements the customer booking surface.  Clock is
// injectable so the past-booking rules can be tested deterministically; it
// defaults to time.Now.
type BookingHandler struct {
	Bookings BookingStore
	Courts   CourtStore
	Events   EventPublisher
	Clock    func() time.Time
}

// NewBookingHandler constructs a BookingHandler.  Events may be nil when no
// broker is configured; publishing is skipped.
func NewBookingHandler(bookings BookingStore, courts CourtStore, events EventPublisher) *BookingHandler {
	if bookings == nil || courts == nil {
		panic("nil store passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Courts: courts, Events: events, Clock: time.Now}
}

type createBookingReq struct {
	VenueID          uint64  `json:"venueId"`
	CourtID          uint64  `json:"courtId"`
	BookingDate      string  `json:"bookingDate"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	TotalAmountCents *uint32 `json:"totalAmountCents"`
	Notes            *string `json:"notes"`
}

type cancelReq struct {
	Reason *string `json:"reason"`
}

type rescheduleReq struct {
	NewDate      string `json:"newDate"`
	NewStartTime string `json:"newStartTime"`
	NewEndTime   string `json:"newEndTime"`
}

type bookingResp struct {
	ID               uint64  `json:"id"`
	UserID           uint64  `json:"userId"`
	CourtID          uint64  `json:"courtId"`
	VenueID          uint64  `json:"venueId"`
	BookingDate      string  `json:"bookingDate"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	TotalAmountCents uint32  `json:"totalAmountCents"`
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"paymentStatus"`
	Notes            *string `json:"notes,omitempty"`
	CancelReason     *string `json:"cancelReason,omitempty"`
	CourtName        string  `json:"courtName,omitempty"`
	VenueName        string  `json:"venueName,omitempty"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:               b.ID,
		UserID:           b.UserID,
		CourtID:          b.CourtID,
		VenueID:          b.VenueID,
		BookingDate:      b.Date,
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		TotalAmountCents: b.TotalAmountCents,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		Notes:            b.Notes,
		CancelReason:     b.CancelReason,
	}
}

func toBookingDetailResp(d repository.BookingDetail) bookingResp {
	resp := toBookingResp(&d.Booking)
	resp.CourtName = d.CourtName
	resp.VenueName = d.VenueName
	return resp
}

// validateInterval checks date/time shapes and interval ordering shared by
// create and reschedule.
func validateInterval(date, start, end string) string {
	if !schedule.ValidDate(date) {
		return "date must be YYYY-MM-DD"
	}
	if !schedule.ValidClock(start) || !schedule.ValidClock(end) {
		return "times must be HH:MM"
	}
	s, _ := schedule.ParseClock(start)
	e, _ := schedule.ParseClock(end)
	if e <= s {
		return "endTime must be after startTime"
	}
	return ""
}

// Create handles POST /api/bookings.  The interval is validated, priced
// from the court when no amount is supplied, and inserted through the
// conflict-checked repository path; an overlap or a duplicate-tuple race
// surfaces as 409.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.VenueID == 0 || req.CourtID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venueId and courtId are required"})
	}
	if msg := validateInterval(req.BookingDate, req.StartTime, req.EndTime); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	court, err := h.Courts.GetPublic(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load court"})
	}
	if court.VenueID != req.VenueID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "court does not belong to venue"})
	}

	amount := priceFor(court, req.StartTime, req.EndTime)
	if req.TotalAmountCents != nil {
		amount = *req.TotalAmountCents
	}

	booking := &model.Booking{
		UserID:           userID,
		CourtID:          req.CourtID,
		VenueID:          req.VenueID,
		Date:             req.BookingDate,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		TotalAmountCents: amount,
		Notes:            req.Notes,
	}
	if err := h.Bookings.CreateConflictChecked(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "this time slot is already booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	h.publish(ctx, queue.EventBookingCreated, booking, nil)
	return c.JSON(http.StatusCreated, echo.Map{"item": toBookingResp(booking)})
}

// List handles GET /api/bookings, returning the caller's bookings.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]bookingResp, 0, len(details))
	for _, d := range details {
		items = append(items, toBookingDetailResp(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/bookings/:bookingId.  A booking belonging to a
// different user is reported as 403.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	booking, httpErr := h.loadOwn(c, userID)
	if httpErr != nil {
		return httpErr
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toBookingResp(booking)})
}

// Cancel handles PATCH /api/bookings/:bookingId/cancel.  Only confirmed
// bookings whose start instant is still in the future can be cancelled.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	booking, httpErr := h.loadOwn(c, userID)
	if httpErr != nil {
		return httpErr
	}
	var req cancelReq
	_ = c.Bind(&req) // reason is optional; an empty body is fine

	if booking.Status != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only confirmed bookings can be cancelled"})
	}
	future, err := schedule.StartsInFuture(booking.Date, booking.StartTime, h.Clock())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "corrupt booking interval"})
	}
	if !future {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot cancel past bookings"})
	}

	ctx := c.Request().Context()
	if err := h.Bookings.SetStatus(ctx, booking.ID, model.BookingCancelled, req.Reason); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	booking.Status = model.BookingCancelled
	booking.CancelReason = req.Reason

	h.publish(ctx, queue.EventBookingCancelled, booking, req.Reason)
	return c.JSON(http.StatusOK, echo.Map{"item": toBookingResp(booking)})
}

// Reschedule handles PATCH /api/bookings/:bookingId/reschedule.  The new
// interval passes through the same transactional conflict check as
// creation, ignoring the booking's own row, and the amount is re-priced
// from the court.
func (h *BookingHandler) Reschedule(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	booking, httpErr := h.loadOwn(c, userID)
	if httpErr != nil {
		return httpErr
	}
	var req rescheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := validateInterval(req.NewDate, req.NewStartTime, req.NewEndTime); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	if booking.Status != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only confirmed bookings can be rescheduled"})
	}
	future, err := schedule.StartsInFuture(booking.Date, booking.StartTime, h.Clock())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "corrupt booking interval"})
	}
	if !future {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot reschedule past bookings"})
	}

	ctx := c.Request().Context()
	court, err := h.Courts.GetPublic(ctx, booking.CourtID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load court"})
	}
	amount := priceFor(court, req.NewStartTime, req.NewEndTime)

	updated, err := h.Bookings.Reschedule(ctx, booking.ID, req.NewDate, req.NewStartTime, req.NewEndTime, amount)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "this time slot is already booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reschedule booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toBookingResp(updated)})
}

// loadOwn fetches the booking in the path and enforces that it belongs to
// the caller.  Returns a non-nil error response when the booking is
// missing, foreign or the id malformed.
func (h *BookingHandler) loadOwn(c echo.Context, userID uint64) (*model.Booking, error) {
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.Bookings.GetByID(c.Request().Context(), bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if booking.UserID != userID {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return booking, nil
}

// priceFor computes the default amount: court hourly price times the
// interval length in hours.  Interval validity was checked by the caller.
func priceFor(court *model.Court, start, end string) uint32 {
	s, _ := schedule.ParseClock(start)
	e, _ := schedule.ParseClock(end)
	if e <= s {
		return 0
	}
	return court.PricePerHourCents * uint32(e-s) / schedule.SlotMinutes
}

func (h *BookingHandler) publish(ctx context.Context, eventType string, b *model.Booking, reason *string) {
	if h.Events == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:             eventType,
		BookingID:        b.ID,
		UserID:           b.UserID,
		CourtID:          b.CourtID,
		VenueID:          b.VenueID,
		Date:             b.Date,
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		TotalAmountCents: b.TotalAmountCents,
		Reason:           reason,
		OccurredAt:       h.Clock().UTC().Format(time.RFC3339),
	}
	if err := h.Events.PublishBookingEvent(ctx, ev); err != nil {
		log.Printf("booking: publish %s failed: %v", eventType, err)
	}
}
