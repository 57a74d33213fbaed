package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/quickcourt/quickcourt-backend/internal/model"
	"github.com/quickcourt/quickcourt-backend/internal/queue"
	"github.com/quickcourt/quickcourt-backend/internal/repository"
)

type fakeBookingStore struct {
	bookings    map[uint64]*model.Booking
	nextID      uint64
	createErr   error
	rescheduled *model.Booking
	statusSet   string
	reasonSet   *string
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[uint64]*model.Booking{}, nextID: 1}
}

func (f *fakeBookingStore) CreateConflictChecked(_ context.Context, b *model.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = f.nextID
	f.nextID++
	b.Status = model.BookingConfirmed
	b.PaymentStatus = model.PaymentPending
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) SetStatus(_ context.Context, id uint64, status string, reason *string) error {
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.Status = status
	b.CancelReason = reason
	f.statusSet = status
	f.reasonSet = reason
	return nil
}

func (f *fakeBookingStore) Reschedule(_ context.Context, id uint64, date, start, end string, amountCents uint32) (*model.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	b.Date, b.StartTime, b.EndTime, b.TotalAmountCents = date, start, end, amountCents
	cp := *b
	f.rescheduled = &cp
	return &cp, nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID uint64) ([]repository.BookingDetail, error) {
	var out []repository.BookingDetail
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, repository.BookingDetail{Booking: *b, CourtName: "Court 1", VenueName: "Arena"})
		}
	}
	return out, nil
}

type fakeCourtStore struct {
	courts map[uint64]*model.Court
}

func (f *fakeCourtStore) GetPublic(_ context.Context, id uint64) (*model.Court, error) {
	c, ok := f.courts[id]
	if !ok {
		return nil, repository.ErrCourtNotFound
	}
	cp := *c
	return &cp, nil
}

type fakePublisher struct {
	events []queue.BookingEvent
}

func (f *fakePublisher) PublishBookingEvent(_ context.Context, ev queue.BookingEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type bookingDeps struct {
	h        *BookingHandler
	bookings *fakeBookingStore
	courts   *fakeCourtStore
	events   *fakePublisher
}

func newBookingDeps(t *testing.T) bookingDeps {
	t.Helper()
	bookings := newFakeBookingStore()
	courts := &fakeCourtStore{courts: map[uint64]*model.Court{
		7: {ID: 7, VenueID: 3, Name: "Court A", SportType: "badminton", PricePerHourCents: 2500, Active: true},
	}}
	events := &fakePublisher{}
	h := NewBookingHandler(bookings, courts, events)
	// Fixed clock: 2026-03-10 12:00 UTC.
	h.Clock = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return bookingDeps{h: h, bookings: bookings, courts: courts, events: events}
}

func bookingCtx(t *testing.T, method, path, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", userID)
	return c, rec
}

func decodeItem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out struct {
		Item map[string]any `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Item
}

func TestBookingCreate(t *testing.T) {
	d := newBookingDeps(t)
	body := `{"venueId":3,"courtId":7,"bookingDate":"2026-03-11","startTime":"14:00","endTime":"16:00"}`
	c, rec := bookingCtx(t, http.MethodPost, "/api/bookings", body, 42)

	require.NoError(t, d.h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	item := decodeItem(t, rec)
	require.Equal(t, "confirmed", item["status"])
	require.Equal(t, "pending", item["paymentStatus"])
	// 2 hours at 2500 cents/hour.
	require.Equal(t, float64(5000), item["totalAmountCents"])

	require.Len(t, d.events.events, 1)
	require.Equal(t, queue.EventBookingCreated, d.events.events[0].Type)
}

func TestBookingCreateExplicitAmount(t *testing.T) {
	d := newBookingDeps(t)
	body := `{"venueId":3,"courtId":7,"bookingDate":"2026-03-11","startTime":"09:00","endTime":"10:00","totalAmountCents":1999}`
	c, rec := bookingCtx(t, http.MethodPost, "/api/bookings", body, 42)

	require.NoError(t, d.h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, float64(1999), decodeItem(t, rec)["totalAmountCents"])
}

func TestBookingCreateConflict(t *testing.T) {
	d := newBookingDeps(t)
	d.bookings.createErr = repository.ErrSlotTaken
	body := `{"venueId":3,"courtId":7,"bookingDate":"2026-03-11","startTime":"14:00","endTime":"15:00"}`
	c, rec := bookingCtx(t, http.MethodPost, "/api/bookings", body, 42)

	require.NoError(t, d.h.Create(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "this time slot is already booked")
	require.Empty(t, d.events.events)
}

func TestBookingCreateValidation(t *testing.T) {
	d := newBookingDeps(t)
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing ids", `{"bookingDate":"2026-03-11","startTime":"14:00","endTime":"15:00"}`, "required"},
		{"bad date", `{"venueId":3,"courtId":7,"bookingDate":"11-03-2026","startTime":"14:00","endTime":"15:00"}`, "YYYY-MM-DD"},
		{"bad time", `{"venueId":3,"courtId":7,"bookingDate":"2026-03-11","startTime":"2pm","endTime":"15:00"}`, "HH:MM"},
		{"inverted", `{"venueId":3,"courtId":7,"bookingDate":"2026-03-11","startTime":"15:00","endTime":"14:00"}`, "after"},
		{"zero length", `{"venueId":3,"courtId":7,"bookingDate":"2026-03-11","startTime":"14:00","endTime":"14:00"}`, "after"},
		{"wrong venue", `{"venueId":99,"courtId":7,"bookingDate":"2026-03-11","startTime":"14:00","endTime":"15:00"}`, "belong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := bookingCtx(t, http.MethodPost, "/api/bookings", tc.body, 42)
			require.NoError(t, d.h.Create(c))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestBookingCreateUnknownCourt(t *testing.T) {
	d := newBookingDeps(t)
	body := `{"venueId":3,"courtId":404,"bookingDate":"2026-03-11","startTime":"14:00","endTime":"15:00"}`
	c, rec := bookingCtx(t, http.MethodPost, "/api/bookings", body, 42)

	require.NoError(t, d.h.Create(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func seedBooking(d bookingDeps, userID uint64, date, start, end string) *model.Booking {
	b := &model.Booking{
		UserID: userID, CourtID: 7, VenueID: 3,
		Date: date, StartTime: start, EndTime: end,
		TotalAmountCents: 2500,
	}
	_ = d.bookings.CreateConflictChecked(context.Background(), b)
	return b
}

func TestBookingCancel(t *testing.T) {
	d := newBookingDeps(t)
	b := seedBooking(d, 42, "2026-03-11", "14:00", "15:00")

	c, rec := bookingCtx(t, http.MethodPatch, "/", `{"reason":"rain"}`, 42)
	c.SetParamNames("bookingId")
	c.SetParamValues("1")

	require.NoError(t, d.h.Cancel(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cancelled", decodeItem(t, rec)["status"])
	require.Equal(t, model.BookingCancelled, d.bookings.bookings[b.ID].Status)
	require.NotNil(t, d.bookings.reasonSet)
	require.Equal(t, "rain", *d.bookings.reasonSet)

	require.Len(t, d.events.events, 1)
	require.Equal(t, queue.EventBookingCancelled, d.events.events[0].Type)
}

func TestBookingCancelPast(t *testing.T) {
	d := newBookingDeps(t)
	// Clock is 2026-03-10 12:00; a 09:00 booking that day already started.
	seedBooking(d, 42, "2026-03-10", "09:00", "10:00")

	c, rec := bookingCtx(t, http.MethodPatch, "/", "", 42)
	c.SetParamNames("bookingId")
	c.SetParamValues("1")

	require.NoError(t, d.h.Cancel(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "cannot cancel past bookings")
	require.Empty(t, d.events.events)
}

func TestBookingCancelForeign(t *testing.T) {
	d := newBookingDeps(t)
	seedBooking(d, 42, "2026-03-11", "14:00", "15:00")

	c, rec := bookingCtx(t, http.MethodPatch, "/", "", 99)
	c.SetParamNames("bookingId")
	c.SetParamValues("1")

	require.NoError(t, d.h.Cancel(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingCancelAlreadyCancelled(t *testing.T) {
	d := newBookingDeps(t)
	b := seedBooking(d, 42, "2026-03-11", "14:00", "15:00")
	d.bookings.bookings[b.ID].Status = model.BookingCancelled

	c, rec := bookingCtx(t, http.MethodPatch, "/", "", 42)
	c.SetParamNames("bookingId")
	c.SetParamValues("1")

	require.NoError(t, d.h.Cancel(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "only confirmed bookings")
}

func TestBookingReschedule(t *testing.T) {
	d := newBookingDeps(t)
	seedBooking(d, 42, "2026-03-11", "14:00", "15:00")

	body := `{"newDate":"2026-03-12","newStartTime":"10:00","newEndTime":"12:00"}`
	c, rec := bookingCtx(t, http.MethodPatch, "/", body, 42)
	c.SetParamNames("bookingId")
	c.SetParamValues("1")

	require.NoError(t, d.h.Reschedule(c))
	require.Equal(t, http.StatusOK, rec.Code)

	item := decodeItem(t, rec)
	require.Equal(t, "2026-03-12", item["bookingDate"])
	require.Equal(t, "10:00", item["startTime"])
	// Re-priced: 2 hours at 2500.
	require.Equal(t, float64(5000), item["totalAmountCents"])
}

func TestBookingRescheduleConflict(t *testing.T) {
	d := newBookingDeps(t)
	seedBooking(d, 42, "2026-03-11", "14:00", "15:00")
	d.bookings.createErr = repository.ErrSlotTaken

	body := `{"newDate":"2026-03-12","newStartTime":"10:00","newEndTime":"11:00"}`
	c, rec := bookingCtx(t, http.MethodPatch, "/", body, 42)
	c.SetParamNames("bookingId")
	c.SetParamValues("1")

	require.NoError(t, d.h.Reschedule(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "this time slot is already booked")
}

func TestBookingListAndGet(t *testing.T) {
	d := newBookingDeps(t)
	seedBooking(d, 42, "2026-03-11", "14:00", "15:00")
	seedBooking(d, 99, "2026-03-11", "16:00", "17:00")

	c, rec := bookingCtx(t, http.MethodGet, "/api/bookings", "", 42)
	require.NoError(t, d.h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Items, 1)
	require.Equal(t, "Arena", out.Items[0]["venueName"])

	c, rec = bookingCtx(t, http.MethodGet, "/", "", 42)
	c.SetParamNames("bookingId")
	c.SetParamValues("1")
	require.NoError(t, d.h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = bookingCtx(t, http.MethodGet, "/", "", 42)
	c.SetParamNames("bookingId")
	c.SetParamValues("12345")
	require.NoError(t, d.h.Get(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
