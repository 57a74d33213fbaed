package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quickcourt/quickcourt-backend/internal/model"
	"github.com/quickcourt/quickcourt-backend/internal/repository"
	"github.com/quickcourt/quickcourt-backend/internal/schedule"
)

// PublicHandler serves the unauthenticated browse surface: approved venues,
// their active courts and per-date court availability.  Availability is the
// read half of the booking engine: operating hours minus non-cancelled
// bookings minus blocked slots, at hour granularity.
type PublicHandler struct {
	Venues   *repository.VenueRepo
	Courts   *repository.CourtRepo
	Bookings *repository.BookingRepo
	Slots    *repository.TimeSlotRepo
}

// NewPublicHandler constructs a PublicHandler; all dependencies must be
// non-nil.
func NewPublicHandler(venues *repository.VenueRepo, courts *repository.CourtRepo, bookings *repository.BookingRepo, slots *repository.TimeSlotRepo) *PublicHandler {
	if venues == nil || courts == nil || bookings == nil || slots == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Venues: venues, Courts: courts, Bookings: bookings, Slots: slots}
}

type venueResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
}

type courtResp struct {
	ID                uint64  `json:"id"`
	VenueID           uint64  `json:"venueId"`
	Name              string  `json:"name"`
	SportType         string  `json:"sportType"`
	PricePerHourCents uint32  `json:"pricePerHourCents"`
	OpenTime          *string `json:"openTime,omitempty"`
	CloseTime         *string `json:"closeTime,omitempty"`
}

type slotResp struct {
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	PricePerHourCents uint32 `json:"pricePerHourCents"`
}

// ListVenues handles GET /api/public/venues.  Only approved venues are
// returned; ?city= filters by city.
func (h *PublicHandler) ListVenues(c echo.Context) error {
	venues, err := h.Venues.ListApproved(c.Request().Context(), c.QueryParam("city"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venues"})
	}
	items := make([]venueResp, 0, len(venues))
	for _, v := range venues {
		items = append(items, venueResp{ID: v.ID, Name: v.Name, Description: v.Description, Address: v.Address, City: v.City})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetVenue handles GET /api/public/venues/:venueId.  Unapproved venues are
// reported as missing rather than leaked.
func (h *PublicHandler) GetVenue(c echo.Context) error {
	venueID, ok := pathID(c, "venueId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	v, err := h.Venues.GetByID(c.Request().Context(), venueID)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venue"})
	}
	if v.Status != model.VenueApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": venueResp{ID: v.ID, Name: v.Name, Description: v.Description, Address: v.Address, City: v.City}})
}

// ListCourts handles GET /api/public/venues/:venueId/courts, returning the
// active courts of an approved venue.
func (h *PublicHandler) ListCourts(c echo.Context) error {
	venueID, ok := pathID(c, "venueId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	ctx := c.Request().Context()
	v, err := h.Venues.GetByID(ctx, venueID)
	if err != nil || v.Status != model.VenueApproved {
		if err != nil && !errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venue"})
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}
	courts, err := h.Courts.ListByVenue(ctx, venueID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load courts"})
	}
	items := make([]courtResp, 0, len(courts))
	for _, ct := range courts {
		items = append(items, courtResp{
			ID: ct.ID, VenueID: ct.VenueID, Name: ct.Name, SportType: ct.SportType,
			PricePerHourCents: ct.PricePerHourCents, OpenTime: ct.OpenTime, CloseTime: ct.CloseTime,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AvailableSlots handles
// GET /api/public/courts/:courtId/available-slots?date=YYYY-MM-DD.
// It resolves the court's operating window (06:00–22:00 by default),
// subtracts the non-cancelled bookings and blocked slots of the date and
// returns the free hourly intervals priced at the court's hourly rate,
// unless a slot record carries a price override for the exact interval.
func (h *PublicHandler) AvailableSlots(c echo.Context) error {
	courtID, ok := pathID(c, "courtId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	date := c.QueryParam("date")
	if !schedule.ValidDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	court, err := h.Courts.GetPublic(ctx, courtID)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load court"})
	}

	open, clos, err := operatingWindow(court)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid operating hours"})
	}

	bookings, err := h.Bookings.ListForDate(ctx, courtID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	blocked, err := h.Slots.BlockedForDate(ctx, courtID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load blocked slots"})
	}

	busy := make([]schedule.Interval, 0, len(bookings)+len(blocked))
	for _, b := range bookings {
		iv, err := toInterval(b.StartTime, b.EndTime)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "corrupt booking interval"})
		}
		busy = append(busy, iv)
	}
	overrides := make(map[schedule.Interval]uint32)
	for _, s := range blocked {
		iv, err := toInterval(s.StartTime, s.EndTime)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "corrupt slot interval"})
		}
		busy = append(busy, iv)
	}
	// Price overrides may exist on unblocked slot rows too.
	allSlots, err := h.Slots.ListForDate(ctx, courtID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	for _, s := range allSlots {
		if s.PriceOverrideCents == nil {
			continue
		}
		if iv, err := toInterval(s.StartTime, s.EndTime); err == nil {
			overrides[iv] = *s.PriceOverrideCents
		}
	}

	avail := schedule.Annotate(schedule.Available(open, clos, busy), court.PricePerHourCents, overrides)
	items := make([]slotResp, 0, len(avail))
	for _, s := range avail {
		items = append(items, slotResp{
			StartTime:         schedule.FormatClock(s.Start),
			EndTime:           schedule.FormatClock(s.End),
			PricePerHourCents: s.PriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"courtId": courtID,
		"date":    date,
		"slots":   items,
	})
}

// operatingWindow resolves a court's open/close minutes, applying the
// default window when either bound is unset.
func operatingWindow(court *model.Court) (int, int, error) {
	open, clos := schedule.DefaultOpenMinutes, schedule.DefaultCloseMinutes
	if court.OpenTime != nil {
		m, err := schedule.ParseClock(*court.OpenTime)
		if err != nil {
			return 0, 0, err
		}
		open = m
	}
	if court.CloseTime != nil {
		m, err := schedule.ParseClock(*court.CloseTime)
		if err != nil {
			return 0, 0, err
		}
		clos = m
	}
	return open, clos, nil
}

func toInterval(start, end string) (schedule.Interval, error) {
	s, err := schedule.ParseClock(start)
	if err != nil {
		return schedule.Interval{}, err
	}
	e, err := schedule.ParseClock(end)
	if err != nil {
		return schedule.Interval{}, err
	}
	return schedule.Interval{Start: s, End: e}, nil
}
