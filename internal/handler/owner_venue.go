package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quickcourt/quickcourt-backend/internal/model"
	"github.com/quickcourt/quickcourt-backend/internal/repository"
	"github.com/quickcourt/quickcourt-backend/internal/schedule"
)

// OwnerVenueHandler serves the venue-management surface for OWNER accounts:
// venue and court CRUD plus per-venue booking listings.  Every operation is
// scoped to the authenticated owner; touching another owner's venue yields
// 403.
type OwnerVenueHandler struct {
	Venues   *repository.VenueRepo
	Courts   *repository.CourtRepo
	Bookings *repository.BookingRepo
}

func NewOwnerVenueHandler(venues *repository.VenueRepo, courts *repository.CourtRepo, bookings *repository.BookingRepo) *OwnerVenueHandler {
	if venues == nil || courts == nil || bookings == nil {
		panic("nil repository passed to NewOwnerVenueHandler")
	}
	return &OwnerVenueHandler{Venues: venues, Courts: courts, Bookings: bookings}
}

type venueReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
}

type ownerVenueResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Status      string  `json:"status"`
}

func toOwnerVenueResp(v *model.Venue) ownerVenueResp {
	return ownerVenueResp{ID: v.ID, Name: v.Name, Description: v.Description, Address: v.Address, City: v.City, Status: v.Status}
}

// CreateVenue handles POST /api/venue-management/venues.  New venues start
// pending and stay off the public surface until an admin approves them.
func (h *OwnerVenueHandler) CreateVenue(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req venueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.Address == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, address and city are required"})
	}
	venue := &model.Venue{OwnerID: ownerID, Name: req.Name, Description: req.Description, Address: req.Address, City: req.City}
	if err := h.Venues.Create(c.Request().Context(), venue); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create venue"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toOwnerVenueResp(venue)})
}

// ListVenues handles GET /api/venue-management/venues and returns the
// caller's venues in every approval state.
func (h *OwnerVenueHandler) ListVenues(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venues, err := h.Venues.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venues"})
	}
	items := make([]ownerVenueResp, 0, len(venues))
	for i := range venues {
		items = append(items, toOwnerVenueResp(&venues[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetVenue handles GET /api/venue-management/venues/:venueId.
func (h *OwnerVenueHandler) GetVenue(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venue, httpErr := h.loadOwnVenue(c, ownerID)
	if httpErr != nil {
		return httpErr
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toOwnerVenueResp(venue)})
}

// UpdateVenue handles PATCH /api/venue-management/venues/:venueId.  All
// fields are written as supplied; the approval status is admin territory
// and never touched here.
func (h *OwnerVenueHandler) UpdateVenue(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venue, httpErr := h.loadOwnVenue(c, ownerID)
	if httpErr != nil {
		return httpErr
	}
	var req venueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name != "" {
		venue.Name = req.Name
	}
	if req.Description != nil {
		venue.Description = req.Description
	}
	if req.Address != "" {
		venue.Address = req.Address
	}
	if req.City != "" {
		venue.City = req.City
	}
	if err := h.Venues.Update(c.Request().Context(), ownerID, venue); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update venue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toOwnerVenueResp(venue)})
}

type courtReq struct {
	Name              string  `json:"name"`
	SportType         string  `json:"sportType"`
	PricePerHourCents *uint32 `json:"pricePerHourCents"`
	OpenTime          *string `json:"openTime"`
	CloseTime         *string `json:"closeTime"`
	Active            *bool   `json:"active"`
}

// validateHours checks an optional operating window: both bounds HH:MM with
// close after open, or both absent.
func validateHours(open, close *string) string {
	if open == nil && close == nil {
		return ""
	}
	if open == nil || close == nil {
		return "openTime and closeTime must be set together"
	}
	if !schedule.ValidClock(*open) || !schedule.ValidClock(*close) {
		return "openTime and closeTime must be HH:MM"
	}
	o, _ := schedule.ParseClock(*open)
	cl, _ := schedule.ParseClock(*close)
	if cl <= o {
		return "closeTime must be after openTime"
	}
	return ""
}

// CreateCourt handles POST /api/venue-management/venues/:venueId/courts.
func (h *OwnerVenueHandler) CreateCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venue, httpErr := h.loadOwnVenue(c, ownerID)
	if httpErr != nil {
		return httpErr
	}
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.SportType == "" || req.PricePerHourCents == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, sportType and pricePerHourCents are required"})
	}
	if msg := validateHours(req.OpenTime, req.CloseTime); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	court := &model.Court{
		VenueID:           venue.ID,
		Name:              req.Name,
		SportType:         req.SportType,
		PricePerHourCents: *req.PricePerHourCents,
		OpenTime:          req.OpenTime,
		CloseTime:         req.CloseTime,
		Active:            true,
	}
	if req.Active != nil {
		court.Active = *req.Active
	}
	if err := h.Courts.Create(c.Request().Context(), court); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create court"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toOwnerCourtResp(court)})
}

type ownerCourtResp struct {
	ID                uint64  `json:"id"`
	VenueID           uint64  `json:"venueId"`
	Name              string  `json:"name"`
	SportType         string  `json:"sportType"`
	PricePerHourCents uint32  `json:"pricePerHourCents"`
	OpenTime          *string `json:"openTime,omitempty"`
	CloseTime         *string `json:"closeTime,omitempty"`
	Active            bool    `json:"active"`
}

func toOwnerCourtResp(ct *model.Court) ownerCourtResp {
	return ownerCourtResp{
		ID:                ct.ID,
		VenueID:           ct.VenueID,
		Name:              ct.Name,
		SportType:         ct.SportType,
		PricePerHourCents: ct.PricePerHourCents,
		OpenTime:          ct.OpenTime,
		CloseTime:         ct.CloseTime,
		Active:            ct.Active,
	}
}

// ListCourts handles GET /api/venue-management/venues/:venueId/courts,
// including inactive courts the public surface hides.
func (h *OwnerVenueHandler) ListCourts(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venue, httpErr := h.loadOwnVenue(c, ownerID)
	if httpErr != nil {
		return httpErr
	}
	courts, err := h.Courts.ListByVenue(c.Request().Context(), venue.ID, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load courts"})
	}
	items := make([]ownerCourtResp, 0, len(courts))
	for i := range courts {
		items = append(items, toOwnerCourtResp(&courts[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateCourt handles PATCH .../venues/:venueId/courts/:courtId.
func (h *OwnerVenueHandler) UpdateCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	court, httpErr := h.loadOwnCourt(c, ownerID)
	if httpErr != nil {
		return httpErr
	}
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name != "" {
		court.Name = req.Name
	}
	if req.SportType != "" {
		court.SportType = req.SportType
	}
	if req.PricePerHourCents != nil {
		court.PricePerHourCents = *req.PricePerHourCents
	}
	if req.OpenTime != nil || req.CloseTime != nil {
		if msg := validateHours(req.OpenTime, req.CloseTime); msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		court.OpenTime = req.OpenTime
		court.CloseTime = req.CloseTime
	}
	if req.Active != nil {
		court.Active = *req.Active
	}
	if err := h.Courts.Update(c.Request().Context(), court); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update court"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toOwnerCourtResp(court)})
}

// ListVenueBookings handles GET .../venues/:venueId/bookings, the owner's
// view of all bookings across the venue's courts.
func (h *OwnerVenueHandler) ListVenueBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venueID, ok := pathID(c, "venueId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	details, err := h.Bookings.ListByVenueForOwner(c.Request().Context(), venueID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]bookingResp, 0, len(details))
	for _, d := range details {
		items = append(items, toBookingDetailResp(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CompleteBooking handles PATCH .../venues/:venueId/bookings/:bookingId/
// complete, moving a confirmed booking to completed after it was played.
func (h *OwnerVenueHandler) CompleteBooking(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venue, httpErr := h.loadOwnVenue(c, ownerID)
	if httpErr != nil {
		return httpErr
	}
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	booking, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if booking.VenueID != venue.ID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if booking.Status != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only confirmed bookings can be completed"})
	}
	if err := h.Bookings.SetStatus(ctx, bookingID, model.BookingCompleted, nil); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	booking.Status = model.BookingCompleted
	return c.JSON(http.StatusOK, echo.Map{"item": toBookingResp(booking)})
}

// loadOwnVenue resolves :venueId and checks ownership.
func (h *OwnerVenueHandler) loadOwnVenue(c echo.Context, ownerID uint64) (*model.Venue, error) {
	venueID, ok := pathID(c, "venueId")
	if !ok {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	venue, err := h.Venues.GetByID(c.Request().Context(), venueID)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venue"})
	}
	if venue.OwnerID != ownerID {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return venue, nil
}

// loadOwnCourt resolves :courtId and checks it belongs to the caller's
// :venueId venue.
func (h *OwnerVenueHandler) loadOwnCourt(c echo.Context, ownerID uint64) (*model.Court, error) {
	venue, httpErr := h.loadOwnVenue(c, ownerID)
	if httpErr != nil {
		return nil, httpErr
	}
	courtID, ok := pathID(c, "courtId")
	if !ok {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	court, err := h.Courts.GetByID(c.Request().Context(), courtID)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load court"})
	}
	if court.VenueID != venue.ID {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
	}
	return court, nil
}
