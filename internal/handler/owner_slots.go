package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quickcourt/quickcourt-backend/internal/model"
	"github.com/quickcourt/quickcourt-backend/internal/schedule"
)

// SlotStore is the slice of TimeSlotRepo the slot handler needs, declared
// at the consumer so tests can supply a fake.
type SlotStore interface {
	GenerateForDate(ctx context.Context, courtID uint64, date string, slots []model.TimeSlot) error
	ListForDate(ctx context.Context, courtID uint64, date string) ([]model.TimeSlot, error)
	Block(ctx context.Context, courtID uint64, date, start, end string, reason *string) error
	Unblock(ctx context.Context, courtID uint64, date, start, end string) (int64, error)
	BlockByIDs(ctx context.Context, courtID uint64, ids []uint64, reason *string) (int64, error)
	UnblockByIDs(ctx context.Context, courtID uint64, ids []uint64) (int64, error)
}

// VenueOwnerStore resolves venue ownership for path checks.
type VenueOwnerStore interface {
	OwnerOf(ctx context.Context, id uint64) (uint64, error)
}

// CourtByIDStore loads courts regardless of venue approval state.
type CourtByIDStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Court, error)
}

// OwnerSlotHandler manages the per-date slot grid: generating slot records
// from a court's operating hours and blocking or unblocking individual
// slots for maintenance.  Blocking is append-only metadata over the grid;
// it never touches existing bookings.
type OwnerSlotHandler struct {
	Venues VenueOwnerStore
	Courts CourtByIDStore
	Slots  SlotStore
}

func NewOwnerSlotHandler(venues VenueOwnerStore, courts CourtByIDStore, slots SlotStore) *OwnerSlotHandler {
	if venues == nil || courts == nil || slots == nil {
		panic("nil store passed to NewOwnerSlotHandler")
	}
	return &OwnerSlotHandler{Venues: venues, Courts: courts, Slots: slots}
}

type generateSlotsReq struct {
	Date               string  `json:"date"`
	PriceOverrideCents *uint32 `json:"priceOverrideCents"`
}

type slotTuple struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type blockSlotsReq struct {
	SlotIDs []uint64    `json:"slotIds"`
	Slots   []slotTuple `json:"slots"`
	Reason  *string     `json:"reason"`
}

type ownerSlotResp struct {
	ID                 uint64  `json:"id"`
	Date               string  `json:"date"`
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	Blocked            bool    `json:"blocked"`
	BlockReason        *string `json:"blockReason,omitempty"`
	PriceOverrideCents *uint32 `json:"priceOverrideCents,omitempty"`
}

// GenerateSlots handles POST .../courts/:courtId/time-slots.  It inserts
// hourly slot rows covering the court's operating window for the given
// date; rows that already exist keep their state.
func (h *OwnerSlotHandler) GenerateSlots(c echo.Context) error {
	court, httpErr := h.resolveCourt(c)
	if httpErr != nil {
		return httpErr
	}
	var req generateSlotsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !schedule.ValidDate(req.Date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	open, clos, err := operatingWindow(court)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "corrupt court operating hours"})
	}
	grid := schedule.HourlySlots(open, clos)
	rows := make([]model.TimeSlot, 0, len(grid))
	for _, iv := range grid {
		rows = append(rows, model.TimeSlot{
			CourtID:            court.ID,
			Date:               req.Date,
			StartTime:          schedule.FormatClock(iv.Start),
			EndTime:            schedule.FormatClock(iv.End),
			PriceOverrideCents: req.PriceOverrideCents,
		})
	}

	ctx := c.Request().Context()
	if err := h.Slots.GenerateForDate(ctx, court.ID, req.Date, rows); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate slots"})
	}
	stored, err := h.Slots.ListForDate(ctx, court.ID, req.Date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"items": toSlotResps(stored)})
}

// ListSlots handles GET .../courts/:courtId/time-slots?date=YYYY-MM-DD.
func (h *OwnerSlotHandler) ListSlots(c echo.Context) error {
	court, httpErr := h.resolveCourt(c)
	if httpErr != nil {
		return httpErr
	}
	date := c.QueryParam("date")
	if !schedule.ValidDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	stored, err := h.Slots.ListForDate(c.Request().Context(), court.ID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slots"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toSlotResps(stored)})
}

// BlockSlots handles POST .../courts/:courtId/block-slots.  Targets may be
// given as slot record ids or as explicit (date, startTime, endTime)
// tuples; tuples upsert the slot row when it does not exist yet.
func (h *OwnerSlotHandler) BlockSlots(c echo.Context) error {
	court, httpErr := h.resolveCourt(c)
	if httpErr != nil {
		return httpErr
	}
	var req blockSlotsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.SlotIDs) == 0 && len(req.Slots) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotIds or slots is required"})
	}
	if msg := validateTuples(req.Slots); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	var blocked int64
	if len(req.SlotIDs) > 0 {
		n, err := h.Slots.BlockByIDs(ctx, court.ID, req.SlotIDs, req.Reason)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to block slots"})
		}
		blocked += n
	}
	for _, tup := range req.Slots {
		if err := h.Slots.Block(ctx, court.ID, tup.Date, tup.StartTime, tup.EndTime, req.Reason); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to block slots"})
		}
		blocked++
	}
	return c.JSON(http.StatusOK, echo.Map{"blocked": blocked})
}

// UnblockSlots handles POST .../courts/:courtId/unblock-slots.  Unblocking
// a slot that is not blocked is a no-op.
func (h *OwnerSlotHandler) UnblockSlots(c echo.Context) error {
	court, httpErr := h.resolveCourt(c)
	if httpErr != nil {
		return httpErr
	}
	var req blockSlotsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.SlotIDs) == 0 && len(req.Slots) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotIds or slots is required"})
	}
	if msg := validateTuples(req.Slots); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	var unblocked int64
	if len(req.SlotIDs) > 0 {
		n, err := h.Slots.UnblockByIDs(ctx, court.ID, req.SlotIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to unblock slots"})
		}
		unblocked += n
	}
	for _, tup := range req.Slots {
		n, err := h.Slots.Unblock(ctx, court.ID, tup.Date, tup.StartTime, tup.EndTime)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to unblock slots"})
		}
		unblocked += n
	}
	return c.JSON(http.StatusOK, echo.Map{"unblocked": unblocked})
}

func validateTuples(tuples []slotTuple) string {
	for _, tup := range tuples {
		if !schedule.ValidDate(tup.Date) {
			return "slot date must be YYYY-MM-DD"
		}
		if !schedule.ValidClock(tup.StartTime) || !schedule.ValidClock(tup.EndTime) {
			return "slot times must be HH:MM"
		}
		s, _ := schedule.ParseClock(tup.StartTime)
		e, _ := schedule.ParseClock(tup.EndTime)
		if e <= s {
			return "slot endTime must be after startTime"
		}
	}
	return ""
}

func toSlotResps(slots []model.TimeSlot) []ownerSlotResp {
	items := make([]ownerSlotResp, 0, len(slots))
	for _, s := range slots {
		items = append(items, ownerSlotResp{
			ID:                 s.ID,
			Date:               s.Date,
			StartTime:          s.StartTime,
			EndTime:            s.EndTime,
			Blocked:            s.Blocked,
			BlockReason:        s.BlockReason,
			PriceOverrideCents: s.PriceOverrideCents,
		})
	}
	return items
}

// resolveCourt checks ownership down the path chain: the caller must own
// :venueId and :courtId must belong to it.
func (h *OwnerSlotHandler) resolveCourt(c echo.Context) (*model.Court, error) {
	ownerID, err := getUserID(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venueID, ok := pathID(c, "venueId")
	if !ok {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	courtID, ok := pathID(c, "courtId")
	if !ok {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	ctx := c.Request().Context()
	owner, err := h.Venues.OwnerOf(ctx, venueID)
	if err != nil {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}
	if owner != ownerID {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	court, err := h.Courts.GetByID(ctx, courtID)
	if err != nil {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
	}
	if court.VenueID != venueID {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
	}
	return court, nil
}
