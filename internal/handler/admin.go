package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quickcourt/quickcourt-backend/internal/model"
	"github.com/quickcourt/quickcourt-backend/internal/repository"
)

// AdminHandler moderates the platform: venue approval and account bans.
type AdminHandler struct {
	Venues *repository.VenueRepo
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAdminHandler(venues *repository.VenueRepo, users *repository.UserRepo, tokens *repository.TokenRepo) *AdminHandler {
	if venues == nil || users == nil || tokens == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Venues: venues, Users: users, Tokens: tokens}
}

type adminUserResp struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Verified bool   `json:"verified"`
}

// ListVenues handles GET /api/admin/venues?status=pending.  Without a
// status filter pending venues are returned, the moderation inbox.
func (h *AdminHandler) ListVenues(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = model.VenuePending
	}
	switch status {
	case model.VenuePending, model.VenueApproved, model.VenueRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	venues, err := h.Venues.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load venues"})
	}
	items := make([]ownerVenueResp, 0, len(venues))
	for i := range venues {
		items = append(items, toOwnerVenueResp(&venues[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ApproveVenue handles PATCH /api/admin/venues/:venueId/approve.
func (h *AdminHandler) ApproveVenue(c echo.Context) error {
	return h.setVenueStatus(c, model.VenueApproved)
}

// RejectVenue handles PATCH /api/admin/venues/:venueId/reject.
func (h *AdminHandler) RejectVenue(c echo.Context) error {
	return h.setVenueStatus(c, model.VenueRejected)
}

func (h *AdminHandler) setVenueStatus(c echo.Context, status string) error {
	venueID, ok := pathID(c, "venueId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	if err := h.Venues.SetStatus(c.Request().Context(), venueID, status); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update venue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status})
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	items := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		items = append(items, adminUserResp{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role, Status: u.Status, Verified: u.Verified})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// BanUser handles PATCH /api/admin/users/:userId/ban.  Banning also revokes
// every live refresh token so the account cannot mint new access tokens.
func (h *AdminHandler) BanUser(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx := c.Request().Context()
	if err := h.Users.SetStatus(ctx, userID, model.UserBanned); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
		log.Printf("admin: revoking tokens for banned user %d failed: %v", userID, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.UserBanned})
}

// UnbanUser handles PATCH /api/admin/users/:userId/unban.
func (h *AdminHandler) UnbanUser(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.Users.SetStatus(c.Request().Context(), userID, model.UserActive); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.UserActive})
}
