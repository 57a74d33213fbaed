package handler // handler implements the HTTP layer on top of the repositories

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quickcourt/quickcourt-backend/internal/queue"
)

// EventPublisher abstracts the booking event pipeline so handlers can be
// tested without a broker.  The AMQP implementation lives in
// internal/service; publishing is always best effort.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event queue.BookingEvent) error
}

// getUserID extracts the authenticated user id placed into the context by
// the JWT middleware.  The claim arrives as whatever type the JSON decoder
// produced, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
