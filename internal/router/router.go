// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/quickcourt/quickcourt-backend/internal/config"
	"github.com/quickcourt/quickcourt-backend/internal/handler"
	"github.com/quickcourt/quickcourt-backend/internal/middleware"
)

// Handlers bundles every handler the API needs so registration stays a
// single call from main.
type Handlers struct {
	Auth     *handler.AuthHandler
	Public   *handler.PublicHandler
	Bookings *handler.BookingHandler
	Owner    *handler.OwnerVenueHandler
	Slots    *handler.OwnerSlotHandler
	Admin    *handler.AdminHandler
}

// Register mounts the whole API surface.  The rate limiter covers every
// /api route; the response cache covers only the public browse routes.
// Both pass through untouched when Redis is not available.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client, rlCfg config.RateLimitConfig, cacheCfg config.CacheConfig) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.Use(middleware.RateLimit(rlCfg, rdb))

	registerPublic(api, h.Public, cacheCfg, rdb)
	registerAuth(api, h.Auth, jwtSecret)
	registerBookings(api, h.Bookings, jwtSecret)
	registerVenueManagement(api, h.Owner, h.Slots, jwtSecret)
	registerAdmin(api, h.Admin, jwtSecret)
}

func registerPublic(api *echo.Group, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	pub := api.Group("/public")
	pub.Use(middleware.ResponseCache(cacheCfg, rdb))
	pub.GET("/venues", p.ListVenues)
	pub.GET("/venues/:venueId", p.GetVenue)
	pub.GET("/venues/:venueId/courts", p.ListCourts)
	pub.GET("/courts/:courtId/available-slots", p.AvailableSlots)
}

func registerAuth(api *echo.Group, a *handler.AuthHandler, jwtSecret string) {
	auth := api.Group("/auth")
	auth.POST("/register", a.Register)
	auth.POST("/verify-otp", a.VerifyOTP)
	auth.POST("/login", a.Login)
	auth.POST("/refresh", a.Refresh)
	auth.POST("/logout", a.Logout)

	me := api.Group("")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

func registerBookings(api *echo.Group, b *handler.BookingHandler, jwtSecret string) {
	g := api.Group("/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("USER", "OWNER"))
	g.POST("", b.Create)
	g.GET("", b.List)
	g.GET("/:bookingId", b.Get)
	g.PATCH("/:bookingId/cancel", b.Cancel)
	g.PATCH("/:bookingId/reschedule", b.Reschedule)
}

func registerVenueManagement(api *echo.Group, o *handler.OwnerVenueHandler, s *handler.OwnerSlotHandler, jwtSecret string) {
	g := api.Group("/venue-management")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER"))

	g.POST("/venues", o.CreateVenue)
	g.GET("/venues", o.ListVenues)
	g.GET("/venues/:venueId", o.GetVenue)
	g.PATCH("/venues/:venueId", o.UpdateVenue)

	g.POST("/venues/:venueId/courts", o.CreateCourt)
	g.GET("/venues/:venueId/courts", o.ListCourts)
	g.PATCH("/venues/:venueId/courts/:courtId", o.UpdateCourt)

	g.GET("/venues/:venueId/bookings", o.ListVenueBookings)
	g.PATCH("/venues/:venueId/bookings/:bookingId/complete", o.CompleteBooking)

	g.POST("/venues/:venueId/courts/:courtId/time-slots", s.GenerateSlots)
	g.GET("/venues/:venueId/courts/:courtId/time-slots", s.ListSlots)
	g.POST("/venues/:venueId/courts/:courtId/block-slots", s.BlockSlots)
	g.POST("/venues/:venueId/courts/:courtId/unblock-slots", s.UnblockSlots)
}

func registerAdmin(api *echo.Group, a *handler.AdminHandler, jwtSecret string) {
	g := api.Group("/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.GET("/venues", a.ListVenues)
	g.PATCH("/venues/:venueId/approve", a.ApproveVenue)
	g.PATCH("/venues/:venueId/reject", a.RejectVenue)
	g.GET("/users", a.ListUsers)
	g.PATCH("/users/:userId/ban", a.BanUser)
	g.PATCH("/users/:userId/unban", a.UnbanUser)
}
