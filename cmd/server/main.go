package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/quickcourt/quickcourt-backend/internal/config"
	"github.com/quickcourt/quickcourt-backend/internal/database"
	"github.com/quickcourt/quickcourt-backend/internal/handler"
	"github.com/quickcourt/quickcourt-backend/internal/queue"
	"github.com/quickcourt/quickcourt-backend/internal/repository"
	"github.com/quickcourt/quickcourt-backend/internal/router"
	queue_publisher "github.com/quickcourt/quickcourt-backend/internal/service"
)

func main() {
	// .env is a development convenience; in production everything comes
	// from the real environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; callers degrade

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	otps := repository.NewOTPRepo(rdb, time.Duration(cfg.OTPTTLMin)*time.Minute)
	venues := repository.NewVenueRepo(db)
	courts := repository.NewCourtRepo(db)
	bookings := repository.NewBookingRepo(db)
	slots := repository.NewTimeSlotRepo(db)

	publisher := &queue_publisher.Publisher{}

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens, otps),
		Public:   handler.NewPublicHandler(venues, courts, bookings, slots),
		Bookings: handler.NewBookingHandler(bookings, courts, publisher),
		Owner:    handler.NewOwnerVenueHandler(venues, courts, bookings),
		Slots:    handler.NewOwnerSlotHandler(venues, courts, slots),
		Admin:    handler.NewAdminHandler(venues, users, tokens),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg.JWTSecret, rdb, config.LoadRateLimitConfig(), config.LoadCacheConfig())

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue: consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
