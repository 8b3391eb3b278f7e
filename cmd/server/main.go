package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/asterstay/hotel-booking/internal/config"
	"github.com/asterstay/hotel-booking/internal/database"
	"github.com/asterstay/hotel-booking/internal/handler"
	"github.com/asterstay/hotel-booking/internal/middleware"
	"github.com/asterstay/hotel-booking/internal/queue"
	"github.com/asterstay/hotel-booking/internal/repository"
	"github.com/asterstay/hotel-booking/internal/router"
	"github.com/asterstay/hotel-booking/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: with no client the cache and rate limiter
	// middleware pass requests straight through.
	rdb := config.NewRedisClient()

	hotels := repository.NewHotelRepo(db)
	inventory := repository.NewInventoryRepo(db)
	reservations := repository.NewReservationRepo(db)

	provisioner := service.NewProvisioner(db, hotels, inventory, reservations, cfg.HorizonMonths)
	checker := service.NewAvailabilityChecker(inventory, hotels)
	booking := service.NewReservationService(db, reservations, inventory, hotels)

	hotelHandler := handler.NewHotelHandler(provisioner, hotels, cfg.HorizonMonths)
	availabilityHandler := handler.NewAvailabilityHandler(checker)
	reservationHandler := handler.NewReservationHandler(booking, hotels)

	e := echo.New()
	e.HideBanner = true

	getMiddleware := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}

	router.RegisterRoutes(e)
	router.RegisterHotels(e, hotelHandler, getMiddleware...)
	router.RegisterAvailability(e, availabilityHandler, getMiddleware...)
	router.RegisterReservations(e, reservationHandler, getMiddleware...)

	// Background consumer records reservation lifecycle events; it
	// reconnects on broker failures and never blocks the API.
	go queue.StartReservationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
