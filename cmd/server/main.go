package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/config"
	"github.com/moviehouse/seat-inventory/internal/database"
	"github.com/moviehouse/seat-inventory/internal/handler"
	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/middleware"
	"github.com/moviehouse/seat-inventory/internal/queue"
	"github.com/moviehouse/seat-inventory/internal/repository"
	"github.com/moviehouse/seat-inventory/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiter disabled")
	}

	users := repository.NewUserRepo(db)
	halls := repository.NewHallRepo(db)
	movies := repository.NewMovieRepo(db)
	windows := repository.NewWindowRepo(db)
	sessions := repository.NewSessionRepo(db)
	orders := repository.NewOrderRepo(db)
	engine := inventory.NewEngine(orders)

	authH := handler.NewAuthHandler(cfg, users)
	staffH := handler.NewStaffHandler(halls, movies, windows, sessions)
	publicH := handler.NewPublicHandler(movies, halls, sessions, orders)
	customerH := handler.NewCustomerHandler(engine, orders, sessions, true)

	e := echo.New()
	e.HideBanner = true

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiterMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW)
	router.RegisterStaff(e, staffH, cfg.JWTSecret)
	router.RegisterCustomer(e, customerH, cfg.JWTSecret, limiterMW)

	// Drains order.created into logs/orders.log; reconnects on its own.
	go queue.StartOrderConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
