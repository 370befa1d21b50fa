package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/guardtrack/patrol-api/internal/config"     // Internal config loader
	"github.com/guardtrack/patrol-api/internal/database"   // MySQL connection pool
	"github.com/guardtrack/patrol-api/internal/handler"    // HTTP handlers
	"github.com/guardtrack/patrol-api/internal/middleware" // Cache and rate limit middleware
	"github.com/guardtrack/patrol-api/internal/queue"      // RabbitMQ publisher/consumer
	"github.com/guardtrack/patrol-api/internal/repository" // DB repositories
	"github.com/guardtrack/patrol-api/internal/router"     // Route registration
	"github.com/guardtrack/patrol-api/internal/service"    // Domain services
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config

	// Open the MySQL pool once; it is shared by every repository.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis backs the response cache and the rate limiter. A nil client
	// disables both; the service still runs without Redis.
	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	companies := repository.NewCompanyRepo(db)
	sites := repository.NewSiteRepo(db)
	areas := repository.NewAreaRepo(db)
	points := repository.NewPointRepo(db)
	logs := repository.NewPatrolLogRepo(db)

	// Services and handlers
	patrolSvc := service.NewPatrolService(points, areas, sites, logs)
	authH := handler.NewAuthHandler(cfg, users, tokens)
	adminH := handler.NewAdminHandler(companies, sites, areas, points)
	patrolH := handler.NewPatrolHandler(patrolSvc)
	reportH := handler.NewReportHandler(logs, points, areas, sites)

	// Background consumer mirrors patrol events into logs/patrol.log. It
	// reconnects forever on its own; a missing broker never blocks startup.
	go func() {
		if err := queue.StartPatrolConsumer(); err != nil {
			log.Printf("patrol consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret, rateMW)
	router.RegisterPatrol(e, patrolH, cfg.JWTSecret, rateMW)
	router.RegisterReports(e, reportH, cfg.JWTSecret, cacheMW, rateMW)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
