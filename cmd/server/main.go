package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/equipment-rental/internal/config"     // Internal config loader
	"github.com/iliyamo/equipment-rental/internal/database"   // MySQL connection pool
	"github.com/iliyamo/equipment-rental/internal/handler"    // HTTP handlers
	"github.com/iliyamo/equipment-rental/internal/jobs"       // cron jobs (pickup reminders)
	"github.com/iliyamo/equipment-rental/internal/middleware" // cache + rate-limit middleware
	"github.com/iliyamo/equipment-rental/internal/queue"      // notification consumer
	"github.com/iliyamo/equipment-rental/internal/repository" // data access layer
	"github.com/iliyamo/equipment-rental/internal/router"     // route registration
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Open the MySQL pool and fail fast when the database is unreachable.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  A nil client
	// disables both rather than blocking startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	warehouses := repository.NewWarehouseRepo(db)
	equipment := repository.NewEquipmentRepo(db)
	orders := repository.NewOrderRepo(db)
	slots := repository.NewTimeSlotRepo(db)
	consent := repository.NewConsentRepo(db)
	audit := repository.NewAuditRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	studentOrders := handler.NewStudentOrderHandler(orders, users, equipment, consent)
	manageOrders := handler.NewManageOrderHandler(orders, users, audit)
	equipmentH := handler.NewEquipmentHandler(equipment, warehouses, users, audit)
	hoursH := handler.NewHoursHandler(slots, warehouses, users, audit)
	userAdmin := handler.NewUserAdminHandler(cfg, users, warehouses, tokens, audit)
	consentH := handler.NewConsentHandler(consent, users, audit)
	auditH := handler.NewAuditHandler(audit)

	// Optional Redis-backed middleware for the public browse routes and
	// order submission.
	var cacheMW, rateMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		rateMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	e := echo.New() // Create Echo instance

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, equipmentH, hoursH, cacheMW)
	router.RegisterStudent(e, studentOrders, consentH, cfg.JWTSecret, rateMW)
	router.RegisterManage(e, router.ManageHandlers{
		Orders:    manageOrders,
		Equipment: equipmentH,
		Hours:     hoursH,
		Users:     userAdmin,
		Consent:   consentH,
		Audit:     auditH,
	}, cfg.JWTSecret)

	// The notification consumer drains decision and reminder events into
	// the notification log.  It reconnects on failure and never stops
	// the server.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer: %v", err)
		}
	}()

	// Daily pickup reminders.
	scheduler := jobs.NewScheduler(orders, users)
	scheduler.Start()
	defer scheduler.Stop()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
