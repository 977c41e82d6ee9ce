package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsHttp "telemetry-analytics-service/internal/analytics/adapters/http/fiber"
	analyticsRepoPg "telemetry-analytics-service/internal/analytics/adapters/postgres"
	analyticsUsecase "telemetry-analytics-service/internal/analytics/core/usecase"

	eventsHttp "telemetry-analytics-service/internal/events/adapters/http/fiber"
	eventsRepoPg "telemetry-analytics-service/internal/events/adapters/postgres"
	eventsUsecase "telemetry-analytics-service/internal/events/core/usecase"

	"telemetry-analytics-service/internal/config"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "telemetry-analytics-service/docs"
)

// @title Telemetry Analytics Service API
// @version 1.0
// @description Derived metrics, sessions, cohorts and anomaly signals over an audit event log
// @BasePath /
func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	// DB connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open postgres: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping postgres: %v", err)
	}

	// Adapter-level DB wrappers
	eventsDB := eventsRepoPg.NewSQLDB(db)
	analyticsDB := analyticsRepoPg.NewSQLDB(db)

	// Repositories
	eventRepository := eventsRepoPg.NewEventRepository(eventsDB)
	eventReader := analyticsRepoPg.NewEventReader(analyticsDB)

	// Usecases
	storeEventUC := eventsUsecase.NewStoreEventUseCase(eventRepository)
	runReportUC := analyticsUsecase.NewRunReportUseCase(eventReader, cfg.Settings())

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	// events endpoints
	eventsHandler := eventsHttp.NewEventHandler(storeEventUC)
	app.Post("/events", eventsHandler.CreateEvent)
	app.Post("/events/bulk", eventsHandler.BulkCreateEvents)

	// report endpoint
	reportHandler := analyticsHttp.NewReportHandler(runReportUC)
	app.Get("/reports/usage", reportHandler.GetUsageReport)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Printf("fiber stopped: %v", err)
		}
	}()

	log.Printf("server started on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("fiber shutdown error: %v", err)
	}

	log.Println("server exiting")
}
