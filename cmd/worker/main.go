// Worker consumes audit events from Kafka and persists them through the
// store usecase. Set KAFKA_BROKERS, KAFKA_TOPIC, KAFKA_GROUP_ID and
// DATABASE_URL.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telemetry-analytics-service/internal/config"
	eventsKafka "telemetry-analytics-service/internal/events/adapters/kafka"
	eventsRepoPg "telemetry-analytics-service/internal/events/adapters/postgres"
	eventsUsecase "telemetry-analytics-service/internal/events/core/usecase"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open postgres: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping postgres: %v", err)
	}

	storeUC := eventsUsecase.NewStoreEventUseCase(
		eventsRepoPg.NewEventRepository(eventsRepoPg.NewSQLDB(db)),
	)

	consumer := eventsKafka.NewConsumer(brokers, cfg.KafkaTopic, cfg.KafkaGroupID, storeUC)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: consuming from %s (group %s)", cfg.KafkaTopic, cfg.KafkaGroupID)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker: %v", err)
	}

	log.Println("worker: stopped")
}
