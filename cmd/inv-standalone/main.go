package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/product-inventory/internal/config"
	"github.com/tuanvumaihuynh/product-inventory/internal/event"
	"github.com/tuanvumaihuynh/product-inventory/internal/http"
	"github.com/tuanvumaihuynh/product-inventory/internal/log"
	"github.com/tuanvumaihuynh/product-inventory/internal/relay"
	"github.com/tuanvumaihuynh/product-inventory/internal/repository"
	"github.com/tuanvumaihuynh/product-inventory/internal/service"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db/sqlc"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/mq"
	"github.com/tuanvumaihuynh/product-inventory/internal/telemetry"
	"github.com/tuanvumaihuynh/product-inventory/pkg/cmdutil"
)

type Config struct {
	Log      config.Log
	Postgres config.Postgres
	HTTP     config.HTTP
	Relay    config.Relay
	Kafka    config.Kafka
	Otel     config.Otel
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

// run serves the HTTP API, relays the outbox and consumes product events in
// one process until SIGINT or SIGTERM.
func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.WithoutCancel(ctx)); err != nil {
			logger.ErrorContext(ctx, "error shutting down tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)
	queries := *sqlc.New()

	productRepository := repository.NewProductRepository(dbClient, queries)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient, queries)
	productService := service.NewProductService(dbClient, productRepository, outboxMsgRepository)

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	httpService, err := http.New(cfg.HTTP, logger, productService, dbClient)
	if err != nil {
		return fmt.Errorf("error creating http service: %w", err)
	}
	httpCleanup, err := httpService.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}

	eventCleanup, err := event.New(logger, kafkaConsumer).Run(ctx)
	if err != nil {
		return fmt.Errorf("error running event service: %w", err)
	}

	relayCleanup := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer).Run(ctx)

	logger.InfoContext(ctx, "standalone application started")
	<-cmdutil.InterruptChan()
	logger.InfoContext(ctx, "standalone application is shutting down")

	// the HTTP server stops first so no new outbox rows are written while the
	// relay drains.
	if err := httpCleanup(ctx); err != nil {
		logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
	}

	var wg sync.WaitGroup
	wg.Go(relayCleanup)
	wg.Go(eventCleanup)
	wg.Wait()

	logger.InfoContext(ctx, "standalone application is stopped")

	return nil
}
