package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"

	"github.com/Pesokrava/movie_catalog/internal/config"
	"github.com/Pesokrava/movie_catalog/internal/delivery/events"
	"github.com/Pesokrava/movie_catalog/internal/pkg/database"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
	"github.com/Pesokrava/movie_catalog/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting rating auditor...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	appLogger.Info("Connected to database")

	auditor := worker.NewAuditor(db, appLogger)
	auditWorker := worker.NewAuditWorker(auditor, appLogger)

	appLogger.Info("Connecting to NATS JetStream...")
	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		appLogger.Fatal("Failed to connect to NATS", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		appLogger.Fatal("Failed to create JetStream context", err)
	}

	appLogger.WithFields(map[string]any{
		"url": cfg.NATS.URL,
	}).Info("Connected to NATS JetStream")

	appLogger.Info("Initializing JetStream stream and consumer...")
	streamConfig := events.NewStreamConfig(js, appLogger)

	if err := streamConfig.EnsureStream(); err != nil {
		appLogger.Fatal("Failed to ensure stream", err)
	}

	if err := streamConfig.EnsureConsumer(); err != nil {
		appLogger.Fatal("Failed to ensure consumer", err)
	}

	// Durable pull consumer with explicit acks
	sub, err := js.PullSubscribe(events.StreamSubjects, events.ConsumerName, nats.ManualAck())
	if err != nil {
		appLogger.Fatal("Failed to subscribe to JetStream consumer", err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			appLogger.Error("Failed to unsubscribe from JetStream", err)
		}
	}()

	appLogger.WithFields(map[string]any{
		"stream":   events.StreamName,
		"consumer": events.ConsumerName,
	}).Info("Subscribed to JetStream consumer")

	go func() {
		for {
			msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
			if err != nil {
				if err == nats.ErrTimeout {
					continue
				}
				appLogger.Error("Failed to fetch messages from JetStream", err)
				time.Sleep(5 * time.Second)
				continue
			}

			for _, msg := range msgs {
				if err := auditWorker.HandleEvent(msg.Data); err != nil {
					appLogger.Error("Failed to handle event", err)

					// Redelivered with backoff; discarded after MaxDeliver
					// attempts. The next review event on the same movie
					// triggers a fresh audit anyway.
					if nackErr := msg.Nak(); nackErr != nil {
						appLogger.Error("Failed to NACK message", nackErr)
					}
					continue
				}

				if ackErr := msg.Ack(); ackErr != nil {
					appLogger.Error("Failed to ACK message", ackErr)
				}
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh
	appLogger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := auditWorker.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Error during shutdown", err)
	}

	appLogger.Info("Rating auditor stopped")
}
