package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
)

const (
	// Debounce window - collect events for the same movie within this duration
	debounceWindow = 1 * time.Second

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// ReviewEvent represents a review event from NATS
type ReviewEvent struct {
	EventType string    `json:"event_type"`
	MovieID   uuid.UUID `json:"movie_id"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditWorker processes review events and audits the affected movies'
// denormalized ratings asynchronously.
type AuditWorker struct {
	auditor *Auditor
	logger  *logger.Logger

	// Debouncing state
	mu            sync.Mutex
	pendingAudits map[uuid.UUID]*pendingAudit
	shutdownCh    chan struct{}
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

type pendingAudit struct {
	movieID   uuid.UUID
	timestamp time.Time
	timer     *time.Timer
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(auditor *Auditor, logger *logger.Logger) *AuditWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &AuditWorker{
		auditor:       auditor,
		logger:        logger,
		pendingAudits: make(map[uuid.UUID]*pendingAudit),
		shutdownCh:    make(chan struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// HandleEvent processes a review event
func (w *AuditWorker) HandleEvent(data []byte) error {
	var event ReviewEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.Error("Failed to unmarshal review event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	w.logger.WithFields(map[string]any{
		"event_type": event.EventType,
		"movie_id":   event.MovieID.String(),
		"timestamp":  event.Timestamp,
	}).Info("Received review event")

	w.scheduleAudit(event.MovieID, event.Timestamp)

	return nil
}

// scheduleAudit implements debouncing: multiple events for the same movie
// within the debounce window collapse into a single audit.
func (w *AuditWorker) scheduleAudit(movieID uuid.UUID, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pendingAudits[movieID]

	if found {
		// Ignore stale events
		if timestamp.Before(existing.timestamp) {
			w.logger.WithFields(map[string]any{
				"movie_id":    movieID.String(),
				"existing_ts": existing.timestamp,
				"event_ts":    timestamp,
			}).Debug("Ignoring stale event")
			return
		}

		existing.timer.Stop()
		w.logger.WithFields(map[string]any{
			"movie_id": movieID.String(),
		}).Debug("Debouncing: resetting timer for movie")
	} else {
		w.wg.Add(1)
	}

	timer := time.AfterFunc(debounceWindow, func() {
		w.processAudit(movieID)
	})

	w.pendingAudits[movieID] = &pendingAudit{
		movieID:   movieID,
		timestamp: timestamp,
		timer:     timer,
	}
}

// processAudit executes the rating audit with retry logic
func (w *AuditWorker) processAudit(movieID uuid.UUID) {
	defer w.wg.Done()

	w.mu.Lock()
	delete(w.pendingAudits, movieID)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"movie_id": movieID.String(),
	}).Info("Auditing movie rating")

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]any{
				"movie_id":   movieID.String(),
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying rating audit")

			select {
			case <-time.After(backoff):
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		err := w.auditor.CheckAndRepair(ctx, movieID)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]any{
			"movie_id": movieID.String(),
			"attempt":  attempt + 1,
		}).Error("Failed to audit rating", err)
	}

	w.logger.WithFields(map[string]any{
		"movie_id":    movieID.String(),
		"max_retries": maxRetries,
	}).Error("Rating audit failed after all retries", lastErr)
}

// Shutdown gracefully shuts down the worker: cancels pending timers and
// waits for in-flight audits to complete.
func (w *AuditWorker) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down audit worker...")

	close(w.shutdownCh)
	w.cancel()

	w.mu.Lock()
	cancelledCount := 0
	for _, audit := range w.pendingAudits {
		// Stop reports false when the timer already fired; that audit's
		// goroutine is in flight and owns the WaitGroup decrement.
		if audit.timer.Stop() {
			w.wg.Done()
			cancelledCount++
		}
	}
	w.pendingAudits = make(map[uuid.UUID]*pendingAudit)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"cancelled_audits": cancelledCount,
	}).Info("Cancelled pending audits")

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight audits completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// PendingCount returns the number of pending audits (used for monitoring/testing)
func (w *AuditWorker) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pendingAudits)
}
