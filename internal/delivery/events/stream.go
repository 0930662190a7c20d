package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
)

const (
	// StreamName is the JetStream stream for review events
	StreamName = "REVIEWS"

	// StreamSubjects defines the subjects this stream listens to
	StreamSubjects = "reviews.events"

	// ConsumerName is the durable consumer for the rating auditor
	ConsumerName = "rating-auditor"

	// MaxDeliveryAttempts is the max number of delivery attempts before
	// discarding; the next review event triggers a fresh audit anyway
	MaxDeliveryAttempts = 3

	// AckWait is how long to wait for acknowledgment before redelivery
	AckWait = 30 * time.Second
)

// StreamConfig holds the JetStream stream configuration
type StreamConfig struct {
	js     nats.JetStreamContext
	logger *logger.Logger
}

// NewStreamConfig creates a new stream configuration helper
func NewStreamConfig(js nats.JetStreamContext, log *logger.Logger) *StreamConfig {
	return &StreamConfig{
		js:     js,
		logger: log,
	}
}

// EnsureStream creates the review events stream if it does not exist yet
func (s *StreamConfig) EnsureStream() error {
	_, err := s.js.StreamInfo(StreamName)
	if err == nil {
		s.logger.Infof("JetStream stream %s already exists", StreamName)
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to get stream info: %w", err)
	}

	_, err = s.js.AddStream(&nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{StreamSubjects},
		Retention: nats.LimitsPolicy,
		Storage:   nats.FileStorage,
		MaxAge:    24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}

	s.logger.Infof("Created JetStream stream %s", StreamName)
	return nil
}

// EnsureConsumer creates the durable auditor consumer if it does not exist yet
func (s *StreamConfig) EnsureConsumer() error {
	_, err := s.js.ConsumerInfo(StreamName, ConsumerName)
	if err == nil {
		s.logger.Infof("JetStream consumer %s already exists", ConsumerName)
		return nil
	}
	if !errors.Is(err, nats.ErrConsumerNotFound) {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}

	_, err = s.js.AddConsumer(StreamName, &nats.ConsumerConfig{
		Durable:       ConsumerName,
		AckPolicy:     nats.AckExplicitPolicy,
		AckWait:       AckWait,
		MaxDeliver:    MaxDeliveryAttempts,
		FilterSubject: StreamSubjects,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", ConsumerName, err)
	}

	s.logger.Infof("Created JetStream consumer %s", ConsumerName)
	return nil
}
