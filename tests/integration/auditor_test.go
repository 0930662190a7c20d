//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/movie_catalog/internal/config"
	"github.com/Pesokrava/movie_catalog/internal/domain"
	"github.com/Pesokrava/movie_catalog/internal/pkg/database"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
	"github.com/Pesokrava/movie_catalog/internal/repository/postgres"
	"github.com/Pesokrava/movie_catalog/internal/worker"
)

func TestRatingAuditor_EndToEnd(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(cfg, 5, 2*time.Second)
	require.NoError(t, err)
	defer db.Close()

	nc, err := nats.Connect(cfg.NATS.URL)
	require.NoError(t, err)
	defer nc.Close()

	auditor := worker.NewAuditor(db, log)
	auditWorker := worker.NewAuditWorker(auditor, log)

	_, err = nc.Subscribe("reviews.events", func(msg *nats.Msg) {
		_ = auditWorker.HandleEvent(msg.Data)
	})
	require.NoError(t, err)

	movieRepo := postgres.NewMovieRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	ctx := context.Background()

	movie := &domain.Movie{
		Title:       "Auditor Test Movie",
		Director:    "Test Director",
		Genre:       "Thriller",
		ReleaseYear: 2019,
	}
	err = movieRepo.Create(ctx, movie)
	require.NoError(t, err)

	defer func() {
		_ = reviewRepo.DeleteByMovieID(ctx, movie.ID)
		_ = movieRepo.Delete(ctx, movie.ID)
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = auditWorker.Shutdown(shutdownCtx)
	}()

	// Write reviews without going through the service, so the stored
	// aggregate drifts from the review set
	ratings := []float64{9.0, 8.0, 7.0}
	for _, rating := range ratings {
		review := &domain.Review{
			MovieID:  movie.ID,
			UserName: "auditor-test",
			Rating:   rating,
		}
		err = reviewRepo.Create(ctx, review)
		require.NoError(t, err)
	}

	event := worker.ReviewEvent{
		EventType: "review.created",
		MovieID:   movie.ID,
		Timestamp: time.Now(),
	}
	eventData, _ := json.Marshal(event)
	err = nc.Publish("reviews.events", eventData)
	require.NoError(t, err)

	// Wait for debounce window + processing time
	time.Sleep(2 * time.Second)

	stored, err := auditor.StoredRating(ctx, movie.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	// (9.0 + 8.0 + 7.0) / 3 = 8.0
	assert.InDelta(t, 8.0, *stored, 0.05)

	pendingBefore := auditWorker.PendingCount()
	assert.Equal(t, 0, pendingBefore)
}

func TestRatingAuditor_NoDriftIsNoop(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(cfg, 5, 2*time.Second)
	require.NoError(t, err)
	defer db.Close()

	movieRepo := postgres.NewMovieRepository(db)

	ctx := context.Background()

	movie := &domain.Movie{
		Title:       "In-Sync Movie",
		Director:    "Test Director",
		Genre:       "Comedy",
		ReleaseYear: 2021,
	}
	err = movieRepo.Create(ctx, movie)
	require.NoError(t, err)
	defer func() {
		_ = movieRepo.Delete(ctx, movie.ID)
	}()

	auditor := worker.NewAuditor(db, log)

	// No reviews and no stored rating: nothing to repair
	err = auditor.CheckAndRepair(ctx, movie.ID)
	assert.NoError(t, err)

	stored, err := auditor.StoredRating(ctx, movie.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
