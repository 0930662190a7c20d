//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/movie_catalog/internal/config"
	"github.com/Pesokrava/movie_catalog/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/movie_catalog/internal/delivery/http"
	"github.com/Pesokrava/movie_catalog/internal/delivery/http/handler"
	"github.com/Pesokrava/movie_catalog/internal/pkg/cache"
	"github.com/Pesokrava/movie_catalog/internal/pkg/database"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/movie_catalog/internal/repository/cache"
	"github.com/Pesokrava/movie_catalog/internal/repository/postgres"
	"github.com/Pesokrava/movie_catalog/internal/usecase/movie"
	"github.com/Pesokrava/movie_catalog/internal/usecase/review"
)

func setupTestServer(t *testing.T) http.Handler {
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg.Env)

	db, err := database.WaitForDB(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	redisClient, err := cache.WaitForRedis(cfg, 5, 2*time.Second)
	require.NoError(t, err)

	publisher, err := events.NewPublisher(cfg, log)
	require.NoError(t, err)

	movieRepo := postgres.NewMovieRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	txManager := postgres.NewTxManager(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.MovieTTL,
		cfg.Cache.ReviewsListTTL,
	)

	movieService := movie.NewService(movieRepo, txManager, redisCache, log)
	reviewService := review.NewService(movieRepo, reviewRepo, txManager, redisCache, publisher, log)

	movieHandler := handler.NewMovieHandler(movieService, log)
	reviewHandler := handler.NewReviewHandler(reviewService, log)

	router := httpDelivery.NewRouter(movieHandler, reviewHandler, cfg, log)
	return router.Setup()
}

func TestMovieReviewLifecycle(t *testing.T) {
	server := setupTestServer(t)

	// Create movie
	movieJSON := `{
		"title": "Integration Test Movie",
		"director": "Test Director",
		"genre": "Drama",
		"release_year": 2020
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies", bytes.NewBufferString(movieJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&createResp)
	require.NoError(t, err)

	assert.True(t, createResp["success"].(bool))
	movieData := createResp["data"].(map[string]interface{})
	movieID := movieData["id"].(string)
	assert.Nil(t, movieData["rating"], "a movie starts with no rating")

	// Add a review; the aggregate must be visible immediately afterwards
	reviewJSON := `{"user_name": "integration", "rating": 8.0}`
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/movies/%s/reviews", movieID), bytes.NewBufferString(reviewJSON))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()

	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/movies/%s", movieID), nil)
	w = httptest.NewRecorder()

	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var getResp map[string]interface{}
	err = json.NewDecoder(w.Body).Decode(&getResp)
	require.NoError(t, err)

	getData := getResp["data"].(map[string]interface{})
	assert.Equal(t, 8.0, getData["rating"])

	// Delete the movie and its reviews
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/movies/%s", movieID), nil)
	w = httptest.NewRecorder()

	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMovieSearch(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies?genre=Drama&sort=title&order=asc&page=0&size=10", nil)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)

	data := resp["data"].(map[string]interface{})
	assert.Contains(t, data, "content")
	assert.Contains(t, data, "total_elements")
	assert.Contains(t, data, "total_pages")
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)

	assert.Equal(t, "healthy", resp["status"])
}
