package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/movie_catalog/internal/domain"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
	"github.com/Pesokrava/movie_catalog/internal/usecase/review"
)

type reviewHandlerMocks struct {
	movies    *MockMovieStore
	reviews   *MockReviewRepository
	cache     *MockCache
	publisher *MockEventPublisher
}

func newReviewHandler() (*ReviewHandler, reviewHandlerMocks) {
	mocks := reviewHandlerMocks{
		movies:    new(MockMovieStore),
		reviews:   new(MockReviewRepository),
		cache:     new(MockCache),
		publisher: new(MockEventPublisher),
	}
	log := logger.New("test")
	tx := &stubTxManager{stores: domain.Stores{Movies: mocks.movies, Reviews: mocks.reviews}}
	service := review.NewService(mocks.movies, mocks.reviews, tx, mocks.cache, mocks.publisher, log)
	return NewReviewHandler(service, log), mocks
}

func ratingArg(want float64) interface{} {
	return mock.MatchedBy(func(r *float64) bool {
		return r != nil && *r == want
	})
}

func TestReviewHandler_Create_Success(t *testing.T) {
	handler, mocks := newReviewHandler()

	movieID := uuid.New()
	movie := &domain.Movie{ID: movieID, Title: "Inception", Director: "Christopher Nolan", Genre: "Sci-Fi", ReleaseYear: 2010}

	requestBody := ReviewRequest{
		UserName: "alice",
		Rating:   8.0,
	}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/"+movieID.String()+"/reviews", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "id", movieID.String())
	w := httptest.NewRecorder()

	mocks.movies.On("GetByID", mock.Anything, movieID).Return(movie, nil)
	mocks.reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.MovieID == movieID && r.UserName == "alice" && r.Rating == 8.0
	})).Return(nil)
	mocks.reviews.On("RatingsByMovieID", mock.Anything, movieID).Return([]float64{8.0}, nil)
	mocks.movies.On("UpdateRating", mock.Anything, movieID, ratingArg(8.0)).Return(nil)
	mocks.cache.On("InvalidateMovie", mock.Anything, movieID).Return(nil)
	mocks.publisher.On("Publish", mock.Anything, "reviews.events", mock.Anything).Return(nil)

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mocks.movies.AssertExpectations(t)
	mocks.reviews.AssertExpectations(t)
}

func TestReviewHandler_Create_MovieNotFound(t *testing.T) {
	handler, mocks := newReviewHandler()

	movieID := uuid.New()
	requestBody := ReviewRequest{UserName: "alice", Rating: 8.0}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/"+movieID.String()+"/reviews", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "id", movieID.String())
	w := httptest.NewRecorder()

	mocks.movies.On("GetByID", mock.Anything, movieID).Return(nil, domain.ErrMovieNotFound)

	handler.Create(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mocks.reviews.AssertNotCalled(t, "Create")
}

func TestReviewHandler_Create_InvalidRating(t *testing.T) {
	handler, mocks := newReviewHandler()

	movieID := uuid.New()
	requestBody := ReviewRequest{UserName: "alice", Rating: 11.0}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/"+movieID.String()+"/reviews", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "id", movieID.String())
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mocks.reviews.AssertNotCalled(t, "Create")

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "rating", response["field"])
}

func TestReviewHandler_Get_WrongMovie(t *testing.T) {
	handler, mocks := newReviewHandler()

	movieID := uuid.New()
	otherMovieID := uuid.New()
	reviewID := uuid.New()
	movie := &domain.Movie{ID: movieID, Title: "Heat", Director: "Michael Mann", Genre: "Crime", ReleaseYear: 1995}
	rev := &domain.Review{ID: reviewID, MovieID: otherMovieID, UserName: "bob", Rating: 9.0}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/"+movieID.String()+"/reviews/"+reviewID.String(), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", movieID.String())
	rctx.URLParams.Add("reviewID", reviewID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	mocks.movies.On("GetByID", mock.Anything, movieID).Return(movie, nil)
	mocks.reviews.On("GetByID", mock.Anything, reviewID).Return(rev, nil)

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewHandler_GetByMovieID_Success(t *testing.T) {
	handler, mocks := newReviewHandler()

	movieID := uuid.New()
	movie := &domain.Movie{ID: movieID, Title: "Heat", Director: "Michael Mann", Genre: "Crime", ReleaseYear: 1995}
	reviews := []*domain.Review{
		{ID: uuid.New(), MovieID: movieID, UserName: "alice", Rating: 8.0},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/"+movieID.String()+"/reviews", nil)
	req = withURLParam(req, "id", movieID.String())
	w := httptest.NewRecorder()

	mocks.movies.On("GetByID", mock.Anything, movieID).Return(movie, nil)
	mocks.cache.On("GetReviewsList", mock.Anything, movieID).Return(reviews, nil)

	handler.GetByMovieID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mocks.cache.AssertExpectations(t)
}

func TestReviewHandler_Update_NotFound(t *testing.T) {
	handler, mocks := newReviewHandler()

	reviewID := uuid.New()
	requestBody := ReviewRequest{UserName: "alice", Rating: 7.0}
	bodyBytes, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/reviews/"+reviewID.String(), bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "id", reviewID.String())
	w := httptest.NewRecorder()

	mocks.reviews.On("GetByID", mock.Anything, reviewID).Return(nil, domain.ErrReviewNotFound)

	handler.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewHandler_Delete_Success(t *testing.T) {
	handler, mocks := newReviewHandler()

	reviewID := uuid.New()
	movieID := uuid.New()
	existing := &domain.Review{ID: reviewID, MovieID: movieID, UserName: "alice", Rating: 6.0}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/"+reviewID.String(), nil)
	req = withURLParam(req, "id", reviewID.String())
	w := httptest.NewRecorder()

	mocks.reviews.On("GetByID", mock.Anything, reviewID).Return(existing, nil)
	mocks.reviews.On("Delete", mock.Anything, reviewID).Return(nil)
	mocks.reviews.On("RatingsByMovieID", mock.Anything, movieID).Return([]float64{}, nil)
	mocks.movies.On("UpdateRating", mock.Anything, movieID, mock.MatchedBy(func(r *float64) bool {
		return r == nil
	})).Return(nil)
	mocks.cache.On("InvalidateMovie", mock.Anything, movieID).Return(nil)
	mocks.publisher.On("Publish", mock.Anything, "reviews.events", mock.Anything).Return(nil)

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mocks.reviews.AssertExpectations(t)
	mocks.movies.AssertExpectations(t)
}
