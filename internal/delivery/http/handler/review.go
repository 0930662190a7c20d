package handler

import (
	"errors"
	"net/http"

	"github.com/Pesokrava/movie_catalog/internal/delivery/http/request"
	"github.com/Pesokrava/movie_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/movie_catalog/internal/domain"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
	"github.com/Pesokrava/movie_catalog/internal/usecase/review"
)

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	service *review.Service
	logger  *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  log,
	}
}

// ReviewRequest represents the request body for creating or updating a review
type ReviewRequest struct {
	UserName   string  `json:"user_name"`
	ReviewText *string `json:"review_text,omitempty"`
	Rating     float64 `json:"rating"`
}

func (r ReviewRequest) toInput() review.Input {
	return review.Input{
		UserName:   r.UserName,
		ReviewText: r.ReviewText,
		Rating:     r.Rating,
	}
}

// Create handles POST /api/v1/movies/{id}/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	movieID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	var req ReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Add(r.Context(), movieID, req.toInput())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, created)
}

// Get handles GET /api/v1/movies/{id}/reviews/{reviewID}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	movieID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	reviewID, err := request.GetUUIDParam(r, "reviewID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	rev, err := h.service.Get(r.Context(), movieID, reviewID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, rev)
}

// GetByMovieID handles GET /api/v1/movies/{id}/reviews
func (h *ReviewHandler) GetByMovieID(w http.ResponseWriter, r *http.Request) {
	movieID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	reviews, err := h.service.GetByMovieID(r.Context(), movieID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, reviews)
}

// Update handles PUT /api/v1/reviews/{id}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req ReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, updated)
}

// Delete handles DELETE /api/v1/reviews/{id}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *ReviewHandler) handleError(w http.ResponseWriter, err error) {
	var fieldErr *domain.FieldError

	switch {
	case errors.Is(err, domain.ErrMovieNotFound):
		response.Error(w, http.StatusNotFound, "Movie not found")
	case errors.Is(err, domain.ErrReviewNotFound):
		response.Error(w, http.StatusNotFound, "Review not found")
	case errors.Is(err, domain.ErrInvalidReviewData):
		if errors.As(err, &fieldErr) {
			response.FieldError(w, http.StatusBadRequest, fieldErr.Field, fieldErr.Reason)
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in review handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
