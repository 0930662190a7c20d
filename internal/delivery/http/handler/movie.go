package handler

import (
	"errors"
	"net/http"

	"github.com/Pesokrava/movie_catalog/internal/delivery/http/request"
	"github.com/Pesokrava/movie_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/movie_catalog/internal/domain"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
	"github.com/Pesokrava/movie_catalog/internal/search"
	"github.com/Pesokrava/movie_catalog/internal/usecase/movie"
)

// MovieHandler handles HTTP requests for movies
type MovieHandler struct {
	service *movie.Service
	logger  *logger.Logger
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(service *movie.Service, log *logger.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  log,
	}
}

// CreateMovieRequest represents the request body for creating a movie
type CreateMovieRequest struct {
	Title       string `json:"title"`
	Director    string `json:"director"`
	Genre       string `json:"genre"`
	ReleaseYear int    `json:"release_year"`
}

// UpdateMovieRequest represents the request body for updating a movie
type UpdateMovieRequest struct {
	Title       string `json:"title"`
	Director    string `json:"director"`
	Genre       string `json:"genre"`
	ReleaseYear int    `json:"release_year"`
	Version     int    `json:"version"`
}

// Create handles POST /api/v1/movies
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMovieRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m := &domain.Movie{
		Title:       req.Title,
		Director:    req.Director,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
	}

	if err := h.service.Create(r.Context(), m); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, m)
}

// GetByID handles GET /api/v1/movies/{id}
func (h *MovieHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	m, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, m)
}

// Update handles PUT /api/v1/movies/{id}
func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	var req UpdateMovieRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m := &domain.Movie{
		ID:          id,
		Title:       req.Title,
		Director:    req.Director,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
		Version:     req.Version,
	}

	if err := h.service.Update(r.Context(), m); err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, m)
}

// Delete handles DELETE /api/v1/movies/{id}
func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// Search handles GET /api/v1/movies
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.parseCriteria(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := request.GetIntQuery(r, "page", 0)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	size, err := request.GetIntQuery(r, "size", search.DefaultPageSize)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	sortField := r.URL.Query().Get("sort")
	sortDir := r.URL.Query().Get("order")

	result, err := h.service.Search(r.Context(), criteria, page, size, sortField, sortDir)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, result)
}

// parseCriteria coerces the raw query parameters into a criteria model.
// Coercion failures (non-numeric numbers) stop here; semantic validation
// happens in the service.
func (h *MovieHandler) parseCriteria(r *http.Request) (search.Criteria, error) {
	var c search.Criteria

	c.Genre = request.GetStringQuery(r, "genre")
	c.Title = request.GetStringQuery(r, "title")
	c.Director = request.GetStringQuery(r, "director")

	var err error
	if c.ReleaseYear, err = request.GetIntQueryPtr(r, "year"); err != nil {
		return search.Criteria{}, err
	}
	if c.YearMin, err = request.GetIntQueryPtr(r, "year_min"); err != nil {
		return search.Criteria{}, err
	}
	if c.YearMax, err = request.GetIntQueryPtr(r, "year_max"); err != nil {
		return search.Criteria{}, err
	}
	if c.MinRating, err = request.GetFloatQueryPtr(r, "min_rating"); err != nil {
		return search.Criteria{}, err
	}
	if c.MaxRating, err = request.GetFloatQueryPtr(r, "max_rating"); err != nil {
		return search.Criteria{}, err
	}

	return c, nil
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *MovieHandler) handleError(w http.ResponseWriter, err error) {
	var fieldErr *domain.FieldError

	switch {
	case errors.Is(err, domain.ErrMovieNotFound):
		response.Error(w, http.StatusNotFound, "Movie not found")
	case errors.Is(err, domain.ErrInvalidSearchParameter), errors.Is(err, domain.ErrInvalidMovieData):
		if errors.As(err, &fieldErr) {
			response.FieldError(w, http.StatusBadRequest, fieldErr.Field, fieldErr.Reason)
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrConflict):
		response.Error(w, http.StatusConflict, "Movie was modified concurrently")
	default:
		h.logger.Error("Internal error in movie handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
