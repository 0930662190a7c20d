package movie

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Pesokrava/movie_catalog/internal/domain"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
	"github.com/Pesokrava/movie_catalog/internal/search"
)

// Store is the movie persistence surface the service consumes: plain CRUD
// plus the criteria-driven paged search query.
type Store interface {
	domain.MovieRepository
	Search(ctx context.Context, criteria search.Criteria, sort search.Sort, limit, offset int) ([]*domain.Movie, int, error)
}

// Cache defines the cache operations the movie service needs
type Cache interface {
	GetMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	SetMovie(ctx context.Context, movie *domain.Movie) error
	InvalidateMovie(ctx context.Context, id uuid.UUID) error
}

// Service handles movie business logic
type Service struct {
	store    Store
	tx       domain.TxManager
	cache    Cache
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new movie service
func NewService(store Store, tx domain.TxManager, cache Cache, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		tx:       tx,
		cache:    cache,
		validate: validator.New(),
		logger:   log,
	}
}

// Create creates a new movie; its rating stays unset until the first review
func (s *Service) Create(ctx context.Context, movie *domain.Movie) error {
	if err := s.validateMovie(movie); err != nil {
		s.logger.Error("Movie validation failed", err)
		return err
	}

	if err := s.store.Create(ctx, movie); err != nil {
		s.logger.Error("Failed to create movie", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"movie_id": movie.ID,
		"title":    movie.Title,
	}).Info("Movie created successfully")

	return nil
}

// GetByID retrieves a movie by ID, served cache-aside
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	movie, err := s.cache.GetMovie(ctx, id)
	if err == nil {
		s.logger.Debugf("Cache hit for movie %s", id)
		return movie, nil
	}

	movie, err = s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrMovieNotFound) {
			s.logger.Debugf("Movie not found: %s", id)
		} else {
			s.logger.Error("Failed to get movie", err)
		}
		return nil, err
	}

	if err := s.cache.SetMovie(ctx, movie); err != nil {
		s.logger.Warnf("Failed to cache movie %s: %v", id, err)
	}

	return movie, nil
}

// Update updates a movie's user-mutable fields; identity and rating survive
func (s *Service) Update(ctx context.Context, movie *domain.Movie) error {
	if err := s.validateMovie(movie); err != nil {
		s.logger.Error("Movie validation failed", err)
		return err
	}

	if err := s.store.Update(ctx, movie); err != nil {
		s.logger.Error("Failed to update movie", err)
		return err
	}

	s.invalidateCache(ctx, movie.ID)

	s.logger.WithFields(map[string]interface{}{
		"movie_id": movie.ID,
		"title":    movie.Title,
	}).Info("Movie updated successfully")

	return nil
}

// Delete deletes a movie and all of its reviews in one transaction
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(st domain.Stores) error {
		if err := st.Reviews.DeleteByMovieID(ctx, id); err != nil {
			return err
		}
		return st.Movies.Delete(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrMovieNotFound) {
			s.logger.Error("Failed to delete movie", err)
		}
		return err
	}

	s.invalidateCache(ctx, id)

	s.logger.WithFields(map[string]interface{}{
		"movie_id": id,
	}).Info("Movie deleted successfully")

	return nil
}

// Search validates the criteria, sort and paging inputs and executes a
// filtered, ordered, paged query over the catalog.
func (s *Service) Search(ctx context.Context, criteria search.Criteria, page, size int, sortField, sortDir string) (search.Page[*domain.Movie], error) {
	if err := criteria.Validate(); err != nil {
		return search.Page[*domain.Movie]{}, err
	}

	sort, err := search.ParseSort(sortField, sortDir)
	if err != nil {
		return search.Page[*domain.Movie]{}, err
	}

	req, err := search.Normalize(page, size)
	if err != nil {
		return search.Page[*domain.Movie]{}, err
	}

	movies, total, err := s.store.Search(ctx, criteria, sort, req.Limit(), req.Offset())
	if err != nil {
		s.logger.Error("Failed to search movies", err)
		return search.Page[*domain.Movie]{}, err
	}

	return search.NewPage(movies, req, total), nil
}

func (s *Service) validateMovie(movie *domain.Movie) error {
	if strings.TrimSpace(movie.Title) == "" {
		return domain.InvalidMovieData("title", "must not be blank")
	}
	if strings.TrimSpace(movie.Director) == "" {
		return domain.InvalidMovieData("director", "must not be blank")
	}
	if strings.TrimSpace(movie.Genre) == "" {
		return domain.InvalidMovieData("genre", "must not be blank")
	}

	if err := s.validate.Struct(movie); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.InvalidMovieData(movieFieldName(verrs[0].Field()), movieValidationReason(verrs[0]))
		}
		return domain.ErrInvalidMovieData
	}

	// The struct tag covers the fixed lower bound; the upper bound moves
	// with the clock.
	if maxYear := time.Now().Year() + search.MaxYearsAhead; movie.ReleaseYear > maxYear {
		return domain.InvalidMovieData("release_year", "must not be later than "+strconv.Itoa(maxYear))
	}

	return nil
}

func movieFieldName(structField string) string {
	switch structField {
	case "Title":
		return "title"
	case "Director":
		return "director"
	case "Genre":
		return "genre"
	case "ReleaseYear":
		return "release_year"
	default:
		return structField
	}
}

func movieValidationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

func (s *Service) invalidateCache(ctx context.Context, id uuid.UUID) {
	if err := s.cache.InvalidateMovie(ctx, id); err != nil {
		s.logger.Warnf("Failed to invalidate cache for movie %s: %v", id, err)
	}
}
