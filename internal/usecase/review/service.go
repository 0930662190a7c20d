package review

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Pesokrava/movie_catalog/internal/domain"
	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
	"github.com/Pesokrava/movie_catalog/internal/rating"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// MovieCache defines the cache operations the review service needs
type MovieCache interface {
	GetReviewsList(ctx context.Context, movieID uuid.UUID) ([]*domain.Review, error)
	SetReviewsList(ctx context.Context, movieID uuid.UUID, reviews []*domain.Review) error
	InvalidateMovie(ctx context.Context, movieID uuid.UUID) error
}

// ReviewEvent represents an event related to a review
type ReviewEvent struct {
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	MovieID   uuid.UUID      `json:"movie_id"`
	Review    *domain.Review `json:"review"`
}

// Input carries the user-mutable review fields arriving from the caller.
type Input struct {
	UserName   string  `validate:"required,min=1,max=100"`
	ReviewText *string `validate:"omitempty,max=2000"`
	Rating     float64 `validate:"required,gte=1,lte=10"`
}

// Service orchestrates the review lifecycle. Every mutation recomputes the
// owning movie's aggregate rating from the full review set inside the same
// transaction that persists the review write, so the aggregate can never be
// observed stale and a failed rating write rolls the review write back too.
type Service struct {
	movies    domain.MovieRepository
	reviews   domain.ReviewRepository
	tx        domain.TxManager
	cache     MovieCache
	publisher EventPublisher
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewService creates a new review service
func NewService(
	movies domain.MovieRepository,
	reviews domain.ReviewRepository,
	tx domain.TxManager,
	cache MovieCache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		movies:    movies,
		reviews:   reviews,
		tx:        tx,
		cache:     cache,
		publisher: publisher,
		validate:  validator.New(),
		logger:    log,
	}
}

// Add creates a review for a movie and refreshes the movie's rating.
func (s *Service) Add(ctx context.Context, movieID uuid.UUID, input Input) (*domain.Review, error) {
	if err := s.validateInput(input); err != nil {
		s.logger.Error("Review validation failed", err)
		return nil, err
	}

	var created *domain.Review
	err := s.tx.WithinTx(ctx, func(st domain.Stores) error {
		if _, err := st.Movies.GetByID(ctx, movieID); err != nil {
			return err
		}

		review := &domain.Review{
			MovieID:    movieID,
			UserName:   input.UserName,
			ReviewText: input.ReviewText,
			Rating:     input.Rating,
		}
		if err := st.Reviews.Create(ctx, review); err != nil {
			return err
		}

		created = review
		return refreshMovieRating(ctx, st, movieID)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrMovieNotFound) {
			s.logger.Error("Failed to create review", err)
		}
		return nil, err
	}

	s.invalidateCache(ctx, movieID)
	s.publishEvent(ctx, "review.created", created)

	s.logger.WithFields(map[string]interface{}{
		"review_id": created.ID,
		"movie_id":  movieID,
		"rating":    created.Rating,
	}).Info("Review created successfully")

	return created, nil
}

// Update overwrites a review's user-mutable fields and refreshes the owning
// movie's rating. The owning movie itself never changes.
func (s *Service) Update(ctx context.Context, reviewID uuid.UUID, input Input) (*domain.Review, error) {
	if err := s.validateInput(input); err != nil {
		s.logger.Error("Review validation failed", err)
		return nil, err
	}

	var updated *domain.Review
	err := s.tx.WithinTx(ctx, func(st domain.Stores) error {
		existing, err := st.Reviews.GetByID(ctx, reviewID)
		if err != nil {
			return err
		}

		existing.UserName = input.UserName
		existing.ReviewText = input.ReviewText
		existing.Rating = input.Rating
		if err := st.Reviews.Update(ctx, existing); err != nil {
			return err
		}

		updated = existing
		return refreshMovieRating(ctx, st, existing.MovieID)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrReviewNotFound) {
			s.logger.Error("Failed to update review", err)
		}
		return nil, err
	}

	s.invalidateCache(ctx, updated.MovieID)
	s.publishEvent(ctx, "review.updated", updated)

	s.logger.WithFields(map[string]interface{}{
		"review_id": updated.ID,
		"movie_id":  updated.MovieID,
		"rating":    updated.Rating,
	}).Info("Review updated successfully")

	return updated, nil
}

// Delete removes a review and refreshes the owning movie's rating from the
// post-delete review set, which may be empty.
func (s *Service) Delete(ctx context.Context, reviewID uuid.UUID) error {
	var deleted *domain.Review
	err := s.tx.WithinTx(ctx, func(st domain.Stores) error {
		existing, err := st.Reviews.GetByID(ctx, reviewID)
		if err != nil {
			return err
		}

		if err := st.Reviews.Delete(ctx, reviewID); err != nil {
			return err
		}

		deleted = existing
		return refreshMovieRating(ctx, st, existing.MovieID)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrReviewNotFound) {
			s.logger.Error("Failed to delete review", err)
		}
		return err
	}

	s.invalidateCache(ctx, deleted.MovieID)
	s.publishEvent(ctx, "review.deleted", deleted)

	s.logger.WithFields(map[string]interface{}{
		"review_id": reviewID,
		"movie_id":  deleted.MovieID,
	}).Info("Review deleted successfully")

	return nil
}

// GetByMovieID retrieves all reviews for a movie, served cache-aside.
func (s *Service) GetByMovieID(ctx context.Context, movieID uuid.UUID) ([]*domain.Review, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}

	reviews, err := s.cache.GetReviewsList(ctx, movieID)
	if err == nil {
		s.logger.Debugf("Cache hit for movie %s reviews", movieID)
		return reviews, nil
	}

	reviews, err = s.reviews.GetByMovieID(ctx, movieID)
	if err != nil {
		s.logger.Error("Failed to get reviews by movie ID", err)
		return nil, err
	}

	if err := s.cache.SetReviewsList(ctx, movieID, reviews); err != nil {
		s.logger.Warnf("Failed to cache reviews for movie %s: %v", movieID, err)
	}

	return reviews, nil
}

// Get retrieves one review scoped by its claimed movie. A review that exists
// but belongs to a different movie is reported as not found, so guessed ids
// never leak another movie's review.
func (s *Service) Get(ctx context.Context, movieID, reviewID uuid.UUID) (*domain.Review, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.MovieID != movieID {
		return nil, domain.ErrReviewNotFound
	}

	return review, nil
}

// refreshMovieRating re-reads the movie's full review set and persists the
// recomputed aggregate. It runs on the same Stores as the triggering review
// write, keeping read-then-write under one transaction so concurrent writers
// cannot overwrite each other with stale aggregates.
func refreshMovieRating(ctx context.Context, st domain.Stores, movieID uuid.UUID) error {
	ratings, err := st.Reviews.RatingsByMovieID(ctx, movieID)
	if err != nil {
		return err
	}

	if agg, ok := rating.Aggregate(ratings); ok {
		return st.Movies.UpdateRating(ctx, movieID, &agg)
	}
	return st.Movies.UpdateRating(ctx, movieID, nil)
}

func (s *Service) validateInput(input Input) error {
	if strings.TrimSpace(input.UserName) == "" {
		return domain.InvalidReviewData("user_name", "must not be blank")
	}

	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.InvalidReviewData(inputFieldName(verrs[0].Field()), validationReason(verrs[0]))
		}
		return domain.ErrInvalidReviewData
	}

	return nil
}

func inputFieldName(structField string) string {
	switch structField {
	case "UserName":
		return "user_name"
	case "ReviewText":
		return "review_text"
	case "Rating":
		return "rating"
	default:
		return structField
	}
}

func validationReason(fe validator.FieldError) string {
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

func (s *Service) invalidateCache(ctx context.Context, movieID uuid.UUID) {
	// Stale cache would show incorrect ratings and review lists
	if err := s.cache.InvalidateMovie(ctx, movieID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for movie %s: %v", movieID, err)
	}
}

// publishEvent publishes a review event (non-blocking)
func (s *Service) publishEvent(ctx context.Context, eventType string, review *domain.Review) {
	event := ReviewEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		MovieID:   review.MovieID,
		Review:    review,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for review %s", review.ID)
		return
	}

	// Publish in background to avoid blocking
	go func() {
		if err := s.publisher.Publish(context.Background(), "reviews.events", data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for review %s", review.ID)
		}
	}()
}
