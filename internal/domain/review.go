package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Review represents a user review of a movie. MovieID never changes after
// creation; timestamps are assigned by the system.
type Review struct {
	ID         uuid.UUID `json:"id" db:"id"`
	MovieID    uuid.UUID `json:"movie_id" db:"movie_id" validate:"required"`
	UserName   string    `json:"user_name" db:"user_name" validate:"required,min=1,max=100"`
	ReviewText *string   `json:"review_text,omitempty" db:"review_text" validate:"omitempty,max=2000"`
	Rating     float64   `json:"rating" db:"rating" validate:"required,gte=1,lte=10"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// GetByMovieID retrieves all reviews for a movie, newest first
	GetByMovieID(ctx context.Context, movieID uuid.UUID) ([]*Review, error)

	// RatingsByMovieID retrieves the rating values of all reviews for a movie
	RatingsByMovieID(ctx context.Context, movieID uuid.UUID) ([]float64, error)

	// Update updates an existing review's user-mutable fields
	Update(ctx context.Context, review *Review) error

	// Delete deletes a review
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByMovieID deletes all reviews for a movie (cascade delete)
	DeleteByMovieID(ctx context.Context, movieID uuid.UUID) error

	// CountByMovieID returns the total number of reviews for a movie
	CountByMovieID(ctx context.Context, movieID uuid.UUID) (int, error)
}
