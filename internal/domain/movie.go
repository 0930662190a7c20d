package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EarliestReleaseYear is the year of the first motion picture; no movie in
// the catalog can predate it.
const EarliestReleaseYear = 1888

// Movie represents a movie in the catalog. Rating is denormalized from the
// movie's reviews: nil while the movie has no reviews, otherwise the mean of
// its review ratings rounded to one decimal place.
type Movie struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title" validate:"required,min=1,max=255"`
	Director    string    `json:"director" db:"director" validate:"required,min=1,max=255"`
	Genre       string    `json:"genre" db:"genre" validate:"required,min=1,max=100"`
	ReleaseYear int       `json:"release_year" db:"release_year" validate:"required,gte=1888"`
	Rating      *float64  `json:"rating" db:"rating"`
	Version     int       `json:"version" db:"version"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MovieRepository defines the interface for movie data access
type MovieRepository interface {
	// Create creates a new movie
	Create(ctx context.Context, movie *Movie) error

	// GetByID retrieves a movie by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Movie, error)

	// Update updates a movie's user-mutable fields
	Update(ctx context.Context, movie *Movie) error

	// UpdateRating persists the denormalized aggregate rating; nil clears it
	UpdateRating(ctx context.Context, id uuid.UUID, rating *float64) error

	// Delete deletes a movie
	Delete(ctx context.Context, id uuid.UUID) error
}
