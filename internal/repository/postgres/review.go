package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/movie_catalog/internal/domain"
)

// ReviewRepository implements review data access for PostgreSQL
type ReviewRepository struct {
	db sqlx.ExtContext
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a new review with server-assigned timestamps
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (movie_id, user_name, review_text, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		review.MovieID,
		review.UserName,
		review.ReviewText,
		review.Rating,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(
		&review.ID,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT id, movie_id, user_name, review_text, rating, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	var review domain.Review
	err := sqlx.GetContext(ctx, r.db, &review, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}

	return &review, nil
}

// GetByMovieID retrieves all reviews for a movie, newest first
func (r *ReviewRepository) GetByMovieID(ctx context.Context, movieID uuid.UUID) ([]*domain.Review, error) {
	query := `
		SELECT id, movie_id, user_name, review_text, rating, created_at, updated_at
		FROM reviews
		WHERE movie_id = $1
		ORDER BY created_at DESC, id
	`

	var reviews []*domain.Review
	err := sqlx.SelectContext(ctx, r.db, &reviews, query, movieID)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// RatingsByMovieID retrieves the rating values of all reviews for a movie.
// The rating recompute always reads through this inside the transaction that
// will persist the new aggregate.
func (r *ReviewRepository) RatingsByMovieID(ctx context.Context, movieID uuid.UUID) ([]float64, error) {
	query := `SELECT rating FROM reviews WHERE movie_id = $1`

	var ratings []float64
	err := sqlx.SelectContext(ctx, r.db, &ratings, query, movieID)
	if err != nil {
		return nil, err
	}

	return ratings, nil
}

// Update updates an existing review's user-mutable fields
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews
		SET user_name = $1, review_text = $2, rating = $3, updated_at = $4
		WHERE id = $5
		RETURNING updated_at
	`

	review.UpdatedAt = time.Now().UTC()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		review.UserName,
		review.ReviewText,
		review.Rating,
		review.UpdatedAt,
		review.ID,
	).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrReviewNotFound
		}
		return err
	}

	return nil
}

// Delete deletes a review
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrReviewNotFound
	}

	return nil
}

// DeleteByMovieID deletes all reviews for a movie (cascade delete)
func (r *ReviewRepository) DeleteByMovieID(ctx context.Context, movieID uuid.UUID) error {
	query := `DELETE FROM reviews WHERE movie_id = $1`

	_, err := r.db.ExecContext(ctx, query, movieID)
	if err != nil {
		return err
	}

	return nil
}

// CountByMovieID returns the total number of reviews for a movie
func (r *ReviewRepository) CountByMovieID(ctx context.Context, movieID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE movie_id = $1`

	var count int
	err := sqlx.GetContext(ctx, r.db, &count, query, movieID)
	if err != nil {
		return 0, err
	}

	return count, nil
}
