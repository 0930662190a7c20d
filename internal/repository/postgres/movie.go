package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/movie_catalog/internal/domain"
	"github.com/Pesokrava/movie_catalog/internal/search"
)

// MovieRepository implements movie data access for PostgreSQL. It runs over
// sqlx.ExtContext, so the same repository code serves both the connection
// pool and an open transaction.
type MovieRepository struct {
	db sqlx.ExtContext
}

// NewMovieRepository creates a new PostgreSQL movie repository
func NewMovieRepository(db *sqlx.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create creates a new movie; the rating stays unset until the first review
func (r *MovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `
		INSERT INTO movies (title, director, genre, release_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, version, created_at, updated_at
	`

	now := time.Now().UTC()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		movie.Title,
		movie.Director,
		movie.Genre,
		movie.ReleaseYear,
		movie.CreatedAt,
		movie.UpdatedAt,
	).Scan(
		&movie.ID,
		&movie.Version,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)

	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a movie by ID
func (r *MovieRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	query := `
		SELECT id, title, director, genre, release_year, rating, version, created_at, updated_at
		FROM movies
		WHERE id = $1
	`

	var movie domain.Movie
	err := sqlx.GetContext(ctx, r.db, &movie, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, err
	}

	return &movie, nil
}

// Update updates a movie's user-mutable fields with optimistic locking
func (r *MovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, director = $2, genre = $3, release_year = $4, updated_at = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version, updated_at
	`

	movie.UpdatedAt = time.Now().UTC()
	oldVersion := movie.Version

	err := r.db.QueryRowxContext(
		ctx,
		query,
		movie.Title,
		movie.Director,
		movie.Genre,
		movie.ReleaseYear,
		movie.UpdatedAt,
		movie.ID,
		oldVersion,
	).Scan(&movie.Version, &movie.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrConflict
		}
		return err
	}

	return nil
}

// UpdateRating persists the denormalized aggregate rating. A nil rating
// clears the column: the movie has no reviews left.
func (r *MovieRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating *float64) error {
	query := `
		UPDATE movies
		SET rating = $1, updated_at = $2, version = version + 1
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, rating, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrMovieNotFound
	}

	return nil
}

// Delete deletes a movie
func (r *MovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM movies WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrMovieNotFound
	}

	return nil
}

// Search executes a filtered, ordered, paged query over the catalog. It
// returns the page of movies plus the total match count for the criteria.
func (r *MovieRepository) Search(ctx context.Context, criteria search.Criteria, sort search.Sort, limit, offset int) ([]*domain.Movie, int, error) {
	countQuery := `SELECT COUNT(*) FROM movies`
	selectQuery := `
		SELECT id, title, director, genre, release_year, rating, version, created_at, updated_at
		FROM movies
	`

	where, args, nextArg := search.Conditions(criteria, 1)
	if where != "" {
		countQuery += " WHERE " + where
		selectQuery += " WHERE " + where
	}

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	if total == 0 {
		return []*domain.Movie{}, 0, nil
	}

	selectQuery += " ORDER BY " + sort.OrderBy()
	selectQuery += " LIMIT $" + strconv.Itoa(nextArg) + " OFFSET $" + strconv.Itoa(nextArg+1)
	args = append(args, limit, offset)

	var movies []*domain.Movie
	if err := sqlx.SelectContext(ctx, r.db, &movies, selectQuery, args...); err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}
