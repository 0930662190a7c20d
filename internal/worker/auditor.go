package worker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/movie_catalog/internal/pkg/logger"
)

// Auditor re-verifies a movie's denormalized rating against its review set
// and repairs drift straight in SQL. The review transaction keeps the
// aggregate fresh on the write path; the auditor is the self-correcting
// backstop behind it.
type Auditor struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// NewAuditor creates a new rating auditor
func NewAuditor(db *sqlx.DB, logger *logger.Logger) *Auditor {
	return &Auditor{
		db:     db,
		logger: logger,
	}
}

// CheckAndRepair recomputes the aggregate from the review rows and rewrites
// the movie's rating only when the stored value disagrees. AVG over zero
// reviews is NULL, which clears the rating.
func (a *Auditor) CheckAndRepair(ctx context.Context, movieID uuid.UUID) error {
	query := `
		UPDATE movies
		SET
			rating = (SELECT ROUND(AVG(rating)::numeric, 1)
			          FROM reviews
			          WHERE movie_id = $1),
			updated_at = $2,
			version = version + 1
		WHERE id = $1
		  AND rating IS DISTINCT FROM (SELECT ROUND(AVG(rating)::numeric, 1)
		                               FROM reviews
		                               WHERE movie_id = $1)
	`

	result, err := a.db.ExecContext(ctx, query, movieID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to audit movie rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Rating already in sync, or the movie is gone
		a.logger.WithFields(map[string]any{
			"movie_id": movieID.String(),
		}).Debug("Movie rating in sync, nothing to repair")
		return nil
	}

	a.logger.WithFields(map[string]any{
		"movie_id": movieID.String(),
	}).Info("Repaired drifted movie rating")

	return nil
}

// StoredRating retrieves the currently stored aggregate for verification
// (used in tests); nil means the movie has no aggregate.
func (a *Auditor) StoredRating(ctx context.Context, movieID uuid.UUID) (*float64, error) {
	var rating sql.NullFloat64
	query := `SELECT rating FROM movies WHERE id = $1`

	err := a.db.GetContext(ctx, &rating, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stored rating: %w", err)
	}

	if !rating.Valid {
		return nil, nil
	}

	return &rating.Float64, nil
}
