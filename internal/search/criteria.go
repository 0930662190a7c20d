// Package search holds the catalog search subsystem: the validated criteria
// model, the sort specification, pagination normalization and the translation
// of all three into a SQL movie query.
package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/Pesokrava/movie_catalog/internal/domain"
)

const (
	// MinSearchYear is the lowest release year a search filter may name.
	MinSearchYear = 1900

	// MaxYearsAhead is how far into the future a release year may point,
	// for announced but unreleased movies.
	MaxYearsAhead = 5
)

// MaxSearchYear returns the highest release year a search filter may name.
func MaxSearchYear() int {
	return time.Now().Year() + MaxYearsAhead
}

// Criteria is the set of optional movie filters. A nil field imposes no
// constraint; all provided fields combine with logical AND.
type Criteria struct {
	Genre       *string  // exact match, case-insensitive
	Title       *string  // substring match, case-insensitive
	Director    *string  // substring match, case-insensitive
	ReleaseYear *int     // exact match
	YearMin     *int     // inclusive lower bound
	YearMax     *int     // inclusive upper bound
	MinRating   *float64 // inclusive lower bound
	MaxRating   *float64 // inclusive upper bound
}

// Validate checks every provided filter. A string filter that is present but
// blank is a caller error, not "no filter".
func (c Criteria) Validate() error {
	if err := validateText("genre", c.Genre); err != nil {
		return err
	}
	if err := validateText("title", c.Title); err != nil {
		return err
	}
	if err := validateText("director", c.Director); err != nil {
		return err
	}

	maxYear := MaxSearchYear()
	if err := validateYear("year", c.ReleaseYear, maxYear); err != nil {
		return err
	}
	if err := validateYear("year_min", c.YearMin, maxYear); err != nil {
		return err
	}
	if err := validateYear("year_max", c.YearMax, maxYear); err != nil {
		return err
	}

	if err := validateRating("min_rating", c.MinRating); err != nil {
		return err
	}
	if err := validateRating("max_rating", c.MaxRating); err != nil {
		return err
	}

	if c.YearMin != nil && c.YearMax != nil && *c.YearMin > *c.YearMax {
		return domain.InvalidSearchParameter("year_min", "must not exceed year_max")
	}
	if c.MinRating != nil && c.MaxRating != nil && *c.MinRating > *c.MaxRating {
		return domain.InvalidSearchParameter("min_rating", "must not exceed max_rating")
	}

	return nil
}

// IsZero reports whether no filter is set at all.
func (c Criteria) IsZero() bool {
	return c.Genre == nil && c.Title == nil && c.Director == nil &&
		c.ReleaseYear == nil && c.YearMin == nil && c.YearMax == nil &&
		c.MinRating == nil && c.MaxRating == nil
}

func validateText(field string, value *string) error {
	if value == nil {
		return nil
	}
	if strings.TrimSpace(*value) == "" {
		return domain.InvalidSearchParameter(field, "must not be blank")
	}
	return nil
}

func validateYear(field string, value *int, maxYear int) error {
	if value == nil {
		return nil
	}
	if *value < MinSearchYear || *value > maxYear {
		return domain.InvalidSearchParameter(field, "must be between 1900 and "+strconv.Itoa(maxYear))
	}
	return nil
}

func validateRating(field string, value *float64) error {
	if value == nil {
		return nil
	}
	if *value < 0 || *value > 10 {
		return domain.InvalidSearchParameter(field, "must be between 0.0 and 10.0")
	}
	return nil
}
