package search

import (
	"strconv"
	"strings"

	"github.com/Pesokrava/movie_catalog/internal/domain"
)

// DefaultSortField orders results by id when the caller names no sort field.
const DefaultSortField = "id"

// sortColumns maps the caller-facing sort field names onto movie columns.
// Anything outside this allow-list is rejected, never interpolated into SQL.
var sortColumns = map[string]string{
	"title":        "title",
	"director":     "director",
	"genre":        "genre",
	"releaseYear":  "release_year",
	"release_year": "release_year",
	"rating":       "rating",
	"id":           "id",
}

// Sort is a validated (column, direction) ordering over the movie store.
type Sort struct {
	Column     string
	Descending bool
}

// ParseSort validates a raw sort field and direction. An empty field falls
// back to DefaultSortField; an unrecognized field is rejected with
// InvalidSearchParameter, consistent with how every other bad search input
// is handled. Direction is asc or desc, default asc.
func ParseSort(field, direction string) (Sort, error) {
	if field == "" {
		field = DefaultSortField
	}

	column, ok := sortColumns[field]
	if !ok {
		return Sort{}, domain.InvalidSearchParameter("sort", "unknown sort field "+strconv.Quote(field))
	}

	var desc bool
	switch strings.ToLower(direction) {
	case "", "asc":
		desc = false
	case "desc":
		desc = true
	default:
		return Sort{}, domain.InvalidSearchParameter("order", "must be asc or desc")
	}

	return Sort{Column: column, Descending: desc}, nil
}

// OrderBy renders the ORDER BY expression. Movies without reviews have a
// NULL rating and always sort after rated movies.
func (s Sort) OrderBy() string {
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	if s.Column == "rating" {
		return "rating " + dir + " NULLS LAST"
	}
	return s.Column + " " + dir
}
