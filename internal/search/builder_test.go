package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/movie_catalog/internal/domain"
)

func TestConditions_NoFilters(t *testing.T) {
	where, args, next := Conditions(Criteria{}, 1)

	assert.Empty(t, where)
	assert.Empty(t, args)
	assert.Equal(t, 1, next)
}

func TestConditions_SingleFilters(t *testing.T) {
	tests := []struct {
		name      string
		c         Criteria
		wantWhere string
		wantArg   any
	}{
		{"genre exact ci", Criteria{Genre: strPtr("Sci-Fi")}, "LOWER(genre) = LOWER($1)", "Sci-Fi"},
		{"title substring ci", Criteria{Title: strPtr("blade")}, "LOWER(title) LIKE LOWER($1)", "%blade%"},
		{"director substring ci", Criteria{Director: strPtr("nolan")}, "LOWER(director) LIKE LOWER($1)", "%nolan%"},
		{"year exact", Criteria{ReleaseYear: intPtr(1999)}, "release_year = $1", 1999},
		{"year lower bound", Criteria{YearMin: intPtr(1990)}, "release_year >= $1", 1990},
		{"year upper bound", Criteria{YearMax: intPtr(2000)}, "release_year <= $1", 2000},
		{"rating lower bound", Criteria{MinRating: f64Ptr(8.5)}, "rating >= $1", 8.5},
		{"rating upper bound", Criteria{MaxRating: f64Ptr(9.9)}, "rating <= $1", 9.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, next := Conditions(tt.c, 1)

			assert.Equal(t, tt.wantWhere, where)
			require.Len(t, args, 1)
			assert.Equal(t, tt.wantArg, args[0])
			assert.Equal(t, 2, next)
		})
	}
}

func TestConditions_LikeMetacharactersEscaped(t *testing.T) {
	tests := []struct {
		name    string
		c       Criteria
		wantArg string
	}{
		{"percent", Criteria{Title: strPtr("100%")}, `%100\%%`},
		{"underscore", Criteria{Title: strPtr("blade_runner")}, `%blade\_runner%`},
		{"backslash", Criteria{Director: strPtr(`back\slash`)}, `%back\\slash%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args, _ := Conditions(tt.c, 1)

			require.Len(t, args, 1)
			assert.Equal(t, tt.wantArg, args[0])
		})
	}
}

func TestConditions_ConjoinsWithAND(t *testing.T) {
	c := Criteria{
		Genre:     strPtr("Drama"),
		YearMin:   intPtr(1990),
		MinRating: f64Ptr(7.0),
	}

	where, args, next := Conditions(c, 1)

	assert.Equal(t, "LOWER(genre) = LOWER($1) AND release_year >= $2 AND rating >= $3", where)
	assert.Equal(t, []any{"Drama", 1990, 7.0}, args)
	assert.Equal(t, 4, next)
}

func TestConditions_PlaceholderOffset(t *testing.T) {
	// Builders composing a larger statement hand in their next free index
	where, args, next := Conditions(Criteria{Title: strPtr("alien")}, 3)

	assert.Equal(t, "LOWER(title) LIKE LOWER($3)", where)
	assert.Equal(t, []any{"%alien%"}, args)
	assert.Equal(t, 4, next)
}

func TestParseSort_AllowList(t *testing.T) {
	for field, column := range map[string]string{
		"title":       "title",
		"director":    "director",
		"genre":       "genre",
		"releaseYear": "release_year",
		"rating":      "rating",
		"id":          "id",
	} {
		s, err := ParseSort(field, "asc")
		require.NoError(t, err, field)
		assert.Equal(t, column, s.Column)
		assert.False(t, s.Descending)
	}
}

func TestParseSort_Defaults(t *testing.T) {
	s, err := ParseSort("", "")
	require.NoError(t, err)

	assert.Equal(t, "id", s.Column)
	assert.False(t, s.Descending, "direction defaults to ascending")
}

func TestParseSort_UnknownFieldRejected(t *testing.T) {
	_, err := ParseSort("created_at; DROP TABLE movies", "asc")

	assert.ErrorIs(t, err, domain.ErrInvalidSearchParameter)
}

func TestParseSort_BadDirectionRejected(t *testing.T) {
	_, err := ParseSort("title", "sideways")

	assert.ErrorIs(t, err, domain.ErrInvalidSearchParameter)
}

func TestSort_OrderBy(t *testing.T) {
	s, err := ParseSort("title", "desc")
	require.NoError(t, err)
	assert.Equal(t, "title DESC", s.OrderBy())

	s, err = ParseSort("rating", "desc")
	require.NoError(t, err)
	assert.Equal(t, "rating DESC NULLS LAST", s.OrderBy())
}
