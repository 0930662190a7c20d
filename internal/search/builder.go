package search

import (
	"fmt"
	"strings"
)

// Conditions translates validated criteria into a SQL predicate list joined
// with AND, with positional placeholders starting at startArg. It returns the
// WHERE fragment (without the leading WHERE/AND keyword), the bound args, and
// the next free placeholder index. An empty criteria yields an empty fragment.
//
// AND is commutative, so the order predicates are emitted in never changes
// the result set.
func Conditions(c Criteria, startArg int) (string, []any, int) {
	var (
		conds []string
		args  []any
		n     = startArg
	)

	add := func(cond string, value any) {
		conds = append(conds, cond)
		args = append(args, value)
		n++
	}

	if c.Genre != nil {
		add(fmt.Sprintf("LOWER(genre) = LOWER($%d)", n), *c.Genre)
	}
	if c.Title != nil {
		add(fmt.Sprintf("LOWER(title) LIKE LOWER($%d)", n), likePattern(*c.Title))
	}
	if c.Director != nil {
		add(fmt.Sprintf("LOWER(director) LIKE LOWER($%d)", n), likePattern(*c.Director))
	}
	if c.ReleaseYear != nil {
		add(fmt.Sprintf("release_year = $%d", n), *c.ReleaseYear)
	}
	if c.YearMin != nil {
		add(fmt.Sprintf("release_year >= $%d", n), *c.YearMin)
	}
	if c.YearMax != nil {
		add(fmt.Sprintf("release_year <= $%d", n), *c.YearMax)
	}
	// A NULL rating never satisfies a comparison, so movies without reviews
	// fall out of rating-filtered results on their own.
	if c.MinRating != nil {
		add(fmt.Sprintf("rating >= $%d", n), *c.MinRating)
	}
	if c.MaxRating != nil {
		add(fmt.Sprintf("rating <= $%d", n), *c.MaxRating)
	}

	return strings.Join(conds, " AND "), args, n
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps a literal substring for LIKE matching. % and _ in the
// input match themselves, not wildcards.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
