package search

import "github.com/Pesokrava/movie_catalog/internal/domain"

const (
	// MinPageSize and MaxPageSize bound the page size; out-of-range sizes
	// are clamped, never rejected.
	MinPageSize = 1
	MaxPageSize = 100

	// DefaultPageSize applies when the caller sends no size at all.
	DefaultPageSize = 20
)

// PageRequest is a normalized, safe page/size pair.
type PageRequest struct {
	Page int
	Size int
}

// Normalize bounds a raw page/size request. Size is clamped into
// [MinPageSize, MaxPageSize]. A negative page has no sensible interpretation
// and is a hard error rather than something to silently repair.
func Normalize(page, size int) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, domain.InvalidSearchParameter("page", "must not be negative")
	}
	if size < MinPageSize {
		size = MinPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageRequest{Page: page, Size: size}, nil
}

// Limit returns the SQL LIMIT for this request.
func (p PageRequest) Limit() int { return p.Size }

// Offset returns the SQL OFFSET for this request.
func (p PageRequest) Offset() int { return p.Page * p.Size }

// Page is the uniform paged-result envelope.
type Page[T any] struct {
	Content          []T  `json:"content"`
	Page             int  `json:"page"`
	Size             int  `json:"size"`
	NumberOfElements int  `json:"number_of_elements"`
	TotalElements    int  `json:"total_elements"`
	TotalPages       int  `json:"total_pages"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	HasNext          bool `json:"has_next"`
	HasPrevious      bool `json:"has_previous"`
}

// NewPage assembles the envelope for one page of results. The flags are all
// derived from the counts, so they cannot disagree with each other.
func NewPage[T any](content []T, req PageRequest, totalElements int) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if totalElements > 0 {
		totalPages = (totalElements + req.Size - 1) / req.Size
	}

	return Page[T]{
		Content:          content,
		Page:             req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		TotalElements:    totalElements,
		TotalPages:       totalPages,
		First:            req.Page == 0,
		Last:             req.Page == totalPages-1 || totalPages == 0,
		HasNext:          req.Page < totalPages-1,
		HasPrevious:      req.Page > 0,
	}
}
