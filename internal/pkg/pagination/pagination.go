package pagination

import "math"

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Meta describes one page of a collection. Page is 1-based.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Page is an ordered slice of a collection plus its metadata.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// NewMeta computes total_pages = ceil(total / perPage).
func NewMeta(page, perPage int, total int64) Meta {
	return Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: TotalPages(total, perPage),
	}
}

func TotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// Offset is the number of rows to skip for page.
func Offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}

// New builds a page, never returning a nil Data slice so it encodes as [].
func New[T any](items []T, page, perPage int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Data: items, Meta: NewMeta(page, perPage, total)}
}
