package model

// Page is one page of a paged listing as the backend returns it.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
}

// NewPage builds a page and derives TotalPages from the total count.
func NewPage[T any](items []T, page, size, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return Page[T]{
		Items:       items,
		CurrentPage: page,
		PageSize:    size,
		TotalCount:  total,
		TotalPages:  pages,
	}
}
