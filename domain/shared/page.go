package shared

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage bounds the page index so Page*Size always fits in an int.
	MaxPage = 1_000_000
)

// PageRequest is a zero-based page of a sorted result set.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	SortDesc  bool
}

// Normalize clamps page and size into range.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows to skip, never negative.
func (p PageRequest) Offset() int {
	page, size := p.Page, p.Size
	if page <= 0 || size <= 0 {
		return 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page * size
}

// Page is one slice of a sorted result set.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

// MapPage converts the items of a page, keeping its paging metadata.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	items := make([]R, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return Page[R]{Items: items, Total: p.Total, Page: p.Page, Size: p.Size}
}
