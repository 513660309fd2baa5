package domain

// PaginationParams carries page/limit values from the HTTP layer to the service.
// Page is 1-indexed. A zero Limit means "no paging": every task is returned.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// When neither value is supplied the whole collection is returned, which keeps
// GET /tasks a plain list for callers that do not page.
// When paging, the limit defaults to 20 and is capped at 100.
func NewPaginationParams(page, limit *int) PaginationParams {
	if page == nil && limit == nil {
		return PaginationParams{Page: 1}
	}
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Window returns the [start, end) bounds of the page within a collection of
// total items. Both bounds are clamped to total.
func (p PaginationParams) Window(total int) (int, int) {
	if p.Limit == 0 {
		return 0, total
	}
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)
	return start, end
}
