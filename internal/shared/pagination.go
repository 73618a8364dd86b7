package shared

// Pagination describes the visible window of a list.
type Pagination struct {
	Current  int `json:"current"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// NewPagination clamps page and size to sane values.
func NewPagination(current, pageSize, total, defaultSize int) Pagination {
	if defaultSize <= 0 {
		defaultSize = 5
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if current <= 0 {
		current = 1
	}
	if total < 0 {
		total = 0
	}
	return Pagination{Current: current, PageSize: pageSize, Total: total}
}

// TotalPages reports the number of pages for the current total.
func (p Pagination) TotalPages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Window returns the [start, end) bounds of the current page within n rows.
func (p Pagination) Window(n int) (int, int) {
	start := (p.Current - 1) * p.PageSize
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := start + p.PageSize
	if end > n {
		end = n
	}
	return start, end
}
