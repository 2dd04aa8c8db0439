package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage fills the storefront product grid.
	DefaultPerPage = 12
	// MaxPerPage is the largest per_page a client may ask for.
	MaxPerPage = 100
)

// Params selects one page. Offset is derived from Page and PerPage.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

func queryInt(r *http.Request, key string, ok func(int) bool) (int, bool) {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || !ok(v) {
		return 0, false
	}
	return v, true
}

// FromRequest reads page and per_page from the query string. Missing or
// out-of-range values are replaced by the defaults rather than rejected.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()
	if v, ok := queryInt(r, "page", func(v int) bool { return v > 0 }); ok {
		p.Page = v
	}
	if v, ok := queryInt(r, "per_page", func(v int) bool { return v > 0 && v <= MaxPerPage }); ok {
		p.PerPage = v
	}
	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Result is one page plus the totals a pager needs.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult wraps an already-cut page. Data is never encoded as null.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if params.PerPage > 0 {
		pages = (totalCount + params.PerPage - 1) / params.PerPage
	}
	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: pages,
		HasNext:    params.Page < pages,
		HasPrev:    params.Page > 1,
	}
}

// Slice cuts a copy of one page out of all. Pages past the end are empty
// but still report the real totals.
func Slice[T any](all []T, params Params) Result[T] {
	params.PerPage = cmpOr(params.PerPage, DefaultPerPage)
	params.Page = max(params.Page, 1)
	params.Offset = (params.Page - 1) * params.PerPage

	start := min(params.Offset, len(all))
	end := min(start+params.PerPage, len(all))
	return NewResult(append([]T(nil), all[start:end]...), len(all), params)
}

func cmpOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
