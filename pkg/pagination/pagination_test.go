package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	p := FromRequest(req)

	assert.Equal(t, DefaultParams(), p)
	assert.Equal(t, 12, p.PerPage)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?page=3&per_page=50", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, 100, p.Offset)
}

func TestFromRequest_InvalidValuesFallBack(t *testing.T) {
	for _, query := range []string{"page=-1", "page=0", "page=abc", "per_page=0", "per_page=101"} {
		req := httptest.NewRequest(http.MethodGet, "/products?"+query, nil)
		p := FromRequest(req)
		assert.Equal(t, 1, p.Page, query)
		assert.Equal(t, DefaultPerPage, p.PerPage, query)
	}
}

func TestFromRequest_PerPageAtCap(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products?per_page=100", nil)
	assert.Equal(t, MaxPerPage, FromRequest(req).PerPage)
}

func TestNewResult_MiddlePage(t *testing.T) {
	result := NewResult([]string{"a", "b"}, 10, Params{Page: 2, PerPage: 2, Offset: 2})

	assert.Equal(t, 10, result.TotalCount)
	assert.Equal(t, 5, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_LastPartialPage(t *testing.T) {
	result := NewResult([]string{"a"}, 11, Params{Page: 3, PerPage: 5, Offset: 10})

	assert.Equal(t, 3, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_NilDataBecomesEmpty(t *testing.T) {
	result := NewResult[string](nil, 0, DefaultParams())

	assert.NotNil(t, result.Data)
	assert.Equal(t, 0, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}

func TestSlice_TwentyProductsTwoPages(t *testing.T) {
	all := make([]int, 20)
	for i := range all {
		all[i] = i + 1
	}

	first := Slice(all, DefaultParams())
	assert.Len(t, first.Data, 12)
	assert.Equal(t, 1, first.Data[0])
	assert.Equal(t, 2, first.TotalPages)
	assert.True(t, first.HasNext)

	second := Slice(all, Params{Page: 2, PerPage: 12})
	assert.Equal(t, []int{13, 14, 15, 16, 17, 18, 19, 20}, second.Data)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrev)
}

func TestSlice_PastEndIsEmpty(t *testing.T) {
	result := Slice([]int{1, 2, 3}, Params{Page: 4, PerPage: 12})

	assert.Empty(t, result.Data)
	assert.NotNil(t, result.Data)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 1, result.TotalPages)
}

func TestSlice_DoesNotAliasInput(t *testing.T) {
	all := []int{1, 2, 3}
	result := Slice(all, DefaultParams())
	result.Data[0] = 99
	assert.Equal(t, 1, all[0])
}
