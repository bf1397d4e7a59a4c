package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/claims?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Errorf("expected page=1 size=%d, got %+v", DefaultPageSize, p)
	}
}

func TestFromContext_CapsPageSize(t *testing.T) {
	p := paramsFor(t, "page=3&page_size=500")
	if p.PageSize != MaxPageSize {
		t.Errorf("expected page_size capped at %d, got %d", MaxPageSize, p.PageSize)
	}
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
}

func TestFromContext_InvalidValues(t *testing.T) {
	p := paramsFor(t, "page=-2&page_size=abc")
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Errorf("expected defaults for invalid input, got %+v", p)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 4, PageSize: 25}
	if got := p.Offset(); got != 75 {
		t.Errorf("expected offset 75, got %d", got)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{101, 10, 11},
	}
	for _, tc := range cases {
		p := Params{Page: 1, PageSize: tc.size}
		if got := p.TotalPages(tc.total); got != tc.want {
			t.Errorf("TotalPages(%d) with size %d = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}
