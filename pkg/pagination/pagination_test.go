package pagination

import (
	"net/url"
	"testing"
)

func TestFromQuery(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 20},
		{name: "explicit", query: "page=3&limit=50", wantPage: 3, wantLimit: 50},
		{name: "limit above max", query: "page=2&limit=500", wantPage: 2, wantLimit: 100},
		{name: "zero page", query: "page=0&limit=10", wantPage: 1, wantLimit: 10},
		{name: "negative values", query: "page=-4&limit=-1", wantPage: 1, wantLimit: 20},
		{name: "non numeric", query: "page=abc&limit=xyz", wantPage: 1, wantLimit: 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("invalid query %q: %v", tc.query, err)
			}

			got := FromQuery(values)
			if got.Page != tc.wantPage {
				t.Fatalf("page = %d, want %d", got.Page, tc.wantPage)
			}
			if got.Limit != tc.wantLimit {
				t.Fatalf("limit = %d, want %d", got.Limit, tc.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := Normalize(Params{Page: 3, Limit: 20})
	if got := p.Offset(); got != 40 {
		t.Fatalf("offset = %d, want 40", got)
	}

	p = Normalize(Params{})
	if got := p.Offset(); got != 0 {
		t.Fatalf("offset = %d, want 0", got)
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 20}, 41)
	if meta.TotalPages != 3 {
		t.Fatalf("total pages = %d, want 3", meta.TotalPages)
	}
	if meta.Total != 41 {
		t.Fatalf("total = %d, want 41", meta.Total)
	}

	meta = NewMeta(Params{Page: 1, Limit: 20}, 40)
	if meta.TotalPages != 2 {
		t.Fatalf("total pages = %d, want 2", meta.TotalPages)
	}

	meta = NewMeta(Params{Page: 1, Limit: 20}, 0)
	if meta.TotalPages != 0 {
		t.Fatalf("total pages = %d, want 0", meta.TotalPages)
	}
}
