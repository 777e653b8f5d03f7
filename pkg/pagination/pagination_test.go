package pagination

import (
	"net/url"
	"testing"
)

func TestFromQueryDefaultsAndClamping(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{name: "empty", query: "", wantPage: 1, wantLimit: DefaultLimit},
		{name: "explicit", query: "page=3&limit=25", wantPage: 3, wantLimit: 25},
		{name: "limit above max", query: "limit=500", wantPage: 1, wantLimit: MaxLimit},
		{name: "negative page", query: "page=-2", wantPage: 1, wantLimit: DefaultLimit},
		{name: "garbage values", query: "page=abc&limit=xyz", wantPage: 1, wantLimit: DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			p := FromQuery(values)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d", p.Page, p.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 4, Limit: 10}
	if p.Offset() != 30 {
		t.Fatalf("unexpected offset %d", p.Offset())
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 10}, 35)
	if meta.TotalPages != 4 {
		t.Fatalf("expected 4 pages, got %d", meta.TotalPages)
	}
	if !meta.HasNextPage || !meta.HasPrevPage {
		t.Fatalf("expected both neighbors for middle page, got %+v", meta)
	}

	last := NewMeta(Params{Page: 4, Limit: 10}, 35)
	if last.HasNextPage {
		t.Fatal("last page should not have a next page")
	}

	empty := NewMeta(Params{Page: 1, Limit: 10}, 0)
	if empty.TotalPages != 0 || empty.HasNextPage || empty.HasPrevPage {
		t.Fatalf("unexpected meta for empty result: %+v", empty)
	}
}
