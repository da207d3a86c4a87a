package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPaginationParams(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		want    pageParams
		wantErr bool
	}{
		{name: "defaults", query: "", want: pageParams{page: 1, limit: 10, offset: 0}},
		{name: "explicit", query: "page=3&limit=20", want: pageParams{page: 3, limit: 20, offset: 40}},
		{name: "limit capped", query: "limit=500", want: pageParams{page: 1, limit: 100, offset: 0}},
		{name: "page floor", query: "page=0", want: pageParams{page: 1, limit: 10, offset: 0}},
		{name: "negative limit", query: "limit=-5", want: pageParams{page: 1, limit: 1, offset: 0}},
		{name: "garbage page", query: "page=abc", wantErr: true},
		{name: "garbage limit", query: "limit=ten", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/v1/users?"+tc.query, nil)
			got, err := paginationParams(r)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("paginationParams: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNewPageMeta(t *testing.T) {
	meta := newPageMeta(25, pageParams{page: 2, limit: 10, offset: 10})
	want := pageMeta{
		TotalItems:   25,
		TotalPages:   3,
		CurrentPage:  2,
		ItemsPerPage: 10,
		HasNextPage:  true,
		HasPrevPage:  true,
	}
	if meta != want {
		t.Fatalf("got %+v, want %+v", meta, want)
	}

	empty := newPageMeta(0, pageParams{page: 1, limit: 10})
	if empty.TotalPages != 0 || empty.HasNextPage || empty.HasPrevPage {
		t.Fatalf("unexpected empty meta: %+v", empty)
	}
}
