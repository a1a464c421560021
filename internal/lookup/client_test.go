// SPDX-License-Identifier: MPL-2.0

package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keranjangkita/keranjang/pkg/types"
)

func newAPIServer(t *testing.T, handler http.HandlerFunc) *ProductClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewProductClient(srv.URL+"/", WithTimeout(2*time.Second))
}

func TestProductName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status int
		want   string
		wantOK bool
	}{
		{"found", `{"status":1,"product":{"product_name":" Aqua 600ml "}}`, http.StatusOK, "Aqua 600ml", true},
		{"status zero", `{"status":0,"status_verbose":"product not found"}`, http.StatusOK, "", false},
		{"empty name", `{"status":1,"product":{"product_name":""}}`, http.StatusOK, "", false},
		{"server error", `oops`, http.StatusBadGateway, "", false},
		{"malformed json", `{"status":`, http.StatusOK, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v0/product/8991002101234.json" {
					t.Errorf("path = %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, ok := c.ProductName(context.Background(), "8991002101234")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ProductName() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestProductName_EmptyBarcodeSkipsRequest(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	c := newAPIServer(t, func(http.ResponseWriter, *http.Request) { hits.Add(1) })

	if _, ok := c.ProductName(context.Background(), ""); ok {
		t.Error("ProductName(\"\") should miss")
	}
	if hits.Load() != 0 {
		t.Error("no request should be made for an empty barcode")
	}
}

func TestProductName_Timeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := NewProductClient(srv.URL, WithTimeout(50*time.Millisecond))
	start := time.Now()
	if _, ok := c.ProductName(context.Background(), "899123"); ok {
		t.Error("ProductName() should miss on timeout")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("ProductName() took %v", elapsed)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/cgi/search.pl" || q.Get("search_terms") != "teh botol" ||
			q.Get("page_size") != "20" || q.Get("json") != "1" || q.Get("action") != "process" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`{"products":[
			{"product_name":"Teh Botol Sosro","brands":"Sosro","code":"8993"},
			{"product_name":"","brands":"","code":"8994"},
			{"product_name":"No Barcode","brands":"X","code":""}
		]}`))
	})

	got, err := c.Search(context.Background(), "  teh botol ")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	want := []APIProduct{
		{Name: "Teh Botol Sosro", Brand: "Sosro", Barcode: "8993"},
		{Name: UnknownProductName, Brand: "", Barcode: "8994"},
	}
	if len(got) != len(want) {
		t.Fatalf("Search() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Search()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSearch_BlankQuery(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	c := newAPIServer(t, func(http.ResponseWriter, *http.Request) { hits.Add(1) })

	_, err := c.Search(context.Background(), "   ")
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("Search(blank) error = %v, want validation error", err)
	}
	if hits.Load() != 0 {
		t.Error("no request should be made for a blank query")
	}
}

func TestSearch_FailureIsEmpty(t *testing.T) {
	t.Parallel()
	c := newAPIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	got, err := c.Search(context.Background(), "aqua")
	if err != nil || len(got) != 0 {
		t.Errorf("Search() = %+v, %v; want empty, nil", got, err)
	}
}
