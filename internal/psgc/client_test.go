package psgc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProvinces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/provinces" {
			t.Errorf("path = %q, want /provinces", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Place{
			{Code: "043400000", Name: "Laguna"},
			{Code: "045600000", Name: "Quezon"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	places, err := c.Provinces(context.Background())
	if err != nil {
		t.Fatalf("Provinces: %v", err)
	}
	if len(places) != 2 || places[0].Name != "Laguna" {
		t.Fatalf("places = %+v", places)
	}
}

func TestCities_PathContainsProvinceCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/provinces/043400000/cities" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Place{{Code: "043405000", Name: "Calamba"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	places, err := c.Cities(context.Background(), "043400000")
	if err != nil {
		t.Fatalf("Cities: %v", err)
	}
	if len(places) != 1 || places[0].Code != "043405000" {
		t.Fatalf("places = %+v", places)
	}
}

func TestLookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	if _, err := c.Barangays(context.Background(), "043405000"); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("err = %v, want ErrLookupFailed", err)
	}
}

func TestLookup_RetriesTransientFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "busy", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]Place{{Code: "043400000", Name: "Laguna"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	places, err := c.Provinces(context.Background())
	if err != nil {
		t.Fatalf("Provinces: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if len(places) != 1 {
		t.Fatalf("places = %+v", places)
	}
}

func TestLookup_NilClient(t *testing.T) {
	var c *Client
	if _, err := c.Provinces(context.Background()); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("err = %v, want ErrLookupFailed", err)
	}
}
