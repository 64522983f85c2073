package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListParsesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("filters[commodity]"); got != "Tomato" {
			t.Errorf("commodity filter = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q", got)
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"records":[
			{"commodity":"Tomato","market":"Azadpur","state":"Delhi","modal_price":"1850"},
			{"commodity":"Tomato","market":"Bad Row","state":"Delhi","modal_price":"n/a"}
		]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", nil)
	records, err := c.List(context.Background(), "Tomato", 5, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	// The unparseable row is skipped, not fatal.
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.PricePerQuintal != 1850 || rec.Market != "Azadpur" {
		t.Fatalf("record = %+v", rec)
	}
	if rec.ID == "" {
		t.Fatal("record missing stable id")
	}
}

func TestListErrorsOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", nil)
	if _, err := c.List(context.Background(), "Onion", 5, 0); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestListRequiresEndpoint(t *testing.T) {
	c := NewClient("", "", nil)
	if _, err := c.List(context.Background(), "Onion", 5, 0); err == nil {
		t.Fatal("expected error without endpoint")
	}
}
