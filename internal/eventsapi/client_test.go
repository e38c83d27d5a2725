package eventsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventfinder/internal/app/searchquery"
)

func newBackend(t *testing.T, status int, body string, gotQuery *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if gotQuery != nil {
			*gotQuery = r.URL.RawQuery
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchSendsPresentFieldsOnly(t *testing.T) {
	var rawQuery string
	srv := newBackend(t, http.StatusOK, `{"events":[]}`, &rawQuery)

	lo := 10.0
	q := searchquery.Query{
		Location:      "Los Angeles, California",
		StartDateTime: "2024-12-25T00:00",
		MinPrice:      &lo,
	}
	if _, err := NewClient(srv.URL+"/", nil).Search(context.Background(), q); err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := "location=Los+Angeles%2C+California&min_price=10&start_date=2024-12-25T00%3A00"
	if rawQuery != want {
		t.Fatalf("query = %q, want %q", rawQuery, want)
	}
}

func TestSearchDecodesEvents(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{
		"events": [
			{"id": "e1", "name": "Jazz Night", "venue": "Blue Note", "location": "New York, NY",
			 "date": "2024-12-25", "time": "20:00:00",
			 "priceRange": {"min": 25, "max": 60, "currency": "USD"}},
			{"id": "e2", "name": "Open Mic", "date": "2024-12-26"}
		],
		"total": 2
	}`, nil)

	events, err := NewClient(srv.URL, nil).Search(context.Background(), searchquery.Query{Location: "New York"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].PriceRange == nil || events[0].PriceRange.Min != 25 || *events[0].PriceRange.Max != 60 {
		t.Fatalf("unexpected price range: %#v", events[0].PriceRange)
	}
	if events[1].PriceRange != nil {
		t.Fatalf("expected no price range for e2")
	}
}

func TestSearchMissingEventsIsEmpty(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{}`, nil)

	events, err := NewClient(srv.URL, nil).Search(context.Background(), searchquery.Query{Location: "Ohio"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", events)
	}
}

func TestSearchApplicationError(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `{"error":"rate limited","events":[]}`, nil)

	_, err := NewClient(srv.URL, nil).Search(context.Background(), searchquery.Query{Location: "Ohio"})
	var appErr *ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected ApplicationError, got %T %v", err, err)
	}
	if appErr.Error() != "rate limited" {
		t.Fatalf("expected verbatim message, got %q", appErr.Error())
	}
}

func TestSearchNonSuccessStatus(t *testing.T) {
	srv := newBackend(t, http.StatusBadGateway, `upstream down`, nil)

	_, err := NewClient(srv.URL, nil).Search(context.Background(), searchquery.Query{Location: "Ohio"})
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
	if tErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", tErr.StatusCode)
	}
	if !strings.HasPrefix(tErr.Error(), "request failed") {
		t.Fatalf("expected request failed message, got %q", tErr.Error())
	}
}

func TestSearchNonSuccessStatusKeepsBackendReason(t *testing.T) {
	srv := newBackend(t, http.StatusBadRequest, `{"error":"location is required"}`, nil)

	_, err := NewClient(srv.URL, nil).Search(context.Background(), searchquery.Query{})
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
	if !strings.Contains(tErr.Error(), "location is required") {
		t.Fatalf("expected backend reason in %q", tErr.Error())
	}
}

func TestSearchMalformedBody(t *testing.T) {
	srv := newBackend(t, http.StatusOK, `<html>`, nil)

	_, err := NewClient(srv.URL, nil).Search(context.Background(), searchquery.Query{Location: "Ohio"})
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
}

func TestSearchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).Search(context.Background(), searchquery.Query{Location: "Ohio"})
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
	if tErr.StatusCode != 0 {
		t.Fatalf("expected no status for network failure, got %d", tErr.StatusCode)
	}
}
