package ticketmaster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

const sampleEvents = `{
  "_embedded": {
    "events": [
      {
        "id": "G5v",
        "name": "Lakers vs Celtics",
        "url": "https://www.ticketmaster.com/event/G5v",
        "dates": {"start": {"localDate": "2024-12-25", "localTime": "19:30:00"}},
        "images": [{"url": "https://img.example/1.jpg", "width": 640, "height": 360}, {"url": "https://img.example/2.jpg"}],
        "priceRanges": [{"type": "standard", "currency": "USD", "min": 45.5, "max": 300}],
        "_embedded": {"venues": [{"name": "Crypto.com Arena", "city": {"name": "Los Angeles"}, "state": {"name": "California", "stateCode": "CA"}}]}
      },
      {
        "id": "H7w",
        "dates": {"start": {}},
        "priceRanges": [{"min": 10}]
      }
    ]
  },
  "page": {"size": 50, "totalElements": 2}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", Options{BaseURL: srv.URL + "/"})
}

func TestSearchEventsRequest(t *testing.T) {
	var got url.Values
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.SearchEvents(context.Background(), SearchParams{
		City:              "Los Angeles",
		StateCode:         "CA",
		StartDateTime:     "2024-12-25T00:00:00Z",
		EndDateTime:       "2024-12-31T23:59:59Z",
		ClassificationIDs: []string{"KZFzniwnSyZfZ7v7nJ", "KZFzniwnSyZfZ7v7na"},
	})
	if err != nil {
		t.Fatalf("SearchEvents: %v", err)
	}

	if path != "/events.json" {
		t.Fatalf("unexpected path %q", path)
	}
	want := map[string]string{
		"apikey":           "test-key",
		"size":             "50",
		"city":             "Los Angeles",
		"stateCode":        "CA",
		"startDateTime":    "2024-12-25T00:00:00Z",
		"endDateTime":      "2024-12-31T23:59:59Z",
		"classificationId": "KZFzniwnSyZfZ7v7nJ,KZFzniwnSyZfZ7v7na",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Fatalf("param %s = %q, want %q", k, got.Get(k), v)
		}
	}
}

func TestSearchEventsOmitsEmptyParams(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := c.SearchEvents(context.Background(), SearchParams{City: "Austin"}); err != nil {
		t.Fatalf("SearchEvents: %v", err)
	}
	for _, k := range []string{"stateCode", "startDateTime", "endDateTime", "classificationId"} {
		if _, ok := got[k]; ok {
			t.Fatalf("expected %s to be omitted, got %v", k, got)
		}
	}
}

func TestSearchEventsConvertsEvents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleEvents))
	})

	events, err := c.SearchEvents(context.Background(), SearchParams{City: "Los Angeles"})
	if err != nil {
		t.Fatalf("SearchEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.Name != "Lakers vs Celtics" || first.Venue != "Crypto.com Arena" || first.Location != "Los Angeles, CA" {
		t.Fatalf("unexpected first event %+v", first)
	}
	if first.Date != "2024-12-25" || first.Time != "19:30:00" || first.Image != "https://img.example/1.jpg" {
		t.Fatalf("unexpected first event details %+v", first)
	}
	if pr := first.PriceRange; pr == nil || pr.Min != 45.5 || pr.Max == nil || *pr.Max != 300 || pr.Currency != "USD" {
		t.Fatalf("unexpected price range %+v", first.PriceRange)
	}

	second := events[1]
	if second.Name != "Unknown Event" || second.Date != "TBD" || second.Location != "" {
		t.Fatalf("expected defaults for sparse event, got %+v", second)
	}
	if pr := second.PriceRange; pr == nil || pr.Min != 10 || pr.Max != nil || pr.Currency != "USD" {
		t.Fatalf("unexpected sparse price range %+v", second.PriceRange)
	}
}

func TestSearchEventsNoEmbedded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":{"totalElements":0}}`))
	})

	events, err := c.SearchEvents(context.Background(), SearchParams{City: "Nowhere"})
	if err != nil {
		t.Fatalf("SearchEvents: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", events)
	}
}

func TestSearchEventsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"fault":{"faultstring":"Invalid ApiKey"}}`))
	})

	_, err := c.SearchEvents(context.Background(), SearchParams{City: "Austin"})
	var sErr *StatusError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected StatusError, got %T %v", err, err)
	}
	if sErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", sErr.StatusCode)
	}
}

func TestSearchEventsHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	c.limiter.SetLimit(0.001)
	c.limiter.SetBurst(1)

	// The first call consumes the only token.
	if _, err := c.SearchEvents(context.Background(), SearchParams{City: "Austin"}); err != nil {
		t.Fatalf("first SearchEvents: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.SearchEvents(ctx, SearchParams{City: "Austin"}); err == nil {
		t.Fatalf("expected throttled call to fail once the context expires")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", Options{})
	if c.baseURL != DefaultBaseURL || c.pageSize != DefaultPageSize {
		t.Fatalf("unexpected defaults: %q %d", c.baseURL, c.pageSize)
	}
	if c.Configured() {
		t.Fatalf("client without key must not report configured")
	}
}

func TestSearchEventsMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	if _, err := c.SearchEvents(context.Background(), SearchParams{City: "Austin"}); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}
