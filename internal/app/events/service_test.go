package events

import (
	"context"
	"errors"
	"strings"
	"testing"

	"eventfinder/internal/geo"
	"eventfinder/internal/ticketmaster"
	"eventfinder/shared/go/models"
)

type stubProvider struct {
	configured bool
	events     []models.Event
	err        error
	got        *ticketmaster.SearchParams
}

func (s *stubProvider) Configured() bool { return s.configured }

func (s *stubProvider) SearchEvents(_ context.Context, p ticketmaster.SearchParams) ([]models.Event, error) {
	s.got = &p
	return s.events, s.err
}

func floatPtr(v float64) *float64 { return &v }

func priced(name string, lo float64, hi *float64) models.Event {
	return models.Event{ID: name, Name: name, Date: "2024-12-25", PriceRange: &models.PriceRange{Min: lo, Max: hi, Currency: "USD"}}
}

func newTestService(t *testing.T, p *stubProvider) Service {
	t.Helper()
	ix, err := geo.Embedded()
	if err != nil {
		t.Fatalf("load geo index: %v", err)
	}
	return New(p, ix)
}

func TestSearchWithoutAPIKey(t *testing.T) {
	p := &stubProvider{}
	resp, err := newTestService(t, p).Search(context.Background(), Request{Location: "Ohio"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Error != MsgAPIKeyMissing || resp.Events == nil || len(resp.Events) != 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if p.got != nil {
		t.Fatalf("provider must not be called without a key")
	}
}

func TestSearchBuildsProviderParams(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want ticketmaster.SearchParams
	}{
		{
			name: "place and region",
			req:  Request{Location: "Los Angeles, California", StartDate: "2024-12-25T00:00", EndDate: "2024-12-31"},
			want: ticketmaster.SearchParams{City: "Los Angeles", StateCode: "CA", StartDateTime: "2024-12-25T00:00:00Z", EndDateTime: "2024-12-31T23:59:59Z"},
		},
		{
			name: "region only",
			req:  Request{Location: "Texas", EventType: "sports"},
			want: ticketmaster.SearchParams{StateCode: "TX", ClassificationIDs: []string{segmentSports}},
		},
		{
			name: "place only",
			req:  Request{Location: "Portland", Category: "arts"},
			want: ticketmaster.SearchParams{City: "Portland", ClassificationIDs: []string{segmentArtsTheatre}},
		},
		{
			name: "postal code region",
			req:  Request{Location: "Austin, tx", EventType: "concert", Category: "food"},
			want: ticketmaster.SearchParams{City: "Austin", StateCode: "TX", ClassificationIDs: []string{segmentMusic, segmentMiscellaneous}},
		},
		{
			name: "unknown region",
			req:  Request{Location: "Springfield, Nowhere", EventType: "karaoke"},
			want: ticketmaster.SearchParams{City: "Springfield"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := &stubProvider{configured: true}
			if _, err := newTestService(t, p).Search(context.Background(), tc.req); err != nil {
				t.Fatalf("Search: %v", err)
			}
			got := *p.got
			if got.City != tc.want.City || got.StateCode != tc.want.StateCode ||
				got.StartDateTime != tc.want.StartDateTime || got.EndDateTime != tc.want.EndDateTime ||
				strings.Join(got.ClassificationIDs, ",") != strings.Join(tc.want.ClassificationIDs, ",") {
				t.Fatalf("params = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSearchInvalidDate(t *testing.T) {
	p := &stubProvider{configured: true}
	_, err := newTestService(t, p).Search(context.Background(), Request{Location: "Ohio", StartDate: "not a date"})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if p.got != nil {
		t.Fatalf("provider must not be called with an invalid date")
	}
}

func TestSearchProviderFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantPrefix string
	}{
		{name: "status", err: &ticketmaster.StatusError{StatusCode: 401, Status: "401 Unauthorized"}, wantPrefix: "Failed to fetch events: "},
		{name: "malformed", err: ticketmaster.ErrMalformedResponse, wantPrefix: "An error occurred: "},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := &stubProvider{configured: true, err: tc.err}
			resp, err := newTestService(t, p).Search(context.Background(), Request{Location: "Ohio"})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if !strings.HasPrefix(resp.Error, tc.wantPrefix) {
				t.Fatalf("expected %q prefix, got %q", tc.wantPrefix, resp.Error)
			}
			if resp.Events == nil || len(resp.Events) != 0 {
				t.Fatalf("expected empty events on failure, got %v", resp.Events)
			}
		})
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestService(t, &stubProvider{configured: true}).Search(ctx, Request{Location: "Ohio"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSearchRefinesResults(t *testing.T) {
	p := &stubProvider{configured: true, events: []models.Event{
		priced("Cheap Show", 5, floatPtr(15)),
		priced("Mid Show", 20, floatPtr(60)),
		priced("Mid Show", 25, floatPtr(40)),
		{ID: "free", Name: "Unpriced", Date: "TBD"},
	}}

	resp, err := newTestService(t, p).Search(context.Background(), Request{Location: "Ohio", MinPrice: floatPtr(18)})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 2 || len(resp.Events) != 2 {
		t.Fatalf("expected 2 events, got %+v", resp)
	}
	if resp.Events[0].Name != "Mid Show" || resp.Events[0].PriceRange.Min != 20 || resp.Events[1].Name != "Unpriced" {
		t.Fatalf("unexpected events %+v", resp.Events)
	}
}

func TestRefinePriceOverlap(t *testing.T) {
	tests := []struct {
		name   string
		event  models.Event
		lo, hi *float64
		keep   bool
	}{
		{name: "no bounds", event: priced("a", 10, floatPtr(20)), keep: true},
		{name: "below min", event: priced("a", 10, floatPtr(20)), lo: floatPtr(25), keep: false},
		{name: "touches min", event: priced("a", 10, floatPtr(20)), lo: floatPtr(20), keep: true},
		{name: "above max", event: priced("a", 30, floatPtr(50)), hi: floatPtr(25), keep: false},
		{name: "touches max", event: priced("a", 25, floatPtr(50)), hi: floatPtr(25), keep: true},
		{name: "open ended max", event: priced("a", 10, nil), lo: floatPtr(1000), keep: true},
		{name: "zero bound is a bound", event: priced("a", 5, floatPtr(9)), hi: floatPtr(0), keep: false},
		{name: "no price info", event: models.Event{Name: "a"}, lo: floatPtr(100), hi: floatPtr(200), keep: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Refine([]models.Event{tc.event}, tc.lo, tc.hi)
			if (len(got) == 1) != tc.keep {
				t.Fatalf("keep = %v, want %v", len(got) == 1, tc.keep)
			}
		})
	}
}

func TestParseBound(t *testing.T) {
	tests := []struct {
		raw     string
		end     bool
		want    string
		wantErr bool
	}{
		{raw: "", want: ""},
		{raw: "2024-12-25", want: "2024-12-25T00:00:00Z"},
		{raw: "2024-12-25", end: true, want: "2024-12-25T23:59:59Z"},
		{raw: "2024-12-25T19:30", want: "2024-12-25T19:30:00Z"},
		{raw: "2024-12-25T23:59", end: true, want: "2024-12-25T23:59:00Z"},
		{raw: "2024-12-25T19:30:15", want: "2024-12-25T19:30:15Z"},
		{raw: "2024-12-31T20:00-08:00", end: true, want: "2024-12-31T20:00:00Z"},
		{raw: "2024-12-31T20:00:00+02:00", want: "2024-12-31T20:00:00Z"},
		{raw: "garbage", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseBound(tc.raw, tc.end)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("ParseBound(%q): expected ErrInvalidDate, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseBound(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseBound(%q, %v) = %q, want %q", tc.raw, tc.end, got, tc.want)
		}
	}
}

func TestClassifications(t *testing.T) {
	if got := Classifications("", ""); len(got) != 0 {
		t.Fatalf("expected no ids, got %v", got)
	}
	if got := Classifications("festival", "family"); strings.Join(got, ",") != segmentMiscellaneous+","+segmentMiscellaneous {
		t.Fatalf("unexpected ids %v", got)
	}
}
