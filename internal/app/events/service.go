package events

import (
	"context"
	"errors"
	"math"
	"strings"

	"eventfinder/internal/ticketmaster"
	"eventfinder/shared/go/logging"
	"eventfinder/shared/go/models"
)

// Messages reported to clients in the response error field.
const (
	MsgAPIKeyMissing = "Ticketmaster API key not configured"
	msgFetchFailed   = "Failed to fetch events: "
	msgUnexpected    = "An error occurred: "
)

// Provider fetches raw events from the ticketing API.
type Provider interface {
	Configured() bool
	SearchEvents(ctx context.Context, p ticketmaster.SearchParams) ([]models.Event, error)
}

// RegionCoder maps a full region name to its postal code.
type RegionCoder interface {
	RegionCode(name string) (string, bool)
}

// Request is a validated event search. Dates are in any form accepted by
// ParseBound; prices are nil when absent.
type Request struct {
	Location  string
	StartDate string
	EndDate   string
	EventType string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
}

// Service answers event searches.
type Service interface {
	Search(ctx context.Context, req Request) (models.EventsResponse, error)
}

type service struct {
	provider Provider
	regions  RegionCoder
}

// New constructs an events Service
func New(provider Provider, regions RegionCoder) Service {
	return &service{provider: provider, regions: regions}
}

// Search queries the provider and post-filters the page. Provider failures
// are reported in the response's Error field; the returned error is reserved
// for bad dates and cancelled contexts.
func (s *service) Search(ctx context.Context, req Request) (models.EventsResponse, error) {
	if err := ctx.Err(); err != nil {
		return models.EventsResponse{}, err
	}

	if !s.provider.Configured() {
		return models.EventsResponse{Error: MsgAPIKeyMissing, Events: []models.Event{}}, nil
	}

	params, err := s.params(req)
	if err != nil {
		return models.EventsResponse{}, err
	}

	found, err := s.provider.SearchEvents(ctx, params)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.EventsResponse{}, ctxErr
		}
		logging.WithContext(ctx).Warn().Err(err).Str("city", params.City).Msg("event provider search failed")
		return models.EventsResponse{Error: providerMessage(err), Events: []models.Event{}}, nil
	}

	events := Refine(found, req.MinPrice, req.MaxPrice)
	return models.EventsResponse{Events: events, Total: len(events)}, nil
}

func (s *service) params(req Request) (ticketmaster.SearchParams, error) {
	start, err := ParseBound(req.StartDate, false)
	if err != nil {
		return ticketmaster.SearchParams{}, err
	}
	end, err := ParseBound(req.EndDate, true)
	if err != nil {
		return ticketmaster.SearchParams{}, err
	}

	city, state := s.splitLocation(req.Location)
	return ticketmaster.SearchParams{
		City:              city,
		StateCode:         state,
		StartDateTime:     start,
		EndDateTime:       end,
		ClassificationIDs: Classifications(req.EventType, req.Category),
	}, nil
}

// splitLocation turns "{place}, {region}" or a lone name into a city and a
// state code. A lone name that is a known region searches the whole region.
func (s *service) splitLocation(location string) (city, stateCode string) {
	place, region, hasRegion := strings.Cut(location, ",")
	place = strings.TrimSpace(place)
	region = strings.TrimSpace(region)

	if !hasRegion {
		if code, ok := s.regions.RegionCode(place); ok {
			return "", code
		}
		return place, ""
	}

	if code, ok := s.regions.RegionCode(region); ok {
		return place, code
	}
	if len(region) == 2 {
		return place, strings.ToUpper(region)
	}
	return place, ""
}

func providerMessage(err error) string {
	if errors.Is(err, ticketmaster.ErrMalformedResponse) {
		return msgUnexpected + err.Error()
	}
	return msgFetchFailed + err.Error()
}

// Refine drops events whose advertised price band misses [minPrice,
// maxPrice] and then keeps only the first event of each name. Events
// without price information always pass the price check.
func Refine(found []models.Event, minPrice, maxPrice *float64) []models.Event {
	out := make([]models.Event, 0, len(found))
	seen := make(map[string]struct{}, len(found))

	for _, e := range found {
		if !priceOverlaps(e, minPrice, maxPrice) {
			continue
		}
		if _, dup := seen[e.Name]; dup {
			continue
		}
		seen[e.Name] = struct{}{}
		out = append(out, e)
	}
	return out
}

func priceOverlaps(e models.Event, minPrice, maxPrice *float64) bool {
	if !e.HasPrice() {
		return true
	}
	eventMax := math.Inf(1)
	if e.PriceRange.Max != nil {
		eventMax = *e.PriceRange.Max
	}
	if minPrice != nil && eventMax < *minPrice {
		return false
	}
	if maxPrice != nil && e.PriceRange.Min > *maxPrice {
		return false
	}
	return true
}
