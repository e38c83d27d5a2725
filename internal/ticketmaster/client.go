// Package ticketmaster is a small client for the Ticketmaster Discovery API.
package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"eventfinder/shared/go/logging"
	"eventfinder/shared/go/models"
)

const (
	DefaultBaseURL  = "https://app.ticketmaster.com/discovery/v2"
	DefaultPageSize = 50

	defaultCurrency = "USD"
	unknownName     = "Unknown Event"
	unknownDate     = "TBD"
)

// ErrMalformedResponse wraps a response body that could not be decoded.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "ticketmaster api error: " + e.Status
	}
	return fmt.Sprintf("ticketmaster api error: %s - %s", e.Status, e.Body)
}

// Options tunes a Client. Zero values select the defaults.
type Options struct {
	BaseURL       string
	PageSize      int
	RatePerSecond float64
	HTTPClient    *http.Client
}

// Client calls the Discovery API. Outbound requests are throttled by a token
// bucket shared by all callers.
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Discovery API client for apiKey.
func NewClient(apiKey string, opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		pageSize:   pageSize,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SearchParams narrows an event search. Date-times use the API's
// "2006-01-02T15:04:05Z" form.
type SearchParams struct {
	City              string
	StateCode         string
	StartDateTime     string
	EndDateTime       string
	ClassificationIDs []string
}

func (p SearchParams) values() url.Values {
	v := url.Values{}
	if p.City != "" {
		v.Set("city", p.City)
	}
	if p.StateCode != "" {
		v.Set("stateCode", p.StateCode)
	}
	if p.StartDateTime != "" {
		v.Set("startDateTime", p.StartDateTime)
	}
	if p.EndDateTime != "" {
		v.Set("endDateTime", p.EndDateTime)
	}
	if len(p.ClassificationIDs) > 0 {
		v.Set("classificationId", strings.Join(p.ClassificationIDs, ","))
	}
	return v
}

// Discovery API response structures
type eventsResponse struct {
	Embedded *struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded,omitempty"`
}

type tmEvent struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	URL         string         `json:"url"`
	Dates       tmDates        `json:"dates"`
	Images      []tmImage      `json:"images"`
	PriceRanges []tmPriceRange `json:"priceRanges"`
	Embedded    *struct {
		Venues []tmVenue `json:"venues"`
	} `json:"_embedded,omitempty"`
}

type tmDates struct {
	Start struct {
		LocalDate string `json:"localDate"`
		LocalTime string `json:"localTime"`
	} `json:"start"`
}

type tmImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type tmPriceRange struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency string   `json:"currency"`
}

type tmVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		Name      string `json:"name"`
		StateCode string `json:"stateCode"`
	} `json:"state"`
}

// doRequest performs a rate-limited GET against the Discovery API.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}

	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Upstream(ctx, "ticketmaster", endpoint, 0, time.Since(start), err)
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	logging.Upstream(ctx, "ticketmaster", endpoint, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}

// SearchEvents returns one page of events matching p, in API order.
func (c *Client) SearchEvents(ctx context.Context, p SearchParams) ([]models.Event, error) {
	params := p.values()
	params.Set("size", strconv.Itoa(c.pageSize))

	var result eventsResponse
	if err := c.doRequest(ctx, "events.json", params, &result); err != nil {
		return nil, err
	}

	if result.Embedded == nil {
		return []models.Event{}, nil
	}

	events := make([]models.Event, 0, len(result.Embedded.Events))
	for _, te := range result.Embedded.Events {
		events = append(events, convertEvent(te))
	}
	return events, nil
}

func convertEvent(te tmEvent) models.Event {
	e := models.Event{
		ID:   te.ID,
		Name: te.Name,
		URL:  te.URL,
		Date: te.Dates.Start.LocalDate,
		Time: te.Dates.Start.LocalTime,
	}
	if e.Name == "" {
		e.Name = unknownName
	}
	if e.Date == "" {
		e.Date = unknownDate
	}

	if te.Embedded != nil && len(te.Embedded.Venues) > 0 {
		v := te.Embedded.Venues[0]
		e.Venue = v.Name
		e.Location = joinNonEmpty(", ", v.City.Name, v.State.StateCode)
	}

	if len(te.Images) > 0 {
		e.Image = te.Images[0].URL
	}

	if len(te.PriceRanges) > 0 {
		e.PriceRange = convertPriceRange(te.PriceRanges[0])
	}

	return e
}

func convertPriceRange(pr tmPriceRange) *models.PriceRange {
	out := &models.PriceRange{Currency: pr.Currency}
	if pr.Min != nil {
		out.Min = *pr.Min
	}
	if pr.Max != nil {
		hi := *pr.Max
		out.Max = &hi
	}
	if out.Currency == "" {
		out.Currency = defaultCurrency
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
