package eventsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"eventfinder/internal/app/searchquery"
	"eventfinder/shared/go/models"
)

const eventsPath = "/api/events"

// TransportError reports that the request itself failed: the backend was
// unreachable, answered with a non-success status, or sent an unreadable body.
type TransportError struct {
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError carries an error message reported by the backend.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

// Client calls the events backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL, e.g.
// "http://localhost:8000". A nil httpClient selects a default one.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Search issues one GET /api/events request for q. It returns the decoded
// events (possibly empty), an *ApplicationError when the payload carries an
// error field, or a *TransportError for everything else.
func (c *Client) Search(ctx context.Context, q searchquery.Query) ([]models.Event, error) {
	apiURL := c.baseURL + eventsPath
	if enc := q.Encode(); enc != "" {
		apiURL += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	var payload models.EventsResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := resp.Status
		if decodeErr == nil && payload.Error != "" {
			reason = payload.Error
		}
		log.Warn().
			Str("url", apiURL).
			Int("status_code", resp.StatusCode).
			Msg("events backend returned non-success status")
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: errors.New(reason)}
	}

	if decodeErr != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if payload.Error != "" {
		return nil, &ApplicationError{Message: payload.Error}
	}
	if payload.Events == nil {
		return []models.Event{}, nil
	}
	return payload.Events, nil
}
