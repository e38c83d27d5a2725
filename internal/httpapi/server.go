package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"eventfinder/internal/app/events"
	"eventfinder/shared/go/models"
	"eventfinder/shared/go/validator"
)

// ServiceName is reported by the health check.
const ServiceName = "event-finder-backend"

// EventService answers event searches.
type EventService interface {
	Search(ctx context.Context, req events.Request) (models.EventsResponse, error)
}

// GeoIndex answers the region and place typeahead queries.
type GeoIndex interface {
	MatchRegions(query string) []string
	MatchPlaces(region, query string) []string
	CanonicalRegion(name string) (string, bool)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	events   EventService
	geo      GeoIndex
	validate *validator.Validator
}

// New configures a Server.
func New(events EventService, geo GeoIndex) *Server {
	return &Server{
		events:   events,
		geo:      geo,
		validate: validator.New(),
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/events", s.handleEvents)

	mux.HandleFunc("GET /api/v1/regions", s.handleRegions)
	mux.HandleFunc("GET /api/v1/regions/{region}/places", s.handlePlaces)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: ServiceName})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
