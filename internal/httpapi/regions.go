package httpapi

import (
	"net/http"

	"eventfinder/shared/go/models"
)

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, models.RegionSuggestions{
		Query:   query,
		Regions: s.geo.MatchRegions(query),
	})
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	region, ok := s.geo.CanonicalRegion(r.PathValue("region"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown region"})
		return
	}

	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, models.PlaceSuggestions{
		Region: region,
		Query:  query,
		Places: s.geo.MatchPlaces(region, query),
	})
}
