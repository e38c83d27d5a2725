package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"eventfinder/internal/app/events"
	"eventfinder/shared/go/logging"
	"eventfinder/shared/go/validator"
)

type eventsQuery struct {
	Location  string   `name:"location" validate:"required"`
	StartDate string   `name:"start_date"`
	EndDate   string   `name:"end_date"`
	EventType string   `name:"event_type"`
	Category  string   `name:"category"`
	MinPrice  *float64 `name:"min_price" validate:"omitempty,gte=0"`
	MaxPrice  *float64 `name:"max_price" validate:"omitempty,gte=0"`
}

func parseEventsQuery(values url.Values) (eventsQuery, []string) {
	q := eventsQuery{
		Location:  strings.TrimSpace(values.Get("location")),
		StartDate: strings.TrimSpace(values.Get("start_date")),
		EndDate:   strings.TrimSpace(values.Get("end_date")),
		EventType: strings.TrimSpace(values.Get("event_type")),
		Category:  strings.TrimSpace(values.Get("category")),
	}

	var problems []string
	prices := []struct {
		key string
		dst **float64
	}{{"min_price", &q.MinPrice}, {"max_price", &q.MaxPrice}}

	for _, p := range prices {
		raw := strings.TrimSpace(values.Get(p.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			problems = append(problems, p.key+" must be a number")
			continue
		}
		*p.dst = &v
	}
	return q, problems
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q, problems := parseEventsQuery(r.URL.Query())
	if len(problems) == 0 {
		problems = validator.Messages(s.validate.Struct(q))
	}
	if len(problems) == 0 && q.MinPrice != nil && q.MaxPrice != nil && *q.MaxPrice < *q.MinPrice {
		problems = append(problems, "max_price must be at least min_price")
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: strings.Join(problems, "; ")})
		return
	}

	resp, err := s.events.Search(r.Context(), events.Request{
		Location:  q.Location,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		EventType: q.EventType,
		Category:  q.Category,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
	})
	if err != nil {
		if errors.Is(err, events.ErrInvalidDate) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		logging.WithContext(r.Context()).Error().Err(err).Msg("event search failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
