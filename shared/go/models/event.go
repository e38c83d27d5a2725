package models

// Event is a normalized event record as returned by the events backend.
// Only ID, Name and Date are always populated; the rest depend on what the
// ticketing provider knows about the event.
type Event struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Venue      string      `json:"venue,omitempty"`
	Location   string      `json:"location,omitempty"` // "City, ST"
	Date       string      `json:"date"`               // local date, YYYY-MM-DD or "TBD"
	Time       string      `json:"time,omitempty"`     // local time, HH:MM:SS
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	URL        string      `json:"url,omitempty"`
	Image      string      `json:"image,omitempty"`
}

// PriceRange is the advertised ticket price band of an event.
type PriceRange struct {
	Min      float64  `json:"min"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

// HasPrice reports whether the event carries price information at all.
func (e Event) HasPrice() bool {
	return e.PriceRange != nil
}

// EventsResponse is the wire payload of GET /api/events. A non-empty Error
// marks an application-level failure; Events may then be empty or absent.
type EventsResponse struct {
	Events []Event `json:"events"`
	Total  int     `json:"total,omitempty"`
	Error  string  `json:"error,omitempty"`
}
