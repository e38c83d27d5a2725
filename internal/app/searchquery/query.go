package searchquery

import (
	"net/url"
	"strconv"
)

// Query keys understood by the events backend.
const (
	KeyLocation  = "location"
	KeyStartDate = "start_date"
	KeyEndDate   = "end_date"
	KeyEventType = "event_type"
	KeyCategory  = "category"
	KeyMinPrice  = "min_price"
	KeyMaxPrice  = "max_price"
)

// Query is the canonical search request. Empty strings and nil prices are
// absent and never serialized. A Query is built once per submission and not
// modified afterwards.
type Query struct {
	Location      string
	StartDateTime string
	EndDateTime   string
	EventType     string
	Category      string
	MinPrice      *float64
	MaxPrice      *float64
}

// Values serializes the present fields of q.
func (q Query) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}

	set(KeyLocation, q.Location)
	set(KeyStartDate, q.StartDateTime)
	set(KeyEndDate, q.EndDateTime)
	set(KeyEventType, q.EventType)
	set(KeyCategory, q.Category)
	if q.MinPrice != nil {
		v.Set(KeyMinPrice, formatPrice(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		v.Set(KeyMaxPrice, formatPrice(*q.MaxPrice))
	}
	return v
}

// Encode returns q as a URL query string.
func (q Query) Encode() string {
	return q.Values().Encode()
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
