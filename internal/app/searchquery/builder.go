package searchquery

import (
	"errors"
	"strings"

	"eventfinder/internal/app/locations"
)

// ErrMissingLocation is returned when neither a region nor a place is set.
var ErrMissingLocation = errors.New("please choose a state or city to search")

// Build combines a location selection, raw dates and filters into a Query.
// It performs no I/O. Dates are optional; each present side is normalized
// independently. Only the first selected event type and category are kept,
// and durations are dropped.
func Build(loc locations.Selection, dates DateRange, filters FilterSet) (Query, error) {
	location, err := serializeLocation(loc)
	if err != nil {
		return Query{}, err
	}

	q := Query{
		Location:      location,
		StartDateTime: NormalizeStart(dates.Start),
		EndDateTime:   NormalizeEnd(dates.End),
	}
	if v, ok := filters.EventTypes.First(); ok {
		q.EventType = v
	}
	if v, ok := filters.Categories.First(); ok {
		q.Category = v
	}
	if filters.PriceMin != nil {
		lo := *filters.PriceMin
		q.MinPrice = &lo
	}
	if filters.PriceMax != nil {
		hi := *filters.PriceMax
		q.MaxPrice = &hi
	}
	return q, nil
}

func serializeLocation(loc locations.Selection) (string, error) {
	place := strings.TrimSpace(loc.PlaceQuery)
	region := strings.TrimSpace(loc.SelectedRegion)

	switch {
	case place != "" && region != "":
		return place + ", " + region, nil
	case place != "":
		return place, nil
	case region != "":
		return region, nil
	default:
		return "", ErrMissingLocation
	}
}
