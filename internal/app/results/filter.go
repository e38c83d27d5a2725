package results

import (
	"strings"

	"eventfinder/shared/go/models"
)

// Filter narrows events to those whose name, venue or location contains
// keyword, case-insensitively. A blank keyword returns events as is. The
// input slice is never modified and order is preserved.
func Filter(events []models.Event, keyword string) []models.Event {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return events
	}

	matched := make([]models.Event, 0, len(events))
	for _, e := range events {
		if matches(e, k) {
			matched = append(matched, e)
		}
	}
	return matched
}

func matches(e models.Event, lowered string) bool {
	for _, field := range [...]string{e.Name, e.Venue, e.Location} {
		if field != "" && strings.Contains(strings.ToLower(field), lowered) {
			return true
		}
	}
	return false
}
