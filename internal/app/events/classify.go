package events

// Ticketmaster segment classification IDs.
const (
	segmentMusic         = "KZFzniwnSyZfZ7v7nJ"
	segmentSports        = "KZFzniwnSyZfZ7v7nE"
	segmentArtsTheatre   = "KZFzniwnSyZfZ7v7na"
	segmentMiscellaneous = "KZFzniwnSyZfZ7v7n1"
)

var eventTypeSegments = map[string]string{
	"concert":    segmentMusic,
	"sports":     segmentSports,
	"theater":    segmentArtsTheatre,
	"festival":   segmentMiscellaneous,
	"conference": segmentMiscellaneous,
	"workshop":   segmentMiscellaneous,
}

var categorySegments = map[string]string{
	"music":   segmentMusic,
	"arts":    segmentArtsTheatre,
	"food":    segmentMiscellaneous,
	"outdoor": segmentMiscellaneous,
	"family":  segmentMiscellaneous,
}

// Classifications maps an event type and category to segment IDs, type
// first. Unknown values are ignored.
func Classifications(eventType, category string) []string {
	var ids []string
	if id, ok := eventTypeSegments[eventType]; ok {
		ids = append(ids, id)
	}
	if id, ok := categorySegments[category]; ok {
		ids = append(ids, id)
	}
	return ids
}
