package searchquery

import "strings"

const (
	startOfDay = "00:00"
	endOfDay   = "23:59"
	midnight   = "00:00"
)

// DateRange holds the raw start and end input, either side may be blank.
// Values are date ("2024-12-25") or date-time ("2024-12-25T19:30") strings
// and are never parsed, only normalized.
type DateRange struct {
	Start string
	End   string
}

// NormalizeStart completes a raw start value with the start-of-day time when
// it lacks one. Blank input yields "".
func NormalizeStart(raw string) string {
	return normalize(raw, startOfDay)
}

// NormalizeEnd completes a raw end value with the end-of-day time when it
// lacks one or carries exactly midnight. Blank input yields "".
func NormalizeEnd(raw string) string {
	return normalize(raw, endOfDay)
}

func normalize(raw, fallback string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}

	date, clock, hasTime := strings.Cut(v, "T")
	if !hasTime {
		return v + "T" + fallback
	}
	if clock == "" || clock == midnight {
		return date + "T" + fallback
	}
	return v
}
