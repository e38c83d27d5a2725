package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/itlightning/dateparse"
)

// UpstreamLayout is the date-time form the ticketing API accepts.
const UpstreamLayout = "2006-01-02T15:04:05Z"

// ErrInvalidDate is returned for a date bound that cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ParseBound converts a search date bound to UpstreamLayout. A date without a
// time starts at midnight, or ends at 23:59:59 when end is set. An explicit
// offset is dropped and the wall-clock time kept. Blank input yields "".
func ParseBound(raw string, end bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	t, err := parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidDate, raw, err)
	}

	if end && dateOnly(raw) {
		t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
	}
	return t.Format(UpstreamLayout), nil
}

// parse accepts the forms the search form produces and falls back to
// dateparse for anything else. Zone-less input is read as UTC.
func parse(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseIn(raw, time.UTC)
}

func dateOnly(raw string) bool {
	return !strings.ContainsAny(raw, "T:")
}
