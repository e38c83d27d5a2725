package searchquery

import (
	"fmt"
	"slices"
	"strings"
)

// Selection is an insertion-ordered set of filter values. Toggling a value
// adds it at the end or removes it if already present.
type Selection struct {
	values []string
}

// NewSelection builds a selection from values, skipping duplicates.
func NewSelection(values ...string) Selection {
	var s Selection
	for _, v := range values {
		if !s.Has(v) {
			s.values = append(s.values, v)
		}
	}
	return s
}

// Toggle adds v if absent and removes it otherwise.
func (s *Selection) Toggle(v string) {
	if i := slices.Index(s.values, v); i >= 0 {
		s.values = slices.Delete(s.values, i, i+1)
		return
	}
	s.values = append(s.values, v)
}

// Has reports whether v is selected.
func (s Selection) Has(v string) bool {
	return slices.Contains(s.values, v)
}

// First returns the earliest-added value still selected.
func (s Selection) First() (string, bool) {
	if len(s.values) == 0 {
		return "", false
	}
	return s.values[0], true
}

// Values returns the selected values in insertion order.
func (s Selection) Values() []string {
	return slices.Clone(s.values)
}

// Len returns the number of selected values.
func (s Selection) Len() int {
	return len(s.values)
}

// FilterSet is the optional refinement the user picked for a search.
type FilterSet struct {
	EventTypes Selection
	Categories Selection
	PriceMin   *float64
	PriceMax   *float64
	// Durations are collected for display only and are never sent upstream.
	Durations Selection
}

// Option is a selectable filter value with its human label.
type Option struct {
	Value string
	Label string
}

// EventTypeOptions lists the event types offered to the user.
var EventTypeOptions = []Option{
	{Value: "concert", Label: "Concert"},
	{Value: "sports", Label: "Sports"},
	{Value: "theater", Label: "Theater"},
	{Value: "festival", Label: "Festival"},
	{Value: "conference", Label: "Conference"},
	{Value: "workshop", Label: "Workshop"},
	{Value: "other", Label: "Other"},
}

// CategoryOptions lists the categories offered to the user.
var CategoryOptions = []Option{
	{Value: "music", Label: "Music"},
	{Value: "arts", Label: "Arts & Culture"},
	{Value: "food", Label: "Food & Drink"},
	{Value: "outdoor", Label: "Outdoor"},
	{Value: "family", Label: "Family"},
	{Value: "networking", Label: "Networking"},
}

// DurationOptions lists the duration buckets offered to the user.
var DurationOptions = []Option{
	{Value: "short", Label: "Less than 2 hours"},
	{Value: "medium", Label: "2-4 hours"},
	{Value: "long", Label: "4+ hours"},
	{Value: "multi-day", Label: "Multi-day"},
}

// SelectOptions builds a selection from raw values, matching each against
// opts case-insensitively and keeping the option's canonical value.
func SelectOptions(opts []Option, raw ...string) (Selection, error) {
	var s Selection
	for _, v := range raw {
		i := slices.IndexFunc(opts, func(o Option) bool { return strings.EqualFold(o.Value, v) })
		if i < 0 {
			return Selection{}, fmt.Errorf("unknown value %q, expected one of: %s", v, strings.Join(OptionValues(opts), ", "))
		}
		if !s.Has(opts[i].Value) {
			s.values = append(s.values, opts[i].Value)
		}
	}
	return s, nil
}

// OptionValues returns the values of opts in order.
func OptionValues(opts []Option) []string {
	values := make([]string, len(opts))
	for i, o := range opts {
		values[i] = o.Value
	}
	return values
}
