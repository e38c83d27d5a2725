package locations

import (
	"errors"
	"slices"
)

var (
	// ErrNoSuggestions indicates a region pick with no open suggestions.
	ErrNoSuggestions = errors.New("no region suggestions to pick from")
	// ErrNotSuggested indicates a pick of a region that is not currently suggested.
	ErrNotSuggested = errors.New("region is not among the current suggestions")
	// ErrSuggestionsClosed indicates a region pick while the region list is closed.
	ErrSuggestionsClosed = errors.New("region suggestions are not open")
	// ErrNoRegionSelected indicates a place edit before a region was picked.
	ErrNoRegionSelected = errors.New("select a region first")
)

// Matcher answers the typeahead queries the resolver needs.
type Matcher interface {
	MatchRegions(query string) []string
	MatchPlaces(region, query string) []string
}

// State is the resolver's position in the two-level selection.
type State int

const (
	NoRegion State = iota
	RegionTyping
	RegionSelected
	PlaceTyping
	PlaceSelected
)

func (s State) String() string {
	switch s {
	case NoRegion:
		return "no_region"
	case RegionTyping:
		return "region_typing"
	case RegionSelected:
		return "region_selected"
	case PlaceTyping:
		return "place_typing"
	case PlaceSelected:
		return "place_selected"
	default:
		return "unknown"
	}
}

// Field identifies one of the two typeahead inputs.
type Field int

const (
	RegionField Field = iota
	PlaceField
)

// Selection is the user's current location input. PlaceQuery is only
// meaningful while SelectedRegion is set.
type Selection struct {
	RegionQuery    string
	SelectedRegion string
	PlaceQuery     string
}

// suggestions holds one typeahead list and its visibility. A blur that
// arrives while a pick is in progress is deferred until the pick finishes.
type suggestions struct {
	items       []string
	visible     bool
	picking     bool
	blurPending bool
}

func (s *suggestions) close() {
	s.visible = false
	s.picking = false
	s.blurPending = false
}

// Resolver drives the region-then-place typeahead. Every transition is
// synchronous; a Resolver is owned by one caller and is not safe for
// concurrent use.
type Resolver struct {
	index       Matcher
	sel         Selection
	placePicked bool
	regions     suggestions
	places      suggestions
}

// New creates a Resolver in the NoRegion state.
func New(index Matcher) *Resolver {
	return &Resolver{index: index}
}

// SetRegionQuery replaces the region text. Any selected region and all place
// state are dropped, even if text equals the previously selected region.
func (r *Resolver) SetRegionQuery(text string) {
	r.sel = Selection{RegionQuery: text}
	r.placePicked = false
	r.places = suggestions{}

	r.regions.items = r.index.MatchRegions(text)
	r.regions.visible = true
	r.regions.picking = false
	r.regions.blurPending = false
}

// PickRegion selects one of the currently suggested regions. The list must be
// open or have a pick in progress.
func (r *Resolver) PickRegion(region string) error {
	if len(r.regions.items) == 0 {
		return ErrNoSuggestions
	}
	if !r.regions.visible && !r.regions.picking {
		return ErrSuggestionsClosed
	}
	if !slices.Contains(r.regions.items, region) {
		return ErrNotSuggested
	}

	r.sel = Selection{RegionQuery: region, SelectedRegion: region}
	r.placePicked = false
	r.places = suggestions{}
	r.regions.close()
	return nil
}

// SetPlaceQuery replaces the place text. It is rejected without a selected
// region.
func (r *Resolver) SetPlaceQuery(text string) error {
	if r.sel.SelectedRegion == "" {
		return ErrNoRegionSelected
	}

	r.sel.PlaceQuery = text
	r.placePicked = false
	r.places.items = r.index.MatchPlaces(r.sel.SelectedRegion, text)
	r.places.visible = true
	r.places.picking = false
	r.places.blurPending = false
	return nil
}

// PickPlace sets the place text to place and closes the place list.
func (r *Resolver) PickPlace(place string) error {
	if r.sel.SelectedRegion == "" {
		return ErrNoRegionSelected
	}

	r.sel.PlaceQuery = place
	r.placePicked = true
	r.places.items = nil
	r.places.close()
	return nil
}

// Focus opens the suggestion list of field. The place input stays closed
// until a region is selected; an empty place input browses the region.
func (r *Resolver) Focus(f Field) {
	switch f {
	case RegionField:
		r.regions.visible = true
	case PlaceField:
		if r.sel.SelectedRegion == "" {
			return
		}
		if r.sel.PlaceQuery == "" && len(r.places.items) == 0 {
			r.places.items = r.index.MatchPlaces(r.sel.SelectedRegion, "")
		}
		r.places.visible = true
	}
}

// BeginPick marks that a suggestion of field is being chosen (pointer down).
// Until the pick completes or is cancelled, Blur will not close the list.
func (r *Resolver) BeginPick(f Field) {
	if l := r.list(f); l.visible {
		l.picking = true
	}
}

// CancelPick abandons a pick started with BeginPick, applying any blur that
// arrived in the meantime.
func (r *Resolver) CancelPick(f Field) {
	l := r.list(f)
	l.picking = false
	if l.blurPending {
		l.close()
	}
}

// Blur closes the suggestion list of field unless a pick is in progress, in
// which case the close is deferred to the pick.
func (r *Resolver) Blur(f Field) {
	l := r.list(f)
	if l.picking {
		l.blurPending = true
		return
	}
	l.close()
}

// Suggestions returns the current suggestion items of field.
func (r *Resolver) Suggestions(f Field) []string {
	return slices.Clone(r.list(f).items)
}

// Visible reports whether the suggestion list of field should be shown.
func (r *Resolver) Visible(f Field) bool {
	l := r.list(f)
	return l.visible && len(l.items) > 0
}

// NoPlaceMatches reports whether the user typed a place that matches nothing
// in the selected region.
func (r *Resolver) NoPlaceMatches() bool {
	return r.places.visible && r.sel.PlaceQuery != "" && !r.placePicked && len(r.places.items) == 0
}

// PlaceEnabled reports whether the place input accepts edits.
func (r *Resolver) PlaceEnabled() bool {
	return r.sel.SelectedRegion != ""
}

// Selection returns a snapshot of the current location input.
func (r *Resolver) Selection() Selection {
	return r.sel
}

// State derives the resolver state from the current selection.
func (r *Resolver) State() State {
	switch {
	case r.sel.SelectedRegion == "" && r.sel.RegionQuery == "":
		return NoRegion
	case r.sel.SelectedRegion == "":
		return RegionTyping
	case r.placePicked:
		return PlaceSelected
	case r.sel.PlaceQuery != "":
		return PlaceTyping
	default:
		return RegionSelected
	}
}

func (r *Resolver) list(f Field) *suggestions {
	if f == PlaceField {
		return &r.places
	}
	return &r.regions
}
