package geo

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"eventfinder/shared/go/models"
)

// MaxSuggestions caps every typeahead answer.
const MaxSuggestions = 10

var (
	// ErrEmptyDataset is returned when an index would contain no regions.
	ErrEmptyDataset = errors.New("geo dataset is empty")
	// ErrDuplicateRegion is returned when two regions share a name.
	ErrDuplicateRegion = errors.New("duplicate region")
)

//go:embed data/us_regions.json
var dataset embed.FS

// Index answers region and place queries over a static dataset. It is
// immutable once built and safe for concurrent use without locking.
type Index struct {
	regions []models.Region
	byName  map[string]int
}

// NewIndex builds an Index from regions in canonical order. The input is
// copied, so later changes by the caller do not leak into the index.
func NewIndex(regions []models.Region) (*Index, error) {
	if len(regions) == 0 {
		return nil, ErrEmptyDataset
	}

	ix := &Index{
		regions: make([]models.Region, 0, len(regions)),
		byName:  make(map[string]int, len(regions)),
	}
	for _, r := range regions {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("region without a name (code %q)", r.Code)
		}
		key := strings.ToLower(name)
		if _, ok := ix.byName[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRegion, name)
		}

		places := make([]string, 0, len(r.Places))
		for _, p := range r.Places {
			if p = strings.TrimSpace(p); p != "" {
				places = append(places, p)
			}
		}

		ix.byName[key] = len(ix.regions)
		ix.regions = append(ix.regions, models.Region{
			Name:   name,
			Code:   strings.ToUpper(strings.TrimSpace(r.Code)),
			Places: places,
		})
	}
	return ix, nil
}

var loadEmbedded = sync.OnceValues(func() (*Index, error) {
	raw, err := dataset.ReadFile("data/us_regions.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded dataset: %w", err)
	}
	var regions []models.Region
	if err := json.Unmarshal(raw, &regions); err != nil {
		return nil, fmt.Errorf("decode embedded dataset: %w", err)
	}
	return NewIndex(regions)
})

// Embedded returns the index built from the dataset compiled into the
// binary. It is parsed once per process and shared by every caller.
func Embedded() (*Index, error) {
	return loadEmbedded()
}

// MatchRegions returns up to MaxSuggestions region names containing query,
// case-insensitively, in canonical order. A blank query matches nothing.
func (ix *Index) MatchRegions(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []string{}
	}

	matches := make([]string, 0, MaxSuggestions)
	for _, r := range ix.regions {
		if strings.Contains(strings.ToLower(r.Name), q) {
			matches = append(matches, r.Name)
			if len(matches) == MaxSuggestions {
				break
			}
		}
	}
	return matches
}

// MatchPlaces returns up to MaxSuggestions places of region whose names start
// with query, case-insensitively, in stored order. A blank query browses the
// first places of the region; an unknown or blank region matches nothing.
func (ix *Index) MatchPlaces(region, query string) []string {
	r, ok := ix.lookup(region)
	if !ok {
		return []string{}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	matches := make([]string, 0, MaxSuggestions)
	for _, p := range r.Places {
		if q == "" || strings.HasPrefix(strings.ToLower(p), q) {
			matches = append(matches, p)
			if len(matches) == MaxSuggestions {
				break
			}
		}
	}
	return matches
}

// Regions lists every region name in canonical order.
func (ix *Index) Regions() []string {
	names := make([]string, len(ix.regions))
	for i, r := range ix.regions {
		names[i] = r.Name
	}
	return names
}

// Dataset returns a copy of every region with its places.
func (ix *Index) Dataset() []models.Region {
	out := make([]models.Region, len(ix.regions))
	for i, r := range ix.regions {
		out[i] = models.Region{Name: r.Name, Code: r.Code, Places: slices.Clone(r.Places)}
	}
	return out
}

// CanonicalRegion returns the stored spelling of a region name.
func (ix *Index) CanonicalRegion(name string) (string, bool) {
	r, ok := ix.lookup(name)
	if !ok {
		return "", false
	}
	return r.Name, true
}

// RegionCode returns the postal code of a region, e.g. "CA" for "California".
func (ix *Index) RegionCode(name string) (string, bool) {
	r, ok := ix.lookup(name)
	if !ok || r.Code == "" {
		return "", false
	}
	return r.Code, true
}

func (ix *Index) lookup(name string) (models.Region, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return models.Region{}, false
	}
	i, ok := ix.byName[key]
	if !ok {
		return models.Region{}, false
	}
	return ix.regions[i], true
}
