package models

// Region is a first-level administrative division (a US state) together with
// the places that belong to it, in their stored order.
type Region struct {
	Name   string   `json:"name"`
	Code   string   `json:"code"` // two-letter postal code
	Places []string `json:"places"`
}

// RegionSuggestions is the payload of the region typeahead route.
type RegionSuggestions struct {
	Query   string   `json:"query"`
	Regions []string `json:"regions"`
}

// PlaceSuggestions is the payload of the place typeahead route.
type PlaceSuggestions struct {
	Region string   `json:"region"`
	Query  string   `json:"query"`
	Places []string `json:"places"`
}
