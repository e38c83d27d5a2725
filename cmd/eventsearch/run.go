package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"eventfinder/internal/app/locations"
	"eventfinder/internal/app/orchestrator"
	"eventfinder/internal/app/searchquery"
	"eventfinder/internal/eventsapi"
	"eventfinder/internal/geo"
	"eventfinder/shared/go/logging"
	"eventfinder/shared/go/models"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	backend    string
	state      string
	city       string
	start      string
	end        string
	eventTypes string
	categories string
	durations  string
	minPrice   string
	maxPrice   string
	keyword    string
	asJSON     bool
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("eventsearch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.backend, "backend", envOrDefault("EVENTFINDER_BACKEND_URL", "http://localhost:8000"), "event finder backend base URL")
	fs.StringVar(&o.state, "state", "", "state name or prefix, e.g. \"Cal\"")
	fs.StringVar(&o.city, "city", "", "city within the state")
	fs.StringVar(&o.start, "start", "", "start date, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	fs.StringVar(&o.end, "end", "", "end date, YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	fs.StringVar(&o.eventTypes, "type", "", "comma-separated event types, the first is sent: "+optionHelp(searchquery.EventTypeOptions))
	fs.StringVar(&o.categories, "category", "", "comma-separated categories, the first is sent: "+optionHelp(searchquery.CategoryOptions))
	fs.StringVar(&o.durations, "duration", "", "comma-separated durations, display only: "+optionHelp(searchquery.DurationOptions))
	fs.StringVar(&o.minPrice, "min-price", "", "minimum ticket price")
	fs.StringVar(&o.maxPrice, "max-price", "", "maximum ticket price")
	fs.StringVar(&o.keyword, "keyword", "", "filter results by name, venue or location")
	fs.BoolVar(&o.asJSON, "json", false, "print results as JSON")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logging.SetGlobalLogger(logging.New(logging.Config{Level: o.logLevel, Format: "text", Output: stderr}))

	ix, err := geo.Embedded()
	if err != nil {
		fmt.Fprintf(stderr, "load regions: %v\n", err)
		return exitError
	}

	sel, err := resolveLocation(locations.New(ix), o.state, o.city)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	filters, err := buildFilters(o)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	q, err := searchquery.Build(sel, searchquery.DateRange{Start: o.start, End: o.end}, filters)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	log.Debug().Str("query", q.Encode()).Msg("searching")

	orch := orchestrator.New(eventsapi.NewClient(o.backend, nil))
	state, err := orch.Submit(ctx, q)
	if state.Phase == orchestrator.Error {
		fmt.Fprintln(stderr, state.ErrorMessage)
		return exitError
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	if state.Notice != "" {
		fmt.Fprintln(stdout, state.Notice)
		return exitOK
	}

	if err := printEvents(stdout, orch.Visible(o.keyword), o.asJSON); err != nil {
		fmt.Fprintf(stderr, "write results: %v\n", err)
		return exitError
	}
	return exitOK
}

// resolveLocation drives the typeahead the way a user would: type the state,
// pick the single or exact suggestion, then type the city and pick it when it
// is suggested. An unsuggested city is kept as free text.
func resolveLocation(r *locations.Resolver, state, city string) (locations.Selection, error) {
	state = strings.TrimSpace(state)
	city = strings.TrimSpace(city)

	if state == "" {
		if city != "" {
			return locations.Selection{}, errors.New("-city needs -state")
		}
		return r.Selection(), nil
	}

	r.SetRegionQuery(state)
	region, err := choose(r.Suggestions(locations.RegionField), state)
	if err != nil {
		return locations.Selection{}, fmt.Errorf("state %q: %w", state, err)
	}
	if err := r.PickRegion(region); err != nil {
		return locations.Selection{}, err
	}

	if city == "" {
		return r.Selection(), nil
	}
	if err := r.SetPlaceQuery(city); err != nil {
		return locations.Selection{}, err
	}
	if place, err := choose(r.Suggestions(locations.PlaceField), city); err == nil {
		if err := r.PickPlace(place); err != nil {
			return locations.Selection{}, err
		}
	}
	return r.Selection(), nil
}

func choose(suggestions []string, typed string) (string, error) {
	for _, s := range suggestions {
		if strings.EqualFold(s, typed) {
			return s, nil
		}
	}
	switch len(suggestions) {
	case 0:
		return "", errors.New("no matches")
	case 1:
		return suggestions[0], nil
	default:
		return "", fmt.Errorf("ambiguous, did you mean one of: %s", strings.Join(suggestions, ", "))
	}
}

func buildFilters(o options) (searchquery.FilterSet, error) {
	var (
		f   searchquery.FilterSet
		err error
	)
	if f.EventTypes, err = searchquery.SelectOptions(searchquery.EventTypeOptions, splitList(o.eventTypes)...); err != nil {
		return searchquery.FilterSet{}, fmt.Errorf("-type: %w", err)
	}
	if f.Categories, err = searchquery.SelectOptions(searchquery.CategoryOptions, splitList(o.categories)...); err != nil {
		return searchquery.FilterSet{}, fmt.Errorf("-category: %w", err)
	}
	if f.Durations, err = searchquery.SelectOptions(searchquery.DurationOptions, splitList(o.durations)...); err != nil {
		return searchquery.FilterSet{}, fmt.Errorf("-duration: %w", err)
	}
	if f.PriceMin, err = parsePrice("-min-price", o.minPrice); err != nil {
		return searchquery.FilterSet{}, err
	}
	if f.PriceMax, err = parsePrice("-max-price", o.maxPrice); err != nil {
		return searchquery.FilterSet{}, err
	}
	return f, nil
}

func optionHelp(opts []searchquery.Option) string {
	parts := make([]string, len(opts))
	for i, opt := range opts {
		parts[i] = fmt.Sprintf("%s (%s)", opt.Value, opt.Label)
	}
	return strings.Join(parts, ", ")
}

func parsePrice(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return &v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printEvents(w io.Writer, list []models.Event, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tNAME\tVENUE\tLOCATION\tPRICE")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.Date, e.Time, e.Name, e.Venue, e.Location, formatPrice(e.PriceRange))
	}
	return tw.Flush()
}

func formatPrice(pr *models.PriceRange) string {
	if pr == nil {
		return "-"
	}
	lo := strconv.FormatFloat(pr.Min, 'f', 2, 64)
	if pr.Max == nil {
		return fmt.Sprintf("%s+ %s", lo, pr.Currency)
	}
	return fmt.Sprintf("%s-%s %s", lo, strconv.FormatFloat(*pr.Max, 'f', 2, 64), pr.Currency)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
