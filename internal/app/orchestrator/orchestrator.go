package orchestrator

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"eventfinder/internal/app/results"
	"eventfinder/internal/app/searchquery"
	"eventfinder/internal/eventsapi"
	"eventfinder/shared/go/models"
)

// NoResultsNotice is shown when a search succeeds without any events.
const NoResultsNotice = "No events found. Try adjusting your search criteria."

// ErrStaleResponse is returned to a submitter whose response arrived after a
// newer submission; its result is discarded.
var ErrStaleResponse = errors.New("search superseded by a newer submission")

// Phase is the lifecycle position of the current search.
type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Searcher performs one backend search.
type Searcher interface {
	Search(ctx context.Context, q searchquery.Query) ([]models.Event, error)
}

// State is a snapshot of the current search.
type State struct {
	Phase        Phase
	Results      []models.Event
	ErrorMessage string
	Notice       string
	Generation   uint64
}

// Orchestrator owns the search state. Submissions may overlap; each one is
// numbered and only the most recent may write its outcome.
type Orchestrator struct {
	searcher Searcher

	mu         sync.Mutex
	generation uint64
	state      State
}

// New creates an Orchestrator in the Idle phase.
func New(searcher Searcher) *Orchestrator {
	return &Orchestrator{searcher: searcher}
}

// Submit resets the state to Loading, calls the searcher exactly once and
// records the outcome. The returned error is the search failure, if any, or
// ErrStaleResponse when a newer submission started in the meantime.
func (o *Orchestrator) Submit(ctx context.Context, q searchquery.Query) (State, error) {
	o.mu.Lock()
	o.generation++
	gen := o.generation
	o.state = State{Phase: Loading, Generation: gen}
	o.mu.Unlock()

	events, err := o.searcher.Search(ctx, q)

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		log.Debug().
			Uint64("generation", gen).
			Uint64("latest", o.generation).
			Msg("discarding stale search response")
		return o.snapshot(), ErrStaleResponse
	}

	if err != nil {
		o.state = State{Phase: Error, ErrorMessage: errorMessage(err), Generation: gen}
		return o.snapshot(), err
	}

	if events == nil {
		events = []models.Event{}
	}
	o.state = State{Phase: Success, Results: events, Generation: gen}
	if len(events) == 0 {
		o.state.Notice = NoResultsNotice
	}
	return o.snapshot(), nil
}

// State returns a snapshot of the current search.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

// Visible derives the displayed events for keyword from the stored results.
// It never triggers a new search.
func (o *Orchestrator) Visible(keyword string) []models.Event {
	return results.Filter(o.State().Results, keyword)
}

func (o *Orchestrator) snapshot() State {
	s := o.state
	s.Results = slices.Clone(o.state.Results)
	return s
}

func errorMessage(err error) string {
	var appErr *eventsapi.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Failed to search events: " + err.Error()
}
