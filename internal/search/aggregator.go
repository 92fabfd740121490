package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/amaumene/cinesync/internal/cache"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// ErrSearchFailed is the generic retryable error surfaced when any of the
// three category queries fails. The search is all-or-nothing: no partial
// results are ever returned.
var ErrSearchFailed = errors.New("search failed, please retry")

// mediaSearcher is the slice of the TMDB client the aggregator needs.
type mediaSearcher interface {
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.MoviePage, error)
	SearchTVShows(ctx context.Context, query string, page int) (*tmdb.TVPage, error)
	SearchPeople(ctx context.Context, query string, page int) (*tmdb.PersonPage, error)
}

// Payload is a categorized, cached search result set.
type Payload struct {
	Movies  []tmdb.Movie  `json:"movies"`
	TVShows []tmdb.TVShow `json:"tv_shows"`
	People  []tmdb.Person `json:"people"`
}

// Results is the live result state exposed to callers.
type Results struct {
	Payload
	IsLoading bool  `json:"is_loading"`
	Err       error `json:"-"`
}

// Aggregator turns a stream of query updates into deduplicated,
// categorized result sets. Keystrokes are debounced, results are cached
// per exact query string, and the three category queries fan out
// concurrently and join before the state updates.
//
// All shared state is owned by one aggregator instance and mutated only
// under its mutex; stale completions are discarded by generation stamping.
type Aggregator struct {
	searcher mediaSearcher
	cache    *cache.Cache[Payload]
	debounce *Debouncer
	timeout  time.Duration
	logger   *logrus.Logger

	mu         sync.Mutex
	generation uint64
	results    Results
}

// NewAggregator creates a search aggregator. cacheTTL bounds how long a
// query's payload is served without a fresh fan-out; debounceDelay is the
// keystroke quiet interval.
func NewAggregator(searcher mediaSearcher, cacheTTL, debounceDelay, requestTimeout time.Duration, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		searcher: searcher,
		cache:    cache.New[Payload](cacheTTL),
		debounce: NewDebouncer(debounceDelay),
		timeout:  requestTimeout,
		logger:   logger,
	}
}

// SetQuery feeds the aggregator a new query. An empty or whitespace-only
// query short-circuits to the empty state with no network calls; anything
// else schedules a debounced search. Each call invalidates every search
// still in flight.
func (a *Aggregator) SetQuery(text string) {
	query := strings.TrimSpace(text)

	a.mu.Lock()
	a.generation++
	gen := a.generation
	if query == "" {
		a.results = Results{}
		a.mu.Unlock()
		a.debounce.Cancel()
		return
	}
	a.results.IsLoading = true
	a.results.Err = nil
	a.mu.Unlock()

	a.debounce.Schedule(func() {
		a.run(gen, query)
	})
}

// Results returns a snapshot of the current result state.
func (a *Aggregator) Results() Results {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.results
}

// ClearCache drops every cached query payload.
func (a *Aggregator) ClearCache() {
	a.cache.Flush()
}

func (a *Aggregator) run(gen uint64, query string) {
	if !a.isCurrent(gen) {
		return
	}

	// Cache hit within TTL: no network calls.
	if payload, ok := a.cache.Get(query); ok {
		a.apply(gen, Results{Payload: payload})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	payload, err := a.fanOut(ctx, query)
	if err != nil {
		a.logger.WithError(err).WithField("query", query).Warn("Search fan-out failed")
		a.apply(gen, Results{Err: ErrSearchFailed})
		return
	}

	a.cache.Put(query, *payload)
	a.apply(gen, Results{Payload: *payload})
}

// fanOut issues the three category queries concurrently and joins them.
// Any single failure fails the whole search.
func (a *Aggregator) fanOut(ctx context.Context, query string) (*Payload, error) {
	var (
		wg                         sync.WaitGroup
		payload                    Payload
		movieErr, tvErr, personErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		page, err := a.searcher.SearchMovies(ctx, query, 1)
		if err != nil {
			movieErr = err
			return
		}
		payload.Movies = page.Results
	}()
	go func() {
		defer wg.Done()
		page, err := a.searcher.SearchTVShows(ctx, query, 1)
		if err != nil {
			tvErr = err
			return
		}
		payload.TVShows = page.Results
	}()
	go func() {
		defer wg.Done()
		page, err := a.searcher.SearchPeople(ctx, query, 1)
		if err != nil {
			personErr = err
			return
		}
		payload.People = page.Results
	}()
	wg.Wait()

	for _, err := range []error{movieErr, tvErr, personErr} {
		if err != nil {
			return nil, err
		}
	}
	return &payload, nil
}

// apply installs results only if gen is still the active generation, so a
// response from a superseded search can never overwrite a newer one.
func (a *Aggregator) apply(gen uint64, results Results) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		return
	}
	a.results = results
}

func (a *Aggregator) isCurrent(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return gen == a.generation
}
