package search

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// fakeSearcher records every category query and can be told to fail one
// category.
type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	calls   int
	tvErr   error
}

func (f *fakeSearcher) record(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.calls++
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSearcher) SearchMovies(ctx context.Context, query string, page int) (*tmdb.MoviePage, error) {
	f.record(query)
	return &tmdb.MoviePage{Results: []tmdb.Movie{{ID: 1, Title: query}}}, nil
}

func (f *fakeSearcher) SearchTVShows(ctx context.Context, query string, page int) (*tmdb.TVPage, error) {
	f.record(query)
	if f.tvErr != nil {
		return nil, f.tvErr
	}
	return &tmdb.TVPage{Results: []tmdb.TVShow{{ID: 2, Name: query}}}, nil
}

func (f *fakeSearcher) SearchPeople(ctx context.Context, query string, page int) (*tmdb.PersonPage, error) {
	f.record(query)
	return &tmdb.PersonPage{Results: []tmdb.Person{{ID: 3, Name: query}}}, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestAggregator(searcher mediaSearcher) *Aggregator {
	return NewAggregator(searcher, time.Minute, 10*time.Millisecond, time.Second, testLogger())
}

// waitForResults polls until the aggregator leaves the loading state.
func waitForResults(t *testing.T, a *Aggregator) Results {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r := a.Results()
		if !r.IsLoading {
			return r
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Timed out waiting for results")
	return Results{}
}

func TestAggregatorDebounceCollapsesBurst(t *testing.T) {
	fake := &fakeSearcher{}
	a := newTestAggregator(fake)

	a.SetQuery("m")
	a.SetQuery("ma")
	a.SetQuery("matrix")

	r := waitForResults(t, a)
	if r.Err != nil {
		t.Fatalf("Unexpected error: %v", r.Err)
	}
	if len(r.Movies) != 1 || r.Movies[0].Title != "matrix" {
		t.Errorf("Expected results for final query, got %v", r.Movies)
	}

	// One fan-out means exactly three category calls, all for "matrix"
	if got := fake.callCount(); got != 3 {
		t.Errorf("Expected 3 category calls, got %d", got)
	}
	fake.mu.Lock()
	for _, q := range fake.queries {
		if q != "matrix" {
			t.Errorf("Intermediate query %q reached the searcher", q)
		}
	}
	fake.mu.Unlock()
}

func TestAggregatorEmptyQueryMakesNoCalls(t *testing.T) {
	fake := &fakeSearcher{}
	a := newTestAggregator(fake)

	a.SetQuery("   ")
	time.Sleep(50 * time.Millisecond)

	if got := fake.callCount(); got != 0 {
		t.Errorf("Expected no calls for whitespace query, got %d", got)
	}
	r := a.Results()
	if r.IsLoading || r.Err != nil || len(r.Movies) != 0 {
		t.Errorf("Expected empty state, got %+v", r)
	}
}

func TestAggregatorEmptyQueryResetsResults(t *testing.T) {
	fake := &fakeSearcher{}
	a := newTestAggregator(fake)

	a.SetQuery("matrix")
	waitForResults(t, a)

	a.SetQuery("")
	r := a.Results()
	if len(r.Movies) != 0 || len(r.TVShows) != 0 || len(r.People) != 0 {
		t.Errorf("Expected cleared results, got %+v", r)
	}
}

func TestAggregatorCacheHitSkipsFanOut(t *testing.T) {
	fake := &fakeSearcher{}
	a := newTestAggregator(fake)

	a.SetQuery("matrix")
	waitForResults(t, a)
	if got := fake.callCount(); got != 3 {
		t.Fatalf("Expected 3 calls after first search, got %d", got)
	}

	a.SetQuery("")
	a.SetQuery("matrix")
	r := waitForResults(t, a)

	if got := fake.callCount(); got != 3 {
		t.Errorf("Expected cached repeat to make no calls, got %d total", got)
	}
	if len(r.Movies) != 1 || r.Movies[0].Title != "matrix" {
		t.Errorf("Expected cached payload, got %v", r.Movies)
	}
}

func TestAggregatorClearCacheForcesFanOut(t *testing.T) {
	fake := &fakeSearcher{}
	a := newTestAggregator(fake)

	a.SetQuery("matrix")
	waitForResults(t, a)

	a.ClearCache()
	a.SetQuery("")
	a.SetQuery("matrix")
	waitForResults(t, a)

	if got := fake.callCount(); got != 6 {
		t.Errorf("Expected a fresh fan-out after ClearCache, got %d total calls", got)
	}
}

func TestAggregatorSingleCategoryFailureFailsAll(t *testing.T) {
	fake := &fakeSearcher{tvErr: errors.New("boom")}
	a := newTestAggregator(fake)

	a.SetQuery("matrix")
	r := waitForResults(t, a)

	if !errors.Is(r.Err, ErrSearchFailed) {
		t.Fatalf("Expected ErrSearchFailed, got %v", r.Err)
	}
	// All-or-nothing: no partial results
	if len(r.Movies) != 0 || len(r.People) != 0 {
		t.Errorf("Expected no partial results, got %+v", r.Payload)
	}
}

func TestAggregatorStaleGenerationDiscarded(t *testing.T) {
	fake := &fakeSearcher{}
	// Debounce long enough that nothing fires during the test
	a := NewAggregator(fake, time.Minute, time.Hour, time.Second, testLogger())

	a.SetQuery("current")

	// A completion stamped with a superseded generation must not land
	stale := Results{Payload: Payload{Movies: []tmdb.Movie{{ID: 99, Title: "stale"}}}}
	a.apply(0, stale)

	r := a.Results()
	if len(r.Movies) != 0 {
		t.Error("Stale completion overwrote current state")
	}
	if !r.IsLoading {
		t.Error("Expected loading state to survive stale completion")
	}
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	m := NewManager(func() *Aggregator {
		return newTestAggregator(&fakeSearcher{})
	}, time.Minute)

	a := m.Get("session-a")
	b := m.Get("session-b")
	if a == b {
		t.Fatal("Expected distinct aggregators per session")
	}
	if m.Get("session-a") != a {
		t.Error("Expected the same aggregator on repeat access")
	}
}
