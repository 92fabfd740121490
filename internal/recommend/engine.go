package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

const (
	// maxSeedsPerType bounds the similar-title lookups per media type
	maxSeedsPerType = 3
	// topGenreCount is how many affinity genres drive discovery
	topGenreCount = 3
	// listLimit is the length of each produced list
	listLimit = 10
)

// State describes the engine's result state. There are no automatic
// retries; the caller re-triggers on navigation.
type State string

const (
	StateIdle          State = "idle"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateReadyFallback State = "ready_with_fallback"
)

// Result holds the three ranked lists produced for a user.
type Result struct {
	State     State                 `json:"state"`
	Personal  []models.MediaSummary `json:"personal"`
	ByGenre   []models.MediaSummary `json:"by_genre"`
	Trending  []models.MediaSummary `json:"trending"`
	TopGenres []int                 `json:"top_genres,omitempty"`
}

// catalogClient is the slice of the TMDB client the engine needs.
type catalogClient interface {
	MovieDetails(ctx context.Context, movieID int) (*tmdb.MovieDetails, error)
	TVShowDetails(ctx context.Context, tvID int) (*tmdb.TVDetails, error)
	DiscoverMovies(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.MoviePage, error)
	DiscoverTVShows(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.TVPage, error)
}

// trendingSource serves the trending-this-week list. Backed by the
// cached catalog controller so the scheduler's warm jobs cover this
// path too.
type trendingSource interface {
	Trending(ctx context.Context) ([]models.MediaSummary, error)
}

// membershipSource reads a user's list memberships.
type membershipSource interface {
	GetMembershipsByUser(userID string) ([]*models.ListMembership, error)
}

// Engine produces personal, genre-affinity and trending recommendation
// lists from a user's list memberships.
type Engine struct {
	catalog     catalogClient
	trending    trendingSource
	memberships membershipSource
	logger      *logrus.Logger
}

// NewEngine creates a recommendation engine
func NewEngine(catalog catalogClient, trending trendingSource, memberships membershipSource, logger *logrus.Logger) *Engine {
	return &Engine{
		catalog:     catalog,
		trending:    trending,
		memberships: memberships,
		logger:      logger,
	}
}

// BuildForUser produces the ranked lists for a user. An empty userID is
// an anonymous caller and gets trending only. Failure of the personalized
// pipeline degrades to trending with StateReadyFallback; failure of the
// trending fetch itself is the only terminal error.
func (e *Engine) BuildForUser(ctx context.Context, userID string) (*Result, error) {
	trending, err := e.fetchTrending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending: %w", err)
	}

	if userID == "" {
		return &Result{State: StateReady, Trending: trending}, nil
	}

	personal, byGenre, topGenres, err := e.buildPersonalized(ctx, userID)
	if err != nil {
		e.logger.WithError(err).WithField("user_id", userID).Warn("Personalized pipeline failed, falling back to trending")
		return &Result{State: StateReadyFallback, Trending: trending}, nil
	}

	return &Result{
		State:     StateReady,
		Personal:  personal,
		ByGenre:   byGenre,
		Trending:  trending,
		TopGenres: topGenres,
	}, nil
}

func (e *Engine) fetchTrending(ctx context.Context) ([]models.MediaSummary, error) {
	items, err := e.trending.Trending(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > listLimit {
		items = items[:listLimit]
	}
	return items, nil
}

// mediaHistory is the partitioned view of a user's memberships plus the
// detail records fetched for affinity and similar-title lookups.
type mediaHistory struct {
	owned    map[models.MediaKey]bool
	favorite []models.MediaKey
	watched  []models.MediaKey
	genres   map[models.MediaKey][]int // genre ids per tracked title
	similar  map[models.MediaKey][]models.MediaSummary
}

func (e *Engine) buildPersonalized(ctx context.Context, userID string) (personal, byGenre []models.MediaSummary, topGenres []int, err error) {
	items, err := e.memberships.GetMembershipsByUser(userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read memberships: %w", err)
	}

	history := e.loadHistory(ctx, items)

	personal = e.personalPicks(history)

	affinity := make(Affinity)
	for _, key := range history.favorite {
		affinity.Add(history.genres[key], 2)
	}
	for _, key := range history.watched {
		affinity.Add(history.genres[key], 1)
	}
	topGenres = affinity.Top(topGenreCount)

	byGenre, err = e.genrePicks(ctx, topGenres, history.owned)
	if err != nil {
		return nil, nil, nil, err
	}

	return personal, byGenre, topGenres, nil
}

// loadHistory partitions memberships and fetches detail records for every
// unique favorite/watched title. Per-title fetch failures are logged and
// skipped; a title listed as both favorite and watched counts as favorite.
func (e *Engine) loadHistory(ctx context.Context, items []*models.ListMembership) *mediaHistory {
	// Most recently added first, so seed selection prefers recent titles
	sorted := make([]*models.ListMembership, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AddedAt.After(sorted[j].AddedAt)
	})

	history := &mediaHistory{
		owned:   make(map[models.MediaKey]bool),
		genres:  make(map[models.MediaKey][]int),
		similar: make(map[models.MediaKey][]models.MediaSummary),
	}

	// Favorites claim their keys first so a title on both lists always
	// gets favorite treatment, regardless of which membership is newer.
	seen := make(map[models.MediaKey]bool)
	for _, item := range sorted {
		key := item.Key()
		history.owned[key] = true

		if item.ListType == models.ListFavorite && !seen[key] {
			seen[key] = true
			history.favorite = append(history.favorite, key)
		}
	}
	for _, item := range sorted {
		key := item.Key()
		if item.ListType == models.ListWatched && !seen[key] {
			seen[key] = true
			history.watched = append(history.watched, key)
		}
	}

	for _, key := range append(append([]models.MediaKey{}, history.favorite...), history.watched...) {
		if err := e.loadDetails(ctx, key, history); err != nil {
			e.logger.WithError(err).WithFields(logrus.Fields{
				"media_id":   key.ID,
				"media_type": key.Type,
			}).Warn("Failed to fetch title details, skipping")
		}
	}

	return history
}

func (e *Engine) loadDetails(ctx context.Context, key models.MediaKey, history *mediaHistory) error {
	switch key.Type {
	case models.MediaTypeMovie:
		details, err := e.catalog.MovieDetails(ctx, key.ID)
		if err != nil {
			return err
		}
		history.genres[key] = tmdb.GenreIDList(details.Genres)
		if details.Similar != nil {
			for _, movie := range details.Similar.Results {
				history.similar[key] = append(history.similar[key], movie.Summary())
			}
		}
	case models.MediaTypeTV:
		details, err := e.catalog.TVShowDetails(ctx, key.ID)
		if err != nil {
			return err
		}
		history.genres[key] = tmdb.GenreIDList(details.Genres)
		if details.Similar != nil {
			for _, show := range details.Similar.Results {
				history.similar[key] = append(history.similar[key], show.Summary())
			}
		}
	}
	return nil
}

// personalPicks accumulates similar titles from the seed titles, drops
// anything the user already tracks, dedups by composite key and ranks by
// rating.
func (e *Engine) personalPicks(history *mediaHistory) []models.MediaSummary {
	var pool []models.MediaSummary
	for _, mediaType := range []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV} {
		for _, seed := range seedKeys(history, mediaType) {
			pool = append(pool, history.similar[seed]...)
		}
	}

	return rank(pool, history.owned, func(a, b models.MediaSummary) bool {
		return a.Rating > b.Rating
	})
}

// seedKeys selects the similar-title seeds for one media type: favorites
// when any exist, watched otherwise, capped at maxSeedsPerType.
func seedKeys(history *mediaHistory, mediaType models.MediaType) []models.MediaKey {
	source := history.favorite
	if !containsType(source, mediaType) {
		source = history.watched
	}

	var seeds []models.MediaKey
	for _, key := range source {
		if key.Type != mediaType {
			continue
		}
		seeds = append(seeds, key)
		if len(seeds) == maxSeedsPerType {
			break
		}
	}
	return seeds
}

func containsType(keys []models.MediaKey, mediaType models.MediaType) bool {
	for _, key := range keys {
		if key.Type == mediaType {
			return true
		}
	}
	return false
}

// genrePicks discovers titles for the top affinity genres across both
// media types concurrently, then merges and ranks by popularity.
func (e *Engine) genrePicks(ctx context.Context, genreIDs []int, owned map[models.MediaKey]bool) ([]models.MediaSummary, error) {
	if len(genreIDs) == 0 {
		return nil, nil
	}

	params := tmdb.DiscoverParams{
		GenreIDs: genreIDs,
		SortBy:   "popularity.desc",
		Page:     1,
	}

	var (
		wg             sync.WaitGroup
		movies         *tmdb.MoviePage
		shows          *tmdb.TVPage
		movieErr, tvErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		movies, movieErr = e.catalog.DiscoverMovies(ctx, params)
	}()
	go func() {
		defer wg.Done()
		shows, tvErr = e.catalog.DiscoverTVShows(ctx, params)
	}()
	wg.Wait()

	if movieErr != nil {
		return nil, fmt.Errorf("failed to discover movies by genre: %w", movieErr)
	}
	if tvErr != nil {
		return nil, fmt.Errorf("failed to discover tv shows by genre: %w", tvErr)
	}

	pool := make([]models.MediaSummary, 0, len(movies.Results)+len(shows.Results))
	for _, movie := range movies.Results {
		pool = append(pool, movie.Summary())
	}
	for _, show := range shows.Results {
		pool = append(pool, show.Summary())
	}

	return rank(pool, owned, func(a, b models.MediaSummary) bool {
		return a.Popularity > b.Popularity
	}), nil
}

// rank drops owned titles, dedups by composite key keeping the first
// occurrence, stably sorts by less and truncates to the list limit.
func rank(pool []models.MediaSummary, owned map[models.MediaKey]bool, less func(a, b models.MediaSummary) bool) []models.MediaSummary {
	seen := make(map[models.MediaKey]bool)
	filtered := make([]models.MediaSummary, 0, len(pool))
	for _, item := range pool {
		key := item.Key()
		if owned[key] || seen[key] {
			continue
		}
		seen[key] = true
		filtered = append(filtered, item)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return less(filtered[i], filtered[j])
	})

	if len(filtered) > listLimit {
		filtered = filtered[:listLimit]
	}
	return filtered
}
