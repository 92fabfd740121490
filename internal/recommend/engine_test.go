package recommend

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

type fakeCatalog struct {
	movieDetails map[int]*tmdb.MovieDetails
	tvDetails    map[int]*tmdb.TVDetails
	discovered   *tmdb.MoviePage
	discoveredTV *tmdb.TVPage
	trending     []models.MediaSummary

	trendingErr error
	discoverErr error
}

func (f *fakeCatalog) MovieDetails(ctx context.Context, movieID int) (*tmdb.MovieDetails, error) {
	d, ok := f.movieDetails[movieID]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return d, nil
}

func (f *fakeCatalog) TVShowDetails(ctx context.Context, tvID int) (*tmdb.TVDetails, error) {
	d, ok := f.tvDetails[tvID]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return d, nil
}

func (f *fakeCatalog) DiscoverMovies(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.MoviePage, error) {
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	if f.discovered == nil {
		return &tmdb.MoviePage{}, nil
	}
	return f.discovered, nil
}

func (f *fakeCatalog) DiscoverTVShows(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.TVPage, error) {
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	if f.discoveredTV == nil {
		return &tmdb.TVPage{}, nil
	}
	return f.discoveredTV, nil
}

func (f *fakeCatalog) Trending(ctx context.Context) ([]models.MediaSummary, error) {
	if f.trendingErr != nil {
		return nil, f.trendingErr
	}
	return f.trending, nil
}

type fakeMemberships struct {
	items []*models.ListMembership
	err   error
}

func (f *fakeMemberships) GetMembershipsByUser(userID string) ([]*models.ListMembership, error) {
	return f.items, f.err
}

func testEngine(catalog *fakeCatalog, memberships *fakeMemberships) *Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewEngine(catalog, catalog, memberships, logger)
}

func membership(mediaID int, mediaType models.MediaType, listType models.ListType, addedAgo time.Duration) *models.ListMembership {
	return &models.ListMembership{
		UserID:    "u1",
		MediaID:   mediaID,
		MediaType: mediaType,
		ListType:  listType,
		AddedAt:   time.Now().Add(-addedAgo),
	}
}

func TestBuildForUserAnonymousGetsTrendingOnly(t *testing.T) {
	// More items than the list limit: the engine must truncate to 10
	trending := make([]models.MediaSummary, 15)
	for i := range trending {
		trending[i] = models.MediaSummary{ID: i + 1, Type: models.MediaTypeMovie}
	}
	catalog := &fakeCatalog{trending: trending}
	engine := testEngine(catalog, &fakeMemberships{})

	result, err := engine.BuildForUser(context.Background(), "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.State != StateReady {
		t.Errorf("Expected ready state, got %s", result.State)
	}
	if len(result.Trending) != listLimit {
		t.Fatalf("Expected %d trending items, got %d", listLimit, len(result.Trending))
	}
	if len(result.Personal) != 0 || len(result.ByGenre) != 0 {
		t.Error("Anonymous callers must get trending only")
	}
}

func TestBuildForUserTrendingFailureIsTerminal(t *testing.T) {
	catalog := &fakeCatalog{trendingErr: errors.New("tmdb down")}
	engine := testEngine(catalog, &fakeMemberships{})

	if _, err := engine.BuildForUser(context.Background(), "u1"); err == nil {
		t.Fatal("Expected terminal error when trending fetch fails")
	}
}

func TestBuildForUserMembershipFailureFallsBack(t *testing.T) {
	catalog := &fakeCatalog{
		trending: []models.MediaSummary{{ID: 1, Type: models.MediaTypeMovie, Title: "A"}},
	}
	engine := testEngine(catalog, &fakeMemberships{err: errors.New("store closed")})

	result, err := engine.BuildForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Expected fallback, not error: %v", err)
	}
	if result.State != StateReadyFallback {
		t.Errorf("Expected fallback state, got %s", result.State)
	}
	if len(result.Trending) != 1 {
		t.Errorf("Expected trending to survive, got %d items", len(result.Trending))
	}
}

func TestBuildForUserDiscoverFailureFallsBack(t *testing.T) {
	catalog := &fakeCatalog{
		trending: []models.MediaSummary{{ID: 1, Type: models.MediaTypeMovie, Title: "A"}},
		movieDetails: map[int]*tmdb.MovieDetails{
			10: {Movie: tmdb.Movie{ID: 10}, Genres: []tmdb.Genre{{ID: 28, Name: "Action"}}},
		},
		discoverErr: errors.New("tmdb down"),
	}
	memberships := &fakeMemberships{items: []*models.ListMembership{
		membership(10, models.MediaTypeMovie, models.ListFavorite, time.Hour),
	}}
	engine := testEngine(catalog, memberships)

	result, err := engine.BuildForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Expected fallback, not error: %v", err)
	}
	if result.State != StateReadyFallback {
		t.Errorf("Expected fallback state, got %s", result.State)
	}
}

func TestBuildForUserPersonalPicks(t *testing.T) {
	catalog := &fakeCatalog{
		trending: nil,
		movieDetails: map[int]*tmdb.MovieDetails{
			10: {
				Movie:  tmdb.Movie{ID: 10},
				Genres: []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}},
				Similar: &tmdb.MoviePage{Results: []tmdb.Movie{
					{ID: 20, Title: "Owned", VoteAverage: 9.5},   // already on a list
					{ID: 5, Title: "Good", VoteAverage: 7.0},
					{ID: 9, Title: "Better", VoteAverage: 9.0},
					{ID: 5, Title: "Good again", VoteAverage: 7.0}, // dup, keep first
				}},
			},
		},
		discovered: &tmdb.MoviePage{Results: []tmdb.Movie{
			{ID: 7, Title: "Disc Movie", Popularity: 50},
			{ID: 20, Title: "Owned", Popularity: 99},
		}},
		discoveredTV: &tmdb.TVPage{Results: []tmdb.TVShow{
			// Same numeric id as the discovered movie: composite identity
			// keeps both
			{ID: 7, Name: "Disc Show", Popularity: 80},
		}},
	}
	memberships := &fakeMemberships{items: []*models.ListMembership{
		membership(10, models.MediaTypeMovie, models.ListFavorite, time.Hour),
		membership(20, models.MediaTypeMovie, models.ListToWatch, 2*time.Hour),
	}}
	engine := testEngine(catalog, memberships)

	result, err := engine.BuildForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.State != StateReady {
		t.Fatalf("Expected ready state, got %s", result.State)
	}

	// Personal: owned excluded, dup collapsed, rating descending
	if len(result.Personal) != 2 {
		t.Fatalf("Expected 2 personal picks, got %d: %v", len(result.Personal), result.Personal)
	}
	if result.Personal[0].ID != 9 || result.Personal[1].ID != 5 {
		t.Errorf("Expected picks [9 5], got [%d %d]", result.Personal[0].ID, result.Personal[1].ID)
	}

	// Top genres: favorite weight 2 on both, tie broken by id ascending
	if len(result.TopGenres) != 2 || result.TopGenres[0] != 18 || result.TopGenres[1] != 28 {
		t.Errorf("Expected top genres [18 28], got %v", result.TopGenres)
	}

	// ByGenre: owned movie excluded, both id-7 items kept, popularity descending
	if len(result.ByGenre) != 2 {
		t.Fatalf("Expected 2 genre picks, got %d: %v", len(result.ByGenre), result.ByGenre)
	}
	if result.ByGenre[0].Type != models.MediaTypeTV || result.ByGenre[1].Type != models.MediaTypeMovie {
		t.Errorf("Expected tv then movie, got %s then %s", result.ByGenre[0].Type, result.ByGenre[1].Type)
	}
}

func TestBuildForUserWatchedFallbackSeeds(t *testing.T) {
	catalog := &fakeCatalog{
		trending: nil,
		tvDetails: map[int]*tmdb.TVDetails{
			30: {
				TVShow: tmdb.TVShow{ID: 30},
				Genres: []tmdb.Genre{{ID: 35, Name: "Comedy"}},
				Similar: &tmdb.TVPage{Results: []tmdb.TVShow{
					{ID: 31, Name: "Similar Show", VoteAverage: 8.0},
				}},
			},
		},
	}
	// No favorites at all: watched titles seed the similar pool
	memberships := &fakeMemberships{items: []*models.ListMembership{
		membership(30, models.MediaTypeTV, models.ListWatched, time.Hour),
	}}
	engine := testEngine(catalog, memberships)

	result, err := engine.BuildForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Personal) != 1 || result.Personal[0].ID != 31 {
		t.Errorf("Expected watched-seeded pick 31, got %v", result.Personal)
	}
	if len(result.TopGenres) != 1 || result.TopGenres[0] != 35 {
		t.Errorf("Expected top genre 35, got %v", result.TopGenres)
	}
}

func TestBuildForUserFavoriteOutranksNewerWatched(t *testing.T) {
	catalog := &fakeCatalog{
		movieDetails: map[int]*tmdb.MovieDetails{
			10: {Movie: tmdb.Movie{ID: 10}, Genres: []tmdb.Genre{{ID: 28, Name: "Action"}}},
			11: {Movie: tmdb.Movie{ID: 11}, Genres: []tmdb.Genre{{ID: 18, Name: "Drama"}}},
		},
	}
	// Movie 10 was favorited long ago and re-watched recently; the
	// favorite must still win, so Action carries weight 2 over Drama's 1.
	memberships := &fakeMemberships{items: []*models.ListMembership{
		membership(10, models.MediaTypeMovie, models.ListFavorite, 48*time.Hour),
		membership(10, models.MediaTypeMovie, models.ListWatched, time.Hour),
		membership(11, models.MediaTypeMovie, models.ListWatched, time.Hour),
	}}
	engine := testEngine(catalog, memberships)

	result, err := engine.BuildForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.TopGenres) != 2 || result.TopGenres[0] != 28 || result.TopGenres[1] != 18 {
		t.Fatalf("Expected top genres [28 18], got %v", result.TopGenres)
	}

	// Seed selection must treat movie 10 as a favorite
	history := engine.loadHistory(context.Background(), memberships.items)
	seeds := seedKeys(history, models.MediaTypeMovie)
	if len(seeds) == 0 || seeds[0] != models.Key(10, models.MediaTypeMovie) {
		t.Errorf("Expected movie 10 as favorite seed, got %v", seeds)
	}
	for _, key := range history.watched {
		if key == models.Key(10, models.MediaTypeMovie) {
			t.Error("Title on both lists was classified as watched")
		}
	}
}

func TestBuildForUserDetailFailuresAreTolerated(t *testing.T) {
	catalog := &fakeCatalog{
		trending: nil,
		movieDetails: map[int]*tmdb.MovieDetails{
			// Details for movie 10 exist; movie 11 will 404
			10: {
				Movie:  tmdb.Movie{ID: 10},
				Genres: []tmdb.Genre{{ID: 28, Name: "Action"}},
				Similar: &tmdb.MoviePage{Results: []tmdb.Movie{
					{ID: 12, Title: "Pick", VoteAverage: 7.5},
				}},
			},
		},
	}
	memberships := &fakeMemberships{items: []*models.ListMembership{
		membership(10, models.MediaTypeMovie, models.ListFavorite, time.Hour),
		membership(11, models.MediaTypeMovie, models.ListFavorite, 2*time.Hour),
	}}
	engine := testEngine(catalog, memberships)

	result, err := engine.BuildForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Expected per-title failure to be tolerated: %v", err)
	}
	if result.State != StateReady {
		t.Errorf("Expected ready state, got %s", result.State)
	}
	if len(result.Personal) != 1 || result.Personal[0].ID != 12 {
		t.Errorf("Expected pick from the surviving seed, got %v", result.Personal)
	}
}

func TestSeedKeysCapAndPreference(t *testing.T) {
	history := &mediaHistory{
		favorite: []models.MediaKey{
			models.Key(1, models.MediaTypeMovie),
			models.Key(2, models.MediaTypeMovie),
			models.Key(3, models.MediaTypeMovie),
			models.Key(4, models.MediaTypeMovie),
			models.Key(5, models.MediaTypeTV),
		},
		watched: []models.MediaKey{
			models.Key(6, models.MediaTypeMovie),
		},
	}

	seeds := seedKeys(history, models.MediaTypeMovie)
	if len(seeds) != maxSeedsPerType {
		t.Fatalf("Expected %d seeds, got %d", maxSeedsPerType, len(seeds))
	}
	// Favorites win over watched even when more watched exist
	for _, seed := range seeds {
		if seed.ID == 6 {
			t.Error("Watched title seeded despite favorites being present")
		}
	}

	seeds = seedKeys(history, models.MediaTypeTV)
	if len(seeds) != 1 || seeds[0].ID != 5 {
		t.Errorf("Expected tv seed [5], got %v", seeds)
	}
}
