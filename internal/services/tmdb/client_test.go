package tmdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestClient(baseURL string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Client{
		baseURL:    baseURL,
		apiKey:     "test-key",
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

func TestSearchMoviesParsesResponse(t *testing.T) {
	var gotPath, gotKey, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"total_pages": 3,
			"results": [
				{"id": 603, "title": "The Matrix", "vote_average": 8.2, "release_date": "1999-03-31", "genre_ids": [28, 878]}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.SearchMovies(context.Background(), "matrix", 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotPath != "/search/movie" {
		t.Errorf("Expected path /search/movie, got %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("Expected api_key query parameter, got %q", gotKey)
	}
	if gotQuery != "matrix" {
		t.Errorf("Expected query parameter, got %q", gotQuery)
	}

	if page.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", page.TotalPages)
	}
	if len(page.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(page.Results))
	}
	movie := page.Results[0]
	if movie.ID != 603 || movie.Title != "The Matrix" {
		t.Errorf("Unexpected movie: %+v", movie)
	}
	if len(movie.GenreIDs) != 2 {
		t.Errorf("Expected 2 genre ids, got %v", movie.GenreIDs)
	}
}

func TestMovieDetailsRequestsSimilar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("append_to_response"); got != "videos,credits,similar" {
			t.Errorf("Expected append_to_response, got %q", got)
		}
		w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"genres": [{"id": 28, "name": "Action"}],
			"similar": {"page": 1, "results": [{"id": 604, "title": "The Matrix Reloaded"}]}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	details, err := client.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(details.Genres) != 1 || details.Genres[0].Name != "Action" {
		t.Errorf("Unexpected genres: %v", details.Genres)
	}
	if details.Similar == nil || len(details.Similar.Results) != 1 {
		t.Fatalf("Expected similar titles, got %+v", details.Similar)
	}
	if details.Similar.Results[0].ID != 604 {
		t.Errorf("Unexpected similar movie: %+v", details.Similar.Results[0])
	}
}

func TestDoRequestNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.MovieDetails(context.Background(), 999999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDoRequestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream broke"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.PopularMovies(context.Background(), 1)
	if err == nil {
		t.Fatal("Expected error on 500 response")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("500 must not map to ErrNotFound")
	}
}

func TestDiscoverMoviesParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("with_genres"); got != "28,18" {
			t.Errorf("Expected with_genres=28,18, got %q", got)
		}
		if got := q.Get("sort_by"); got != "popularity.desc" {
			t.Errorf("Expected sort_by=popularity.desc, got %q", got)
		}
		if got := q.Get("vote_average.gte"); got != "7.0" {
			t.Errorf("Expected vote_average.gte=7.0, got %q", got)
		}
		if got := q.Get("primary_release_date.gte"); got != "2000-01-01" {
			t.Errorf("Expected primary_release_date.gte, got %q", got)
		}
		w.Write([]byte(`{"page": 1, "results": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.DiscoverMovies(context.Background(), DiscoverParams{
		GenreIDs:  []int{28, 18},
		YearFrom:  2000,
		RatingMin: 7,
		SortBy:    "popularity.desc",
		Page:      1,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestSummaryFallbacks(t *testing.T) {
	show := MediaItem{ID: 1399, MediaType: "tv", Name: "Game of Thrones", FirstAirDate: "2011-04-17"}
	summary := show.Summary()
	if summary.Title != "Game of Thrones" {
		t.Errorf("Expected name fallback for title, got %q", summary.Title)
	}
	if summary.ReleaseDate != "2011-04-17" {
		t.Errorf("Expected first_air_date fallback, got %q", summary.ReleaseDate)
	}
	if summary.Key().Type != "tv" {
		t.Errorf("Expected tv key, got %s", summary.Key().Type)
	}
}

func TestImageURLs(t *testing.T) {
	if got := PosterURL("/abc.jpg", PosterSizeXLarge); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Errorf("Unexpected poster url: %q", got)
	}
	if got := PosterURL("/abc.jpg", ""); got != "https://image.tmdb.org/t/p/w342/abc.jpg" {
		t.Errorf("Expected default size, got %q", got)
	}
	if got := PosterURL("", PosterSizeXLarge); got != PlaceholderImage {
		t.Errorf("Expected placeholder for empty path, got %q", got)
	}
	if got := BackdropURL("/bg.jpg", ""); got != "https://image.tmdb.org/t/p/w1280/bg.jpg" {
		t.Errorf("Unexpected backdrop url: %q", got)
	}
}
