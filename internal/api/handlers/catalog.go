package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// CatalogHandler serves browse endpoints backed by TMDB: trending,
// popular/top-rated/upcoming/on-the-air lists, details, discover and the
// genre table.
type CatalogHandler struct {
	tmdbClient  *tmdb.Client
	catalogCtrl *controllers.CatalogController
	logger      *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(tmdbClient *tmdb.Client, catalogCtrl *controllers.CatalogController, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		tmdbClient:  tmdbClient,
		catalogCtrl: catalogCtrl,
		logger:      logger,
	}
}

// Trending handles GET /api/trending
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := h.catalogCtrl.Trending(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch trending")
		respondError(w, http.StatusBadGateway, "something went wrong, retry")
		return
	}
	// Resolve names on a copy; the cached slice is shared across requests
	resolved := make([]models.MediaSummary, len(items))
	copy(resolved, items)
	h.catalogCtrl.ResolveGenreNames(r.Context(), resolved)
	respondJSON(w, http.StatusOK, map[string]interface{}{"results": resolved})
}

// MovieList handles GET /api/movies/{popular,top_rated,upcoming}
func (h *CatalogHandler) MovieList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := pageParam(r)
	var (
		result *tmdb.MoviePage
		err    error
	)
	switch listName(r.URL.Path) {
	case "popular":
		result, err = h.tmdbClient.PopularMovies(r.Context(), page)
	case "top_rated":
		result, err = h.tmdbClient.TopRatedMovies(r.Context(), page)
	case "upcoming":
		result, err = h.tmdbClient.UpcomingMovies(r.Context(), page)
	default:
		respondError(w, http.StatusNotFound, "unknown movie list")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch movie list")
		respondError(w, http.StatusBadGateway, "something went wrong, retry")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// TVList handles GET /api/tv/{popular,top_rated,on_the_air}
func (h *CatalogHandler) TVList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := pageParam(r)
	var (
		result *tmdb.TVPage
		err    error
	)
	switch listName(r.URL.Path) {
	case "popular":
		result, err = h.tmdbClient.PopularTVShows(r.Context(), page)
	case "top_rated":
		result, err = h.tmdbClient.TopRatedTVShows(r.Context(), page)
	case "on_the_air":
		result, err = h.tmdbClient.OnTheAirTVShows(r.Context(), page)
	default:
		respondError(w, http.StatusNotFound, "unknown tv list")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch tv list")
		respondError(w, http.StatusBadGateway, "something went wrong, retry")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Details handles GET /api/media/details?type={movie,tv}&id=N
func (h *CatalogHandler) Details(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	switch models.MediaType(r.URL.Query().Get("type")) {
	case models.MediaTypeMovie:
		details, err := h.tmdbClient.MovieDetails(r.Context(), id)
		if err != nil {
			h.respondDetailsError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, details)
	case models.MediaTypeTV:
		details, err := h.tmdbClient.TVShowDetails(r.Context(), id)
		if err != nil {
			h.respondDetailsError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, details)
	default:
		respondError(w, http.StatusBadRequest, "type must be movie or tv")
	}
}

func (h *CatalogHandler) respondDetailsError(w http.ResponseWriter, err error) {
	if errors.Is(err, tmdb.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no such title")
		return
	}
	h.logger.WithError(err).Error("Failed to fetch details")
	respondError(w, http.StatusBadGateway, "something went wrong, retry")
}

// Discover handles GET /api/discover?type=&genres=&year_from=&year_to=&rating_min=&rating_max=&sort=&page=
func (h *CatalogHandler) Discover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	params := tmdb.DiscoverParams{
		GenreIDs:  intListParam(q.Get("genres")),
		YearFrom:  intParam(q.Get("year_from")),
		YearTo:    intParam(q.Get("year_to")),
		RatingMin: floatParam(q.Get("rating_min")),
		RatingMax: floatParam(q.Get("rating_max")),
		SortBy:    q.Get("sort"),
		Page:      pageParam(r),
	}

	switch models.MediaType(q.Get("type")) {
	case models.MediaTypeTV:
		result, err := h.tmdbClient.DiscoverTVShows(r.Context(), params)
		if err != nil {
			h.logger.WithError(err).Error("Failed to discover tv shows")
			respondError(w, http.StatusBadGateway, "something went wrong, retry")
			return
		}
		respondJSON(w, http.StatusOK, result)
	default:
		result, err := h.tmdbClient.DiscoverMovies(r.Context(), params)
		if err != nil {
			h.logger.WithError(err).Error("Failed to discover movies")
			respondError(w, http.StatusBadGateway, "something went wrong, retry")
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// Genres handles GET /api/genres
func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	table, err := h.catalogCtrl.Genres(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch genres")
		respondError(w, http.StatusBadGateway, "something went wrong, retry")
		return
	}

	genres := make([]tmdb.Genre, 0, len(table))
	for id, name := range table {
		genres = append(genres, tmdb.Genre{ID: id, Name: name})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"genres": genres})
}

func listName(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func intParam(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func floatParam(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func intListParam(s string) []int {
	if s == "" {
		return nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		if v, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			ids = append(ids, v)
		}
	}
	return ids
}
