package handlers

import (
	"net/http"

	"github.com/amaumene/cinesync/internal/search"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// SearchHandler serves the debounced, cached multi-category search.
// Each client session owns one aggregator; the session id comes from the
// X-Session-ID header (falling back to the user id) so repeated
// keystrokes from one view share debounce state and cache.
type SearchHandler struct {
	sessions   *search.Manager
	tmdbClient *tmdb.Client
	logger     *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(sessions *search.Manager, tmdbClient *tmdb.Client, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		sessions:   sessions,
		tmdbClient: tmdbClient,
		logger:     logger,
	}
}

// SearchResponse is the live search state for a session
type SearchResponse struct {
	Query string `json:"query"`
	search.Payload
	IsLoading bool   `json:"is_loading"`
	Error     string `json:"error,omitempty"`
}

// ServeHTTP handles GET (feed query, return snapshot) and DELETE (clear
// the session's cache).
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	aggregator := h.sessions.Get(h.sessionID(r))

	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query().Get("q")
		aggregator.SetQuery(query)

		results := aggregator.Results()
		response := SearchResponse{
			Query:     query,
			Payload:   results.Payload,
			IsLoading: results.IsLoading,
		}
		if results.Err != nil {
			response.Error = results.Err.Error()
		}
		respondJSON(w, http.StatusOK, response)

	case http.MethodDelete:
		aggregator.ClearCache()
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Multi handles GET /api/search/multi, a one-shot mixed-category lookup
// that bypasses the session aggregator. Used for pickers that need a
// single ranked list instead of three categorized ones.
func (h *SearchHandler) Multi(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}

	page, err := h.tmdbClient.SearchMulti(r.Context(), query, pageParam(r))
	if err != nil {
		h.logger.WithError(err).Error("Multi search failed")
		respondError(w, http.StatusBadGateway, "something went wrong, retry")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *SearchHandler) sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	if id := userID(r); id != "" {
		return id
	}
	return "anonymous"
}
