package handlers

import (
	"net/http"

	"github.com/amaumene/cinesync/internal/recommend"
	"github.com/sirupsen/logrus"
)

// RecommendationsHandler serves the three ranked recommendation lists.
// Anonymous callers get trending only.
type RecommendationsHandler struct {
	engine *recommend.Engine
	logger *logrus.Logger
}

// NewRecommendationsHandler creates a new recommendations handler
func NewRecommendationsHandler(engine *recommend.Engine, logger *logrus.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{
		engine: engine,
		logger: logger,
	}
}

// ServeHTTP handles GET /api/recommendations
func (h *RecommendationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.engine.BuildForUser(r.Context(), userID(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to build recommendations")
		respondError(w, http.StatusBadGateway, "something went wrong, retry")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
