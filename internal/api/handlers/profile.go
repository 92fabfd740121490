package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/sirupsen/logrus"
)

// ProfileHandler serves the caller's profile record
type ProfileHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(db *models.Database, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		db:     db,
		logger: logger,
	}
}

// ServeHTTP handles GET /api/profile and PUT /api/profile
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		respondError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := h.db.GetProfile(user)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				respondError(w, http.StatusNotFound, "no profile yet")
				return
			}
			h.logger.WithError(err).Error("Failed to load profile")
			respondError(w, http.StatusInternalServerError, "could not load your profile")
			return
		}
		respondJSON(w, http.StatusOK, profile)

	case http.MethodPut:
		var body struct {
			Username         string `json:"username"`
			AvatarURL        string `json:"avatar_url"`
			Bio              string `json:"bio"`
			GenrePreferences string `json:"genre_preferences"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		profile := &models.Profile{
			ID:               user,
			Username:         body.Username,
			AvatarURL:        body.AvatarURL,
			Bio:              body.Bio,
			GenrePreferences: body.GenrePreferences,
		}
		if existing, err := h.db.GetProfile(user); err == nil {
			profile.CreatedAt = existing.CreatedAt
		}
		if err := h.db.UpsertProfile(profile); err != nil {
			h.logger.WithError(err).Error("Failed to save profile")
			respondError(w, http.StatusInternalServerError, "could not save your profile")
			return
		}
		respondJSON(w, http.StatusOK, profile)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
