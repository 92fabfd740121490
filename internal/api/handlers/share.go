package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/sirupsen/logrus"
)

// ShareHandler serves list share link creation and resolution
type ShareHandler struct {
	shareCtrl *controllers.ShareController
	logger    *logrus.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareCtrl *controllers.ShareController, logger *logrus.Logger) *ShareHandler {
	return &ShareHandler{
		shareCtrl: shareCtrl,
		logger:    logger,
	}
}

// ServeHTTP handles POST /api/share (create a link, authenticated) and
// GET /api/share?token= (resolve a link, public).
func (h *ShareHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.resolve(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ShareHandler) create(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		respondError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}

	var body struct {
		ListType       string `json:"list_type"`
		IncludeNotes   bool   `json:"include_notes"`
		IncludeRatings bool   `json:"include_ratings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := h.shareCtrl.CreateLink(user, models.ListType(body.ListType), body.IncludeNotes, body.IncludeRatings)
	if err != nil {
		if errors.Is(err, controllers.ErrInvalidListType) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to create share link")
		respondError(w, http.StatusInternalServerError, "could not create the link")
		return
	}
	respondJSON(w, http.StatusCreated, link)
}

func (h *ShareHandler) resolve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	shared, err := h.shareCtrl.ResolveLink(r.Context(), token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no such share link")
			return
		}
		h.logger.WithError(err).Error("Failed to resolve share link")
		respondError(w, http.StatusInternalServerError, "could not resolve the link")
		return
	}
	respondJSON(w, http.StatusOK, shared)
}
