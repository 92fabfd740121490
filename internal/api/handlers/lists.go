package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/utils"
	"github.com/sirupsen/logrus"
)

// ListsHandler serves the user's personal lists
type ListsHandler struct {
	listCtrl *controllers.ListController
	logger   *logrus.Logger
}

// NewListsHandler creates a new lists handler
func NewListsHandler(listCtrl *controllers.ListController, logger *logrus.Logger) *ListsHandler {
	return &ListsHandler{
		listCtrl: listCtrl,
		logger:   logger,
	}
}

type listMutation struct {
	MediaID   int    `json:"media_id"`
	MediaType string `json:"media_type"`
	ListType  string `json:"list_type"`
}

// ServeHTTP dispatches list reads and mutations
func (h *ListsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		respondError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getList(w, r, user)
	case http.MethodPost:
		h.addToList(w, r, user)
	case http.MethodDelete:
		h.removeFromList(w, r, user)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ListsHandler) getList(w http.ResponseWriter, r *http.Request, user string) {
	q := r.URL.Query()
	listType := q.Get("type")
	if !models.ValidListType(listType) {
		respondError(w, http.StatusBadRequest, "type must be to_watch, watched or favorite")
		return
	}

	sortKey := utils.SortKey(q.Get("sort"))
	if sortKey == "" {
		sortKey = utils.SortLatest
	}

	items, err := h.listCtrl.GetList(r.Context(), user, models.ListType(listType), q.Get("search"), sortKey)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load list")
		respondError(w, http.StatusInternalServerError, "could not load your list")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"results": items})
}

func (h *ListsHandler) addToList(w http.ResponseWriter, r *http.Request, user string) {
	var body listMutation
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validMutation(body) {
		respondError(w, http.StatusBadRequest, "media_id, media_type and list_type are required")
		return
	}

	err := h.listCtrl.AddToList(user, body.MediaID, models.MediaType(body.MediaType), models.ListType(body.ListType))
	if err != nil {
		h.logger.WithError(err).Error("Failed to add to list")
		respondError(w, http.StatusInternalServerError, "could not update your list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListsHandler) removeFromList(w http.ResponseWriter, r *http.Request, user string) {
	q := r.URL.Query()
	mediaID, _ := strconv.Atoi(q.Get("media_id"))
	body := listMutation{
		MediaID:   mediaID,
		MediaType: q.Get("media_type"),
		ListType:  q.Get("list_type"),
	}
	if !validMutation(body) {
		respondError(w, http.StatusBadRequest, "media_id, media_type and list_type are required")
		return
	}

	err := h.listCtrl.RemoveFromList(user, body.MediaID, models.MediaType(body.MediaType), models.ListType(body.ListType))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no such list entry")
			return
		}
		h.logger.WithError(err).Error("Failed to remove from list")
		respondError(w, http.StatusInternalServerError, "could not update your list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validMutation(m listMutation) bool {
	if m.MediaID <= 0 || !models.ValidListType(m.ListType) {
		return false
	}
	t := models.MediaType(m.MediaType)
	return t == models.MediaTypeMovie || t == models.MediaTypeTV
}
