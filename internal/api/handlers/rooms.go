package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/sirupsen/logrus"
)

// RoomsHandler serves watch room creation and membership
type RoomsHandler struct {
	roomCtrl *controllers.RoomController
	logger   *logrus.Logger
}

// NewRoomsHandler creates a new rooms handler
func NewRoomsHandler(roomCtrl *controllers.RoomController, logger *logrus.Logger) *RoomsHandler {
	return &RoomsHandler{
		roomCtrl: roomCtrl,
		logger:   logger,
	}
}

// ServeHTTP handles GET /api/rooms (the user's rooms) and POST /api/rooms
// (create a room).
func (h *RoomsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		respondError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rooms, err := h.roomCtrl.UserRooms(user)
		if err != nil {
			h.logger.WithError(err).Error("Failed to list rooms")
			respondError(w, http.StatusInternalServerError, "could not load your rooms")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"rooms": rooms})

	case http.MethodPost:
		var body struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			IsPrivate   bool   `json:"is_private"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		room, err := h.roomCtrl.CreateRoom(body.Name, body.Description, user, body.IsPrivate)
		if err != nil {
			if errors.Is(err, controllers.ErrRoomNameRequired) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			h.logger.WithError(err).Error("Failed to create room")
			respondError(w, http.StatusInternalServerError, "could not create the room")
			return
		}
		respondJSON(w, http.StatusCreated, room)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Join handles POST /api/rooms/join with either a join code or a public
// room id.
func (h *RoomsHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		respondError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Code   string `json:"code"`
		RoomID string `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		room *models.Room
		err  error
	)
	switch {
	case body.Code != "":
		room, err = h.roomCtrl.JoinByCode(body.Code, user)
	case body.RoomID != "":
		room, err = h.roomCtrl.JoinByID(body.RoomID, user)
	default:
		respondError(w, http.StatusBadRequest, "code or room_id is required")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			respondError(w, http.StatusNotFound, "no such room")
		case errors.Is(err, controllers.ErrPrivateRoom):
			respondError(w, http.StatusForbidden, err.Error())
		default:
			h.logger.WithError(err).Error("Failed to join room")
			respondError(w, http.StatusInternalServerError, "could not join the room")
		}
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// Leave handles POST /api/rooms/leave
func (h *RoomsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		respondError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		RoomID string `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RoomID == "" {
		respondError(w, http.StatusBadRequest, "room_id is required")
		return
	}

	if err := h.roomCtrl.LeaveRoom(body.RoomID, user); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not a member of that room")
			return
		}
		h.logger.WithError(err).Error("Failed to leave room")
		respondError(w, http.StatusInternalServerError, "could not leave the room")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Detail handles GET /api/rooms/detail?id=
func (h *RoomsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	roomID := r.URL.Query().Get("id")
	if roomID == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	room, members, err := h.roomCtrl.RoomDetail(roomID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no such room")
			return
		}
		h.logger.WithError(err).Error("Failed to load room")
		respondError(w, http.StatusInternalServerError, "could not load the room")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"room":    room,
		"members": members,
	})
}
