package handlers

import (
	"net/http"

	"github.com/amaumene/cinesync/internal/models"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalMemberships  int            `json:"total_memberships"`
	MembershipsByList map[string]int `json:"memberships_by_list"`
	MembershipsByType map[string]int `json:"memberships_by_type"`
	TotalRooms        int            `json:"total_rooms"`
	PrivateRooms      int            `json:"private_rooms"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	memberships, err := h.db.GetAllMemberships()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get memberships")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	rooms, err := h.db.GetAllRooms()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get rooms")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		TotalMemberships:  len(memberships),
		MembershipsByList: make(map[string]int),
		MembershipsByType: make(map[string]int),
		TotalRooms:        len(rooms),
	}

	for _, m := range memberships {
		response.MembershipsByList[string(m.ListType)]++
		response.MembershipsByType[string(m.MediaType)]++
	}
	for _, room := range rooms {
		if room.IsPrivate {
			response.PrivateRooms++
		}
	}

	respondJSON(w, http.StatusOK, response)
}
