package handlers

import (
	"encoding/json"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// userID extracts the caller identity. Authentication itself is an
// upstream concern; the service trusts the forwarded header.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}
