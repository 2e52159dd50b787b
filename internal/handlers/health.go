package handlers

import (
	"net/http"
	"time"
)

// Health reports liveness with the current time in RFC 3339 (UTC, milliseconds).
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
