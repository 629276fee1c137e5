package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dhaba-pos/console/internal/backend"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// writeUpstreamError reports a failed backend call. The backend's own
// message is surfaced verbatim when it sent one; otherwise the operator gets
// a generic "did not take effect" so they know to retry.
func writeUpstreamError(w http.ResponseWriter, action string, err error) {
	log.Printf("ERROR: %s: %v", action, err)

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": apiErr.Message})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": action + " did not take effect"})
}
