package api

import (
	"encoding/json"
	"log"
	"net/http"

	apierrors "tucancha/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps the error's kind to an HTTP status and renders the message
// as {"error": ...}. Untagged errors come out as a generic 500 so internals
// never leak to callers.
func writeError(w http.ResponseWriter, err error) {
	status := apierrors.StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
