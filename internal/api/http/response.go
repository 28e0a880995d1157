package http

import (
	"encoding/json"
	"net/http"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
)

type statusResponse struct {
	Status string `json:"status"`
}

var okResponse = statusResponse{Status: "ok"}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps err onto the error taxonomy. Internal causes are logged, never written.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := domain.AsAppError(err)
	log := logger.FromContext(r.Context())
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("Request failed", "type", appErr.Type, "message", appErr.Message, "error", appErr.Internal)
	} else {
		log.Debug("Request rejected", "type", appErr.Type, "message", appErr.Message)
	}
	writeJSON(w, appErr.StatusCode, appErr)
}
