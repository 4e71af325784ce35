package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"showshelf/internal/domain"
	"showshelf/internal/httpserver/deps"
	"showshelf/internal/logger"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Conflicts
// never reach here: handlers turn them into informational success payloads.
func writeError(d deps.Deps, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	case errors.Is(err, domain.ErrBadInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrLoadInProgress):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "bookmarks are loading, retry", Retryable: true})
	case errors.Is(err, domain.ErrUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream unavailable, retry later", Retryable: true})
	default:
		d.Logger.Error("unclassified handler error", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
