package handlers

import (
	"net/http"

	"showshelf/internal/httpserver/deps"
	"showshelf/internal/logger"
)

// Refresh triggers an immediate metadata refresh of all live sessions.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.RefreshTrigger <- struct{}{}:
			d.Logger.Info("manual bookmark refresh triggered",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh triggered"})
		default:
			d.Logger.Warn("bookmark refresh already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"status": "refresh already in progress"})
		}
	}
}
