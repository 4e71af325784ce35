package handlers

import (
	"context"
	"net/http"
	"time"

	"showshelf/internal/httpserver/deps"
)

type componentStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type infraResponse struct {
	Status       string                     `json:"status"`
	LiveSessions int                        `json:"live_sessions"`
	Components   map[string]componentStatus `json:"components"`
}

// Infra exposes operational state: live bookmark sessions and the health
// of the two upstreams the coordinator composes.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"redis":   checkRedis(d),
			"catalog": {OK: true}, // passive: failures surface per-request
		}

		status := "ok"
		for _, c := range components {
			if !c.OK {
				status = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:       status,
			LiveSessions: d.Sessions.Len(),
			Components:   components,
		})
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: false, Error: "client not initialized"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Error: "unreachable"}
	}
	return componentStatus{OK: true}
}
