package handler

import (
	"net/http"

	"github.com/huracan-ai/huracan/internal/api/response"
	"github.com/huracan-ai/huracan/internal/repository/postgres"
)

// HealthHandler handles health and readiness probes
type HealthHandler struct {
	db *postgres.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *postgres.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports process liveness
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Ready reports whether the database is reachable
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		response.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.OK(w, map[string]string{"status": "ready"})
}
