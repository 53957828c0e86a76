package handler

import "net/http"

// ReadinessChecker reports whether scoring can be served
type ReadinessChecker interface {
	Loaded() bool
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	ready ReadinessChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(ready ReadinessChecker) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready == nil || !h.ready.Loaded() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "reference data not loaded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
