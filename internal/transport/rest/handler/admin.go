package handler

import (
	"context"
	"net/http"

	"screener/internal/logger"
	"screener/internal/service"
	"screener/internal/transport/rest/middleware"
)

// ReferenceReloader reloads scoring reference data
type ReferenceReloader interface {
	Reload(ctx context.Context) (*service.ReloadResult, error)
}

// AdminHandler handles host-only maintenance endpoints
type AdminHandler struct {
	reference ReferenceReloader
	log       logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reference ReferenceReloader, log logger.Logger) *AdminHandler {
	return &AdminHandler{reference: reference, log: log}
}

// ReloadReference handles POST /admin/reference/reload
func (h *AdminHandler) ReloadReference(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())

	result, err := h.reference.Reload(r.Context())
	if err != nil {
		h.log.WithError(err).Warn("Reference reload failed", map[string]interface{}{"host_id": hostID})
		writeAppError(w, err)
		return
	}

	h.log.Info("Reference reloaded", map[string]interface{}{
		"host_id":             hostID,
		"domain_mappings":     result.DomainMappings,
		"assessment_criteria": result.AssessmentCriteria,
	})
	writeJSON(w, http.StatusOK, result)
}
