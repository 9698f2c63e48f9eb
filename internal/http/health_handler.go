package httpapi

import (
	"net/http"
	"strings"

	"github.com/sandalio7/Serena/internal/service"

	"go.uber.org/zap"
)

// HealthHandler serves derived health summaries and the audit history.
type HealthHandler struct {
	health *service.HealthService
	logger *zap.Logger
}

func NewHealthHandler(health *service.HealthService, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{health: health, logger: logger}
}

// GET /api/health/summary?patient_id=&period=
func (h *HealthHandler) Summary(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDParam(r)
	if patientID == 0 {
		writeError(w, http.StatusBadRequest, "Se requiere ID de paciente")
		return
	}

	summary, err := h.health.Summary(r.Context(), patientID, r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GET /api/health/metrics/{metric_type}?patient_id=&period=
func (h *HealthHandler) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	metricType := strings.TrimPrefix(r.URL.Path, "/api/health/metrics/")
	if metricType == "" || strings.Contains(metricType, "/") {
		writeError(w, http.StatusNotFound, "Métrica no encontrada")
		return
	}
	patientID := patientIDParam(r)
	if patientID == 0 {
		writeError(w, http.StatusBadRequest, "Se requiere ID de paciente")
		return
	}

	points, err := h.health.MetricsHistory(r.Context(), patientID, metricType, r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// GET /api/health/history?patient_id=&period=&category=
func (h *HealthHandler) History(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDParam(r)
	if patientID == 0 {
		writeError(w, http.StatusBadRequest, "Se requiere ID de paciente")
		return
	}

	items, err := h.health.History(r.Context(), patientID, r.URL.Query().Get("period"), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": items})
}
