package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sandalio7/Serena/internal/repository"

	"go.uber.org/zap"
)

// PatientHandler serves patient listing and detail endpoints.
type PatientHandler struct {
	patients repository.PatientsRepository
	logger   *zap.Logger
}

func NewPatientHandler(patients repository.PatientsRepository, logger *zap.Logger) *PatientHandler {
	return &PatientHandler{patients: patients, logger: logger}
}

type patientSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Conditions string `json:"conditions"`
	CreatedAt  string `json:"created_at"`
}

type patientDetail struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Conditions string `json:"conditions"`
	Notes      string `json:"notes"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type patientOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// List handles GET /api/patients/ and its /list and /{id} subpaths.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/patients")
	rest = strings.Trim(rest, "/")

	switch rest {
	case "":
		h.listFull(w, r)
	case "list":
		h.listOptions(w, r)
	default:
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusNotFound, "Recurso no encontrado")
			return
		}
		h.detail(w, r, id)
	}
}

func (h *PatientHandler) listFull(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.ListPatients(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]patientSummary, 0, len(patients))
	for _, p := range patients {
		out = append(out, patientSummary{
			ID:         p.ID,
			Name:       p.Name,
			Age:        p.Age,
			Conditions: p.Conditions,
			CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PatientHandler) listOptions(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.ListPatients(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]patientOption, 0, len(patients))
	for _, p := range patients {
		out = append(out, patientOption{ID: p.ID, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PatientHandler) detail(w http.ResponseWriter, r *http.Request, id int64) {
	p, err := h.patients.GetPatient(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patientDetail{
		ID:         p.ID,
		Name:       p.Name,
		Age:        p.Age,
		Conditions: p.Conditions,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	})
}
