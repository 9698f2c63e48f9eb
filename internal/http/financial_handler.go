package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sandalio7/Serena/internal/service"

	"go.uber.org/zap"
)

const maxTransactionBody = 64 << 10

// FinancialHandler serves the expense dashboard and manual transactions.
type FinancialHandler struct {
	financial *service.FinancialService
	logger    *zap.Logger
}

func NewFinancialHandler(financial *service.FinancialService, logger *zap.Logger) *FinancialHandler {
	return &FinancialHandler{financial: financial, logger: logger}
}

// GET /api/financial/summary?patient_id=&period=
func (h *FinancialHandler) Summary(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDParam(r)
	if patientID == 0 {
		writeError(w, http.StatusBadRequest, "Se requiere ID de paciente")
		return
	}

	summary, err := h.financial.Summary(r.Context(), patientID, r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GET /api/financial/expenses/categories?patient_id=&period=
func (h *FinancialHandler) ExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDParam(r)
	if patientID == 0 {
		writeError(w, http.StatusBadRequest, "Se requiere ID de paciente")
		return
	}

	categories, err := h.financial.ExpensesByCategory(r.Context(), patientID, r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// POST /api/financial/transactions
func (h *FinancialHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTransactionRequest
	if err := readBodyJSON(r, maxTransactionBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}

	tx, err := h.financial.CreateTransaction(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Transacción registrada correctamente",
		"transaction": tx,
	})
}

// PUT or DELETE /api/financial/transactions/{id}
func (h *FinancialHandler) TransactionByID(w http.ResponseWriter, r *http.Request) {
	idPart := strings.TrimPrefix(r.URL.Path, "/api/financial/transactions/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "ID de transacción inválido")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.updateTransaction(w, r, id)
	case http.MethodDelete:
		h.deleteTransaction(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *FinancialHandler) updateTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	var req service.UpdateTransactionRequest
	if err := readBodyJSON(r, maxTransactionBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}

	tx, err := h.financial.UpdateTransaction(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Transacción actualizada correctamente",
		"transaction": tx,
	})
}

func (h *FinancialHandler) deleteTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.financial.DeleteTransaction(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Transacción eliminada correctamente",
	})
}
