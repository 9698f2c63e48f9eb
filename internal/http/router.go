package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library ServeMux; no third-party routing needed
// for this surface.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterWebhookRoutes wires the WhatsApp webhook endpoint. GET is the
// subscription handshake, POST the message delivery.
func (r *Router) RegisterWebhookRoutes(h *WebhookHandler) {
	r.Handle("/api/webhook/whatsapp", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.Verify(w, req)
		case http.MethodPost:
			h.Receive(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func (r *Router) RegisterFinancialRoutes(h *FinancialHandler) {
	r.Handle("/api/financial/summary", requireMethod(http.MethodGet, h.Summary))
	r.Handle("/api/financial/expenses/categories", requireMethod(http.MethodGet, h.ExpensesByCategory))
	r.Handle("/api/financial/transactions", requireMethod(http.MethodPost, h.CreateTransaction))
	r.Handle("/api/financial/transactions/", h.TransactionByID)
}

func (r *Router) RegisterHealthRoutes(h *HealthHandler) {
	r.Handle("/api/health/summary", requireMethod(http.MethodGet, h.Summary))
	r.Handle("/api/health/metrics/", requireMethod(http.MethodGet, h.MetricsHistory))
	r.Handle("/api/health/history", requireMethod(http.MethodGet, h.History))
}

func (r *Router) RegisterPatientRoutes(h *PatientHandler) {
	r.Handle("/api/patients", requireMethod(http.MethodGet, h.List))
	r.Handle("/api/patients/", requireMethod(http.MethodGet, h.List))
}

// RegisterHealthcheck wires the service liveness probe.
func (r *Router) RegisterHealthcheck() {
	r.Handle("/api/health", requireMethod(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "Serena API está funcionando correctamente",
		})
	}))
}
