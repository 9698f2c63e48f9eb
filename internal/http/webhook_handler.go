package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/sandalio7/Serena/internal/service"
	"github.com/sandalio7/Serena/internal/webhook"

	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// Ingestor is what the webhook endpoint needs from the ingest pipeline.
type Ingestor interface {
	ProcessInbound(ctx context.Context, in webhook.InboundMessage) (*service.IngestOutcome, error)
}

// WebhookHandler receives WhatsApp webhook calls in any supported provider
// shape and runs them through the ingest pipeline.
type WebhookHandler struct {
	ingest      Ingestor
	verifyToken string
	logger      *zap.Logger
}

func NewWebhookHandler(ingest Ingestor, verifyToken string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{ingest: ingest, verifyToken: verifyToken, logger: logger}
}

// Verify handles the GET subscription handshake: echo hub.challenge when the
// token matches, 403 otherwise.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if h.verifyToken == "" || token != h.verifyToken {
		h.logger.Warn("webhook verification rejected")
		writeError(w, http.StatusForbidden, "Token de verificación inválido")
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

// Receive handles the POST delivery of an inbound message.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "No se pudo leer el cuerpo de la petición")
		return
	}

	in, err := webhook.Parse(r.Header, body)
	if err != nil {
		if errors.Is(err, webhook.ErrNoText) {
			writeError(w, http.StatusBadRequest, "El mensaje no contiene texto")
			return
		}
		writeError(w, http.StatusBadRequest, "Formato de mensaje no reconocido")
		return
	}

	outcome, err := h.ingest.ProcessInbound(r.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCaregiver) {
			writeError(w, http.StatusBadRequest, "Remitente no registrado como cuidador")
			return
		}
		h.logger.Error("inbound message processing failed",
			zap.String("provider", string(in.Provider)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Error procesando el mensaje")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"result": outcome,
	})
}
