// Package handlers exposes the HTTP surface of the bot: the webhook the
// chat bridge posts inbound messages to, plus a health probe.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rakhadi/duitbot/internal/api/middleware"
	"github.com/rakhadi/duitbot/internal/bot"
)

// WebhookHandler receives inbound chat messages and returns the reply.
type WebhookHandler struct {
	svc *bot.Service
	log zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(svc *bot.Service, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, log: log}
}

// Receive handles POST /webhook
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload bot.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Warn().Err(err).Msg("Failed to decode webhook payload")
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Sender == "" {
		middleware.WriteError(w, http.StatusBadRequest, "sender is required")
		return
	}

	reply := h.svc.Handle(r.Context(), payload)

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"reply": reply,
	})
}

// Health handles GET /health
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
