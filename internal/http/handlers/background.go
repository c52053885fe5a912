package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rentmatch/rentmatch-api/internal/domain"
	"github.com/rentmatch/rentmatch-api/internal/http/response"
	"github.com/rentmatch/rentmatch-api/internal/platform/logship"
	"github.com/rentmatch/rentmatch-api/pkg/logger"
)

// Background endpoints always answer 200, even on internal failure, so the
// queue never enters a redelivery storm. Failures only show up in the logs.

// SendNotification handles POST /api/background/send-notification.
func (h *Handlers) SendNotification(w http.ResponseWriter, r *http.Request) {
	var ev domain.NotificationEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		logger.ErrorContext(r.Context(), "background notification: bad payload", "error", err)
		response.OK(w, "discarded", nil)
		return
	}

	if err := h.notify.Dispatch(r.Context(), ev); err != nil {
		logger.ErrorContext(r.Context(), "background notification dispatch failed", "type", ev.Type, "error", err)
		response.OK(w, "failed", nil)
		return
	}

	response.OK(w, "sent", nil)
}

// LogToAxiom handles POST /api/background/log-to-axiom.
func (h *Handlers) LogToAxiom(w http.ResponseWriter, r *http.Request) {
	var job struct {
		Entries []logship.Entry `json:"entries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		logger.ErrorContext(r.Context(), "background log shipping: bad payload", "error", err)
		response.OK(w, "discarded", nil)
		return
	}

	if err := h.shipper.Ingest(r.Context(), job.Entries...); err != nil {
		logger.ErrorContext(r.Context(), "background log shipping failed", "entries", len(job.Entries), "error", err)
		response.OK(w, "failed", nil)
		return
	}

	response.OK(w, "shipped", nil)
}
