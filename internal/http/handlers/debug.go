package handlers

import (
	"net/http"

	"github.com/rentmatch/rentmatch-api/internal/http/response"
)

// QueueStatus handles GET /api/debug/queue-status and reports how the
// background queue is configured in this environment.
func (h *Handlers) QueueStatus(w http.ResponseWriter, r *http.Request) {
	response.OK(w, "", map[string]any{
		"app_env":        h.cfg.AppEnv,
		"enabled":        h.cfg.Queue.Enabled,
		"url_configured": h.cfg.Queue.URL != "",
		"connected":      h.queue != nil,
		"log_sink":       h.shipper.Enabled(),
	})
}
