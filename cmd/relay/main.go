// The relay drains the queue and delivers each job to the matching
// background endpoint over signed HTTP, the way a managed delivery queue
// would. At-least-once semantics: a failed delivery stays with the queue's
// redelivery policy, the relay itself never retries.
package main

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rentmatch/rentmatch-api/pkg/config"
	"github.com/rentmatch/rentmatch-api/pkg/events"
	"github.com/rentmatch/rentmatch-api/pkg/jobauth"
	"github.com/rentmatch/rentmatch-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	if cfg.Queue.URL == "" {
		logger.Error("NATS_URL is required for the relay")
		os.Exit(1)
	}

	bus, err := events.NewNATSEventBus(cfg.Queue.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	r := &relay{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}

	routes := map[string]string{
		events.NotifySend: "/api/background/send-notification",
		events.LogsShip:   "/api/background/log-to-axiom",
	}
	for subject, path := range routes {
		subject, path := subject, path
		err := bus.QueueSubscribe(subject, "relay", func(msg *events.Message) {
			r.deliver(subject, path, msg.Data)
		})
		if err != nil {
			logger.Error("Failed to subscribe", "subject", subject, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Relay started", "api", cfg.Jobs.APIBaseURL)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down relay...")
}

type relay struct {
	cfg    *config.Config
	client *http.Client
}

func (r *relay) deliver(subject, path string, body []byte) {
	token, err := jobauth.NewJobToken(subject, r.cfg.Jobs.SigningSecret, r.cfg.Jobs.TokenTTL)
	if err != nil {
		logger.Error("Failed to sign job token", "subject", subject, "error", err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, r.cfg.Jobs.APIBaseURL+path, bytes.NewReader(body))
	if err != nil {
		logger.Error("Failed to build delivery request", "subject", subject, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := r.client.Do(req)
	if err != nil {
		logger.Error("Job delivery failed", "subject", subject, "error", err)
		return
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	logger.Info("Job delivered", "subject", subject, "status", res.StatusCode)
}
