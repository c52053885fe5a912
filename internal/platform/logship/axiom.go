// Package logship forwards request/response log entries to Axiom. Shipping
// is always best-effort: a missing or unreachable sink degrades to a no-op
// and never surfaces an error to the request path.
package logship

import (
	"context"
	"encoding/json"
	"time"

	"github.com/axiomhq/axiom-go/axiom"

	"github.com/rentmatch/rentmatch-api/pkg/config"
	"github.com/rentmatch/rentmatch-api/pkg/events"
	"github.com/rentmatch/rentmatch-api/pkg/logger"
)

// Entry is one structured request or response event.
type Entry struct {
	Time     time.Time      `json:"time"`
	Type     string         `json:"type"` // incoming | outgoing
	Source   string         `json:"source"`
	Request  map[string]any `json:"request,omitempty"`
	Response map[string]any `json:"response,omitempty"`
	Message  string         `json:"message,omitempty"`
	Level    string         `json:"level"`
}

type Shipper struct {
	client  *axiom.Client
	dataset string
	queue   events.Publisher
}

// New returns a Shipper; with no token configured every call is a no-op.
func New(cfg config.AxiomConfig) *Shipper {
	s := &Shipper{dataset: cfg.Dataset}
	if cfg.Token == "" {
		return s
	}

	opts := []axiom.Option{axiom.SetToken(cfg.Token)}
	if cfg.OrgID != "" {
		opts = append(opts, axiom.SetOrganizationID(cfg.OrgID))
	}
	client, err := axiom.NewClient(opts...)
	if err != nil {
		logger.Warn("axiom client init failed, log shipping disabled", "error", err)
		return s
	}
	s.client = client
	return s
}

func (s *Shipper) Enabled() bool {
	return s != nil && s.client != nil
}

// UseQueue defers shipping through the queue; the relay delivers the
// entries to the background endpoint, which ingests them synchronously.
func (s *Shipper) UseQueue(q events.Publisher) {
	s.queue = q
}

// Ship sends entries without blocking the caller. With a queue attached the
// entries are enqueued instead, and the sink check moves to the background
// endpoint. Failures are logged only.
func (s *Shipper) Ship(entries ...Entry) {
	if s == nil || len(entries) == 0 {
		return
	}
	if s.queue != nil {
		err := s.enqueue(entries)
		if err == nil {
			return
		}
		logger.Warn("log ship enqueue failed, shipping directly", "error", err)
	}
	if !s.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Ingest(ctx, entries...); err != nil {
			logger.Warn("log shipping failed", "error", err, "entries", len(entries))
		}
	}()
}

func (s *Shipper) enqueue(entries []Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.queue.Publish(ctx, events.LogsShip, events.LogShipJob{Entries: raw})
}

// Ingest sends entries synchronously. Used by the background delivery
// endpoint where the queue owns retries.
func (s *Shipper) Ingest(ctx context.Context, entries ...Entry) error {
	if !s.Enabled() {
		return nil
	}
	events := make([]axiom.Event, 0, len(entries))
	for _, e := range entries {
		events = append(events, axiom.Event{
			"_time":    e.Time,
			"type":     e.Type,
			"source":   e.Source,
			"request":  e.Request,
			"response": e.Response,
			"message":  e.Message,
			"level":    e.Level,
		})
	}
	_, err := s.client.IngestEvents(ctx, s.dataset, events)
	return err
}
