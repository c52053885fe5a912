package logship_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rentmatch/rentmatch-api/internal/platform/logship"
	"github.com/rentmatch/rentmatch-api/pkg/config"
	"github.com/rentmatch/rentmatch-api/pkg/events"
)

type mockPublisher struct {
	subjects []string
	payloads []any
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.subjects = append(m.subjects, subject)
	m.payloads = append(m.payloads, data)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func TestShipEnqueuesWhenQueueAttached(t *testing.T) {
	queue := &mockPublisher{}
	s := logship.New(config.AxiomConfig{})
	s.UseQueue(queue)

	entry := logship.Entry{
		Time:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Type:   "outgoing",
		Source: "api",
		Response: map[string]any{
			"status": 200,
		},
		Level: "info",
	}
	s.Ship(entry)

	if len(queue.subjects) != 1 || queue.subjects[0] != events.LogsShip {
		t.Fatalf("published subjects = %v, want [%s]", queue.subjects, events.LogsShip)
	}

	job, ok := queue.payloads[0].(events.LogShipJob)
	if !ok {
		t.Fatalf("payload type = %T, want events.LogShipJob", queue.payloads[0])
	}

	// The job body must round-trip through the background endpoint's shape.
	var body struct {
		Entries []logship.Entry `json:"entries"`
	}
	wire, err := json.Marshal(job)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(wire, &body); err != nil {
		t.Fatalf("job body does not decode as the endpoint expects: %v", err)
	}
	if len(body.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(body.Entries))
	}
	if got := body.Entries[0]; got.Type != "outgoing" || got.Source != "api" || got.Level != "info" {
		t.Errorf("entry round-trip mismatch: %+v", got)
	}
}

func TestShipQueueFailureFallsBackWithoutPanic(t *testing.T) {
	queue := &mockPublisher{err: errors.New("nats down")}
	s := logship.New(config.AxiomConfig{})
	s.UseQueue(queue)

	// The sink is unconfigured, so the direct fallback is a no-op; the call
	// must still return cleanly.
	s.Ship(logship.Entry{Type: "incoming", Source: "api", Level: "info"})

	if len(queue.subjects) != 0 {
		t.Errorf("failing publisher recorded subjects: %v", queue.subjects)
	}
}

func TestShipWithoutQueueOrSinkIsNoOp(t *testing.T) {
	s := logship.New(config.AxiomConfig{})
	if s.Enabled() {
		t.Fatal("shipper unexpectedly enabled without a token")
	}
	s.Ship(logship.Entry{Type: "incoming", Source: "api", Level: "info"})
}
