package notify_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rentmatch/rentmatch-api/internal/domain"
	"github.com/rentmatch/rentmatch-api/internal/notify"
)

type mockMailer struct {
	lastTo      string
	lastSubject string
	lastText    string
	lastHTML    string
	sendErr     error
	calls       int
}

func (m *mockMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	m.calls++
	m.lastTo = toEmail
	m.lastSubject = subject
	m.lastText = text
	m.lastHTML = html
	return "mock-id", m.sendErr
}

func listingEvent(t *testing.T) domain.NotificationEvent {
	t.Helper()
	l := &domain.RoomListing{
		ID:          7,
		Title:       domain.NewLocalizedText("Room in Amsterdam"),
		City:        "Amsterdam",
		Address:     "Keizersgracht 1",
		Postcode:    "1015 CC",
		Size:        18,
		Rent:        950,
		Bills:       domain.NewLocalizedText("included"),
		Flatmates:   domain.NewLocalizedText("2 students"),
		Period:      domain.NewLocalizedText("12 months"),
		Description: domain.NewLocalizedText("Bright room"),
		ImageURLs:   []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg", "https://cdn.example/c.jpg"},
		Folder:      "Bright_room_1700000000000",
	}
	ev, err := domain.NewListingNotification(l)
	if err != nil {
		t.Fatal(err)
	}
	return ev
}

func TestDispatchListing(t *testing.T) {
	m := &mockMailer{}
	d := notify.NewDispatcher(m, "ops@rentmatch.nl", "Ops")

	if err := d.Dispatch(context.Background(), listingEvent(t)); err != nil {
		t.Fatal(err)
	}

	if m.lastTo != "ops@rentmatch.nl" {
		t.Errorf("sent to %q", m.lastTo)
	}
	if !strings.Contains(m.lastSubject, "Amsterdam") {
		t.Errorf("subject %q missing city", m.lastSubject)
	}
	if !strings.Contains(m.lastText, "Keizersgracht 1") || !strings.Contains(m.lastHTML, "Keizersgracht 1") {
		t.Error("body missing address")
	}
	if !strings.Contains(m.lastText, "https://cdn.example/a.jpg") {
		t.Error("text body missing photo URLs")
	}
}

func TestDispatchSearch(t *testing.T) {
	m := &mockMailer{}
	d := notify.NewDispatcher(m, "ops@rentmatch.nl", "Ops")

	s := &domain.RoomSearchRequest{
		ID:                3,
		Name:              "Ana",
		Surname:           "Silva",
		Email:             "ana@example.com",
		Phone:             "+31612345678",
		AccommodationType: "studio",
		City:              "Utrecht",
		Budget:            900,
		MoveIn:            "2026-10-01",
		Period:            "12 months",
		Registration:      "required",
		People:            1,
		Interface:         domain.SearchInterface,
	}
	ev, err := domain.NewSearchNotification(s)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Dispatch(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.lastSubject, "Utrecht") {
		t.Errorf("subject %q missing city", m.lastSubject)
	}
	if !strings.Contains(m.lastText, "2026-10-01") {
		t.Error("body missing move-in date")
	}
}

func TestDispatchUnknownType(t *testing.T) {
	m := &mockMailer{}
	d := notify.NewDispatcher(m, "ops@rentmatch.nl", "Ops")

	err := d.Dispatch(context.Background(), domain.NotificationEvent{Type: "carrier_pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if m.calls != 0 {
		t.Fatal("mailer should not be called")
	}
}

func TestDispatchLoggedSwallowsErrors(t *testing.T) {
	m := &mockMailer{sendErr: errors.New("smtp unreachable")}
	d := notify.NewDispatcher(m, "ops@rentmatch.nl", "Ops")

	// Must not panic and must not propagate the failure.
	d.DispatchLogged(context.Background(), listingEvent(t))

	if m.calls != 1 {
		t.Fatalf("expected one send attempt, got %d", m.calls)
	}
}
