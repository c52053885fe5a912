package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/rentmatch/rentmatch-api/internal/domain"
	"github.com/rentmatch/rentmatch-api/internal/http/handlers"
	"github.com/rentmatch/rentmatch-api/internal/platform/logship"
	"github.com/rentmatch/rentmatch-api/internal/platform/media"
	"github.com/rentmatch/rentmatch-api/pkg/config"
	"github.com/rentmatch/rentmatch-api/pkg/events"
	"github.com/rentmatch/rentmatch-api/pkg/jobauth"
)

// ---------- Mocks ----------

type mockProperties struct {
	inserted []*domain.RoomListing
	err      error
}

func (m *mockProperties) Insert(_ context.Context, l *domain.RoomListing) (*domain.RoomListing, error) {
	if m.err != nil {
		return nil, m.err
	}
	l.ID = int64(len(m.inserted) + 1)
	l.CreatedAt = time.Now()
	m.inserted = append(m.inserted, l)
	return l, nil
}

type mockSearches struct {
	inserted []*domain.RoomSearchRequest
	err      error
}

func (m *mockSearches) Insert(_ context.Context, s *domain.RoomSearchRequest) (*domain.RoomSearchRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	s.ID = int64(len(m.inserted) + 1)
	s.CreatedAt = time.Now()
	m.inserted = append(m.inserted, s)
	return s, nil
}

type mockUploader struct {
	uploads int
	batches int
	err     error
}

func (m *mockUploader) Upload(_ context.Context, f media.File, folder string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.uploads++
	return fmt.Sprintf("https://cdn.example/%s/%s", folder, f.Name), nil
}

func (m *mockUploader) UploadAll(ctx context.Context, files []media.File, folder string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.batches++
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, _ := m.Upload(ctx, f, folder)
		urls = append(urls, url)
	}
	return urls, nil
}

type mockNotifier struct {
	events      []domain.NotificationEvent
	dispatchErr error
}

func (m *mockNotifier) Dispatch(_ context.Context, ev domain.NotificationEvent) error {
	m.events = append(m.events, ev)
	return m.dispatchErr
}

func (m *mockNotifier) DispatchLogged(ctx context.Context, ev domain.NotificationEvent) {
	_ = m.Dispatch(ctx, ev)
}

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

// ---------- Helpers ----------

type fixture struct {
	h          *handlers.Handlers
	cfg        *config.Config
	properties *mockProperties
	searches   *mockSearches
	uploader   *mockUploader
	notifier   *mockNotifier
}

func newFixture(t *testing.T, queue *mockPublisher) *fixture {
	t.Helper()
	f := &fixture{
		cfg:        config.Load(),
		properties: &mockProperties{},
		searches:   &mockSearches{},
		uploader:   &mockUploader{},
		notifier:   &mockNotifier{},
	}
	var q events.Publisher
	if queue != nil {
		q = queue
	}
	f.h = handlers.New(
		f.cfg, f.properties, f.searches, f.uploader, f.notifier,
		q, nil, logship.New(f.cfg.Axiom), nil,
	)
	return f
}

func listingBody(t *testing.T, images int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"city":            "Amsterdam",
		"address":         "Keizersgracht 1",
		"postcode":        "1015 CC",
		"size":            "18",
		"rent":            "950",
		"registration":    "true",
		"pets_allowed":    "false",
		"smoking_allowed": "false",
		"bills":           "included",
		"flatmates":       "2 students",
		"period":          "12 months",
		"description":     "Bright room in the city center",
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	for i := 0; i < images; i++ {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="room%d.jpg"`, i))
		hdr.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("jpegdata"))
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func searchBody(t *testing.T, overrides map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":              "Ana",
		"surname":           "Silva",
		"email":             "ana@example.com",
		"phone":             "+31 6 1234 5678",
		"accommodationType": "room",
		"city":              "Utrecht",
		"budget":            "800",
		"move_in":           "2026-10-01",
		"period":            "12 months",
		"registration":      "required",
		"people":            "1",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}

// ---------- Listing tests ----------

func TestSubmitRoomListingTooFewImages(t *testing.T) {
	f := newFixture(t, nil)
	buf, ct := listingBody(t, 2)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-room-listing", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.h.SubmitRoomListing(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := decode(t, rec)
	errs, _ := body["errors"].(map[string]any)
	if errs["images"] == nil {
		t.Fatalf("expected images field error, got %v", body)
	}
	// Rejection must be idempotent: no upload, no insert.
	if f.uploader.batches != 0 || f.uploader.uploads != 0 {
		t.Error("uploader was called for invalid submission")
	}
	if len(f.properties.inserted) != 0 {
		t.Error("row was inserted for invalid submission")
	}
}

func TestSubmitRoomListingSuccess(t *testing.T) {
	f := newFixture(t, nil)
	buf, ct := listingBody(t, 3)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-room-listing", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.h.SubmitRoomListing(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	body := decode(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	if len(f.properties.inserted) != 1 {
		t.Fatalf("inserted = %d, want 1", len(f.properties.inserted))
	}

	saved := f.properties.inserted[0]
	if len(saved.ImageURLs) != 3 {
		t.Errorf("image urls = %d, want 3", len(saved.ImageURLs))
	}
	for _, lt := range []domain.LocalizedText{saved.Title, saved.Bills, saved.Flatmates, saved.Period, saved.Description} {
		if len(lt) != 8 {
			t.Errorf("localized field has %d keys, want 8", len(lt))
		}
		if lt["en"] == "" {
			t.Error("localized field has empty en value")
		}
		for code, v := range lt {
			if code != "en" && v != "" {
				t.Errorf("locale %s unexpectedly populated: %q", code, v)
			}
		}
	}

	if len(f.notifier.events) != 1 || f.notifier.events[0].Type != domain.NotifyRoomListing {
		t.Errorf("notification events = %+v", f.notifier.events)
	}
}

func TestSubmitRoomListingNotificationFailureDoesNotChangeStatus(t *testing.T) {
	f := newFixture(t, nil)
	f.notifier.dispatchErr = errors.New("smtp unreachable")
	buf, ct := listingBody(t, 3)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-room-listing", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.h.SubmitRoomListing(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite mail failure", rec.Code)
	}
	if body := decode(t, rec); body["success"] != true {
		t.Fatalf("success = %v, want true despite mail failure", body["success"])
	}
}

func TestSubmitRoomListingUploadFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.uploader.err = errors.New("cloudinary down")
	buf, ct := listingBody(t, 3)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-room-listing", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.h.SubmitRoomListing(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if len(f.properties.inserted) != 0 {
		t.Error("row inserted despite failed upload")
	}
	if len(f.notifier.events) != 0 {
		t.Error("notification sent despite failed upload")
	}
}

// ---------- Search tests ----------

func TestSubmitRoomSearchingInvalidMoveIn(t *testing.T) {
	f := newFixture(t, nil)
	buf, ct := searchBody(t, map[string]string{"move_in": "2026-02-30"})

	req := httptest.NewRequest(http.MethodPost, "/api/submit-room-searching", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.h.SubmitRoomSearching(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decode(t, rec)
	errs, _ := body["errors"].(map[string]any)
	if errs["move_in"] == nil {
		t.Fatalf("expected move_in error, got %v", body)
	}
	if len(f.searches.inserted) != 0 {
		t.Error("row inserted despite invalid move_in")
	}
}

func TestSubmitRoomSearchingInlineDispatchWithoutQueue(t *testing.T) {
	f := newFixture(t, nil)
	buf, ct := searchBody(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-room-searching", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.h.SubmitRoomSearching(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if len(f.searches.inserted) != 1 {
		t.Fatalf("inserted = %d, want 1", len(f.searches.inserted))
	}
	if got := f.searches.inserted[0].Interface; got != domain.SearchInterface {
		t.Errorf("interface tag = %q, want %q", got, domain.SearchInterface)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0].Type != domain.NotifyRoomSearching {
		t.Errorf("notification events = %+v", f.notifier.events)
	}
}

func TestSubmitRoomSearchingPublishesToQueue(t *testing.T) {
	queue := &mockPublisher{}
	f := newFixture(t, queue)
	buf, ct := searchBody(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-room-searching", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.h.SubmitRoomSearching(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(queue.subjects) != 1 || queue.subjects[0] != "notify.send" {
		t.Fatalf("published subjects = %v", queue.subjects)
	}
	if len(f.notifier.events) != 0 {
		t.Error("inline dispatch happened although the queue accepted the job")
	}
}

func TestSubmitRoomSearchingQueueFailureFallsBackInline(t *testing.T) {
	queue := &mockPublisher{err: errors.New("nats down")}
	f := newFixture(t, queue)
	buf, ct := searchBody(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-room-searching", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.h.SubmitRoomSearching(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite queue failure", rec.Code)
	}
	if len(f.notifier.events) != 1 {
		t.Errorf("expected inline fallback dispatch, got %+v", f.notifier.events)
	}
}

// ---------- Background endpoint tests ----------

func TestSendNotificationRequiresJobToken(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/background/send-notification", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	f.h.RequireJobToken(http.HandlerFunc(f.h.SendNotification)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSendNotificationAlwaysRespondsOK(t *testing.T) {
	f := newFixture(t, nil)
	f.notifier.dispatchErr = errors.New("smtp unreachable")

	ev := domain.NotificationEvent{Type: domain.NotifyRoomSearching, Data: []byte(`{"name":"Ana"}`)}
	payload, _ := json.Marshal(ev)

	token, err := jobauth.NewJobToken("notify.send", f.cfg.Jobs.SigningSecret, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/background/send-notification", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.h.RequireJobToken(http.HandlerFunc(f.h.SendNotification)).ServeHTTP(rec, req)

	// Always 200, even when the dispatch fails, to prevent redelivery storms.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(f.notifier.events) != 1 {
		t.Fatalf("dispatch attempts = %d, want 1", len(f.notifier.events))
	}
}
