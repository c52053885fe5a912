package handlers

import (
	"net/http"

	"github.com/rentmatch/rentmatch-api/internal/domain"
	"github.com/rentmatch/rentmatch-api/internal/http/response"
	"github.com/rentmatch/rentmatch-api/internal/platform/media"
	"github.com/rentmatch/rentmatch-api/internal/validate"
	"github.com/rentmatch/rentmatch-api/pkg/events"
	"github.com/rentmatch/rentmatch-api/pkg/logger"
)

// SubmitRoomSearching handles POST /api/submit-room-searching. The
// notification is handed to the queue; delivery and retry are the queue's
// concern, so the handler publishes and returns.
func (h *Handlers) SubmitRoomSearching(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	sub, letter, errs := validate.SearchForm(r.MultipartForm)
	if !errs.Empty() {
		response.Invalid(w, http.StatusBadRequest, errs)
		return
	}

	var letterURL string
	if letter != nil {
		f, err := letter.Open()
		if err == nil {
			defer f.Close()
			letterURL, err = h.uploader.Upload(r.Context(), media.File{Name: letter.Filename, Contents: f}, "letters")
		}
		if err != nil {
			logger.ErrorContext(r.Context(), "cover letter upload failed", "error", err)
			response.Fail(w, http.StatusInternalServerError, "Could not store the cover letter. Please try again.")
			return
		}
	}

	req := &domain.RoomSearchRequest{
		Name:              sub.Name,
		Surname:           sub.Surname,
		Email:             sub.Email,
		Phone:             sub.Phone,
		AccommodationType: sub.AccommodationType,
		City:              sub.City,
		Budget:            sub.Budget,
		MoveIn:            sub.MoveIn,
		Period:            sub.Period,
		Registration:      sub.Registration,
		People:            sub.People,
		LetterURL:         letterURL,
		Note:              sub.Note,
		ReferralCode:      sub.ReferralCode,
		Interface:         domain.SearchInterface,
	}

	saved, err := h.searches.Insert(r.Context(), req)
	if err != nil {
		logger.ErrorContext(r.Context(), "search request insert failed", "error", err)
		response.Fail(w, http.StatusInternalServerError, "Could not save your request. Please try again.")
		return
	}

	ev, err := domain.NewSearchNotification(saved)
	if err != nil {
		logger.ErrorContext(r.Context(), "search notification encode failed", "request_id", saved.ID, "error", err)
	} else if h.queue != nil {
		job := events.NotificationJob{Type: ev.Type, Data: ev.Data}
		if err := h.queue.Publish(r.Context(), events.NotifySend, job); err != nil {
			logger.ErrorContext(r.Context(), "notification enqueue failed, sending inline", "error", err)
			h.notify.DispatchLogged(r.Context(), ev)
		}
	} else {
		h.notify.DispatchLogged(r.Context(), ev)
	}

	response.OK(w, "Your search request has been submitted.", map[string]any{
		"id": saved.ID,
	})
}
