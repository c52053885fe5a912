package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rentmatch/rentmatch-api/internal/domain"
	"github.com/rentmatch/rentmatch-api/internal/http/response"
	"github.com/rentmatch/rentmatch-api/internal/platform/media"
	"github.com/rentmatch/rentmatch-api/internal/validate"
	"github.com/rentmatch/rentmatch-api/pkg/logger"
)

// SubmitRoomListing handles POST /api/submit-room-listing. Flow per request:
// validate -> upload photos -> insert -> best-effort notify -> respond.
// Validation rejects before any upload or insert happens.
func (h *Handlers) SubmitRoomListing(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	sub, images, errs := validate.ListingForm(r.MultipartForm)
	if !errs.Empty() {
		response.Invalid(w, http.StatusUnprocessableEntity, errs)
		return
	}

	folder := media.ListingFolder(sub.Description, time.Now())

	urls, err := h.uploadImages(r, images, folder)
	if err != nil {
		logger.ErrorContext(r.Context(), "photo upload failed", "folder", folder, "error", err)
		response.Fail(w, http.StatusInternalServerError, "Could not store the photos. Please try again.")
		return
	}

	size, _ := strconv.ParseFloat(strings.TrimSpace(sub.Size), 64)
	rent, _ := strconv.ParseFloat(strings.TrimSpace(sub.Rent), 64)

	listing := &domain.RoomListing{
		Title:          domain.NewLocalizedText(fmt.Sprintf("Room in %s", sub.City)),
		City:           sub.City,
		Address:        sub.Address,
		Postcode:       sub.Postcode,
		Size:           size,
		Rent:           rent,
		Registration:   sub.Registration,
		PetsAllowed:    sub.PetsAllowed,
		SmokingAllowed: sub.SmokingAllowed,
		Bills:          domain.NewLocalizedText(sub.Bills),
		Flatmates:      domain.NewLocalizedText(sub.Flatmates),
		Period:         domain.NewLocalizedText(sub.Period),
		Description:    domain.NewLocalizedText(sub.Description),
		ImageURLs:      urls,
		Folder:         folder,
	}

	// Listing fees are currently switched off; the provider is only wired
	// when PAYMENTS_ENABLED is set.
	if h.payments != nil {
		link, err := h.payments.CreatePaymentLink(r.Context(), folder)
		if err != nil {
			logger.ErrorContext(r.Context(), "payment link creation failed", "folder", folder, "error", err)
		} else {
			listing.PaymentLink = link
		}
	}

	saved, err := h.properties.Insert(r.Context(), listing)
	if err != nil {
		logger.ErrorContext(r.Context(), "listing insert failed", "folder", folder, "error", err)
		response.Fail(w, http.StatusInternalServerError, "Could not save the listing. Please try again.")
		return
	}

	// Best-effort side task: the outcome never changes this response.
	if ev, err := domain.NewListingNotification(saved); err != nil {
		logger.ErrorContext(r.Context(), "listing notification encode failed", "listing_id", saved.ID, "error", err)
	} else {
		h.notify.DispatchLogged(r.Context(), ev)
	}

	response.OK(w, "Your room has been submitted.", map[string]any{
		"id":     saved.ID,
		"folder": saved.Folder,
	})
}

// uploadImages opens each part and streams it to the media store
// sequentially; the first failure aborts the batch.
func (h *Handlers) uploadImages(r *http.Request, images []*multipart.FileHeader, folder string) ([]string, error) {
	files := make([]media.File, 0, len(images))
	for _, fh := range images {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", fh.Filename, err)
		}
		defer f.Close()
		files = append(files, media.File{Name: fh.Filename, Contents: f})
	}
	return h.uploader.UploadAll(r.Context(), files, folder)
}
