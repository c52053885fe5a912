package domain

import "time"

// Cities accepted on both submission forms.
var Cities = []string{
	"Amsterdam",
	"Rotterdam",
	"The Hague",
	"Utrecht",
	"Eindhoven",
	"Groningen",
	"Tilburg",
	"Leiden",
	"Delft",
	"Maastricht",
}

const (
	MinListingImages = 3
	MaxListingImages = 10

	// Per-file upload caps, in bytes.
	MaxImageSize  = 4 << 20
	MaxLetterSize = 3 << 20
)

// ListingSubmission is the parsed multipart payload of the room-listing form,
// before upload and persistence. Field names match the form field names so
// validation errors map back to inputs.
type ListingSubmission struct {
	City           string `form:"city" validate:"required,city"`
	Address        string `form:"address" validate:"required"`
	Postcode       string `form:"postcode" validate:"required"`
	Size           string `form:"size" validate:"required,decimal"`
	Rent           string `form:"rent" validate:"required,decimal"`
	Registration   bool   `form:"registration"`
	PetsAllowed    bool   `form:"pets_allowed"`
	SmokingAllowed bool   `form:"smoking_allowed"`
	Bills          string `form:"bills" validate:"required"`
	Flatmates      string `form:"flatmates" validate:"required"`
	Period         string `form:"period" validate:"required"`
	Description    string `form:"description" validate:"required"`
}

// RoomListing is the persisted record. Immutable after insert; there is no
// update or delete path.
type RoomListing struct {
	ID             int64         `json:"id"`
	Title          LocalizedText `json:"title"`
	City           string        `json:"city"`
	Address        string        `json:"address"`
	Postcode       string        `json:"postcode"`
	Size           float64       `json:"size"`
	Rent           float64       `json:"rent"`
	Registration   bool          `json:"registration"`
	PetsAllowed    bool          `json:"pets_allowed"`
	SmokingAllowed bool          `json:"smoking_allowed"`
	Bills          LocalizedText `json:"bills"`
	Flatmates      LocalizedText `json:"flatmates"`
	Period         LocalizedText `json:"period"`
	Description    LocalizedText `json:"description"`
	ImageURLs      []string      `json:"image_urls"`
	Folder         string        `json:"folder"`
	PaymentLink    string        `json:"payment_link,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
