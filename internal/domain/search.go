package domain

import "time"

// AccommodationTypes accepted on the room-searching form.
var AccommodationTypes = []string{"room", "studio", "apartment"}

// SearchInterface tags every search request with its submission channel.
const SearchInterface = "web"

// SearchSubmission is the parsed multipart payload of the room-searching form.
type SearchSubmission struct {
	Name              string `form:"name" validate:"required"`
	Surname           string `form:"surname" validate:"required"`
	Email             string `form:"email" validate:"required,email"`
	Phone             string `form:"phone" validate:"required,phonedigits"`
	AccommodationType string `form:"accommodationType" validate:"required,accommodation"`
	City              string `form:"city" validate:"required,city"`
	Budget            int    `form:"budget" validate:"required,min=1"`
	MoveIn            string `form:"move_in" validate:"required,ymdate"`
	Period            string `form:"period" validate:"required"`
	Registration      string `form:"registration" validate:"required"`
	People            int    `form:"people" validate:"required,min=1"`
	Note              string `form:"note"`
	ReferralCode      string `form:"referral_code"`
}

// RoomSearchRequest is the persisted record for a prospective tenant.
type RoomSearchRequest struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Surname           string    `json:"surname"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	AccommodationType string    `json:"accommodation_type"`
	City              string    `json:"city"`
	Budget            int       `json:"budget"`
	MoveIn            string    `json:"move_in"`
	Period            string    `json:"period"`
	Registration      string    `json:"registration"`
	People            int       `json:"people"`
	LetterURL         string    `json:"letter_url,omitempty"`
	Note              string    `json:"note,omitempty"`
	ReferralCode      string    `json:"referral_code,omitempty"`
	Interface         string    `json:"interface"`
	CreatedAt         time.Time `json:"created_at"`
}
