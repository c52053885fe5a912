// Package validate checks submission payloads and reports every failing
// field at once, as a mapping from form field name to human-readable
// messages.
package validate

import (
	"mime/multipart"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rentmatch/rentmatch-api/internal/domain"
)

// Errors maps a form field name to the ordered list of messages for it.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

var (
	ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	nonDigits  = regexp.MustCompile(`\D`)
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()

	// Report errors under the form field name, not the Go field name.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	val.RegisterValidation("city", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.Cities, fl.Field().String())
	})
	val.RegisterValidation("accommodation", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.AccommodationTypes, fl.Field().String())
	})
	val.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		f, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && f > 0
	})
	val.RegisterValidation("ymdate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !ymdPattern.MatchString(s) {
			return false
		}
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	})
	val.RegisterValidation("phonedigits", func(fl validator.FieldLevel) bool {
		digits := nonDigits.ReplaceAllString(fl.Field().String(), "")
		return len(digits) >= 5
	})

	return val
}

// Per-tag fallback messages.
var tagMessages = map[string]string{
	"required":      "This field is required.",
	"email":         "Must be a valid email address.",
	"min":           "Value is too small.",
	"city":          "Select a city from the list.",
	"accommodation": "Select a valid accommodation type.",
	"decimal":       "Must be a positive number.",
	"ymdate":        "Must be a valid date in YYYY-MM-DD format.",
	"phonedigits":   "Must contain at least 5 digits.",
}

// Per-field overrides where the fallback reads poorly.
var fieldMessages = map[string]string{
	"budget/min": "Budget must be at least 1.",
	"people/min": "People count must be at least 1.",
}

// Struct runs the tag rules and folds every violation into errs, skipping
// fields that already carry a parse error.
func structErrors(s any, errs Errors) {
	err := v.Struct(s)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("_", "Invalid submission.")
		return
	}
	for _, fe := range verrs {
		field := fe.Field()
		if len(errs[field]) > 0 {
			continue
		}
		if msg, ok := fieldMessages[field+"/"+fe.Tag()]; ok {
			errs.Add(field, msg)
			continue
		}
		if msg, ok := tagMessages[fe.Tag()]; ok {
			errs.Add(field, msg)
			continue
		}
		errs.Add(field, "Invalid value.")
	}
}

func formValue(form *multipart.Form, key string) string {
	if form == nil {
		return ""
	}
	if vs := form.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

func formBool(form *multipart.Form, key string) bool {
	b, err := strconv.ParseBool(formValue(form, key))
	return err == nil && b
}

// ListingForm parses and validates the room-listing multipart payload,
// including the images[] file list. All field errors are collected; nothing
// short-circuits on the first failure.
func ListingForm(form *multipart.Form) (*domain.ListingSubmission, []*multipart.FileHeader, Errors) {
	errs := Errors{}

	sub := &domain.ListingSubmission{
		City:           formValue(form, "city"),
		Address:        formValue(form, "address"),
		Postcode:       formValue(form, "postcode"),
		Size:           formValue(form, "size"),
		Rent:           formValue(form, "rent"),
		Registration:   formBool(form, "registration"),
		PetsAllowed:    formBool(form, "pets_allowed"),
		SmokingAllowed: formBool(form, "smoking_allowed"),
		Bills:          formValue(form, "bills"),
		Flatmates:      formValue(form, "flatmates"),
		Period:         formValue(form, "period"),
		Description:    formValue(form, "description"),
	}

	structErrors(sub, errs)

	var images []*multipart.FileHeader
	if form != nil {
		images = form.File["images"]
	}
	imageFileErrors(images, errs)

	return sub, images, errs
}

// SearchForm parses and validates the room-searching multipart payload and
// its optional cover letter.
func SearchForm(form *multipart.Form) (*domain.SearchSubmission, *multipart.FileHeader, Errors) {
	errs := Errors{}

	sub := &domain.SearchSubmission{
		Name:              formValue(form, "name"),
		Surname:           formValue(form, "surname"),
		Email:             formValue(form, "email"),
		Phone:             formValue(form, "phone"),
		AccommodationType: formValue(form, "accommodationType"),
		City:              formValue(form, "city"),
		MoveIn:            formValue(form, "move_in"),
		Period:            formValue(form, "period"),
		Registration:      formValue(form, "registration"),
		Note:              formValue(form, "note"),
		ReferralCode:      formValue(form, "referral_code"),
	}

	if raw := formValue(form, "budget"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add("budget", "Must be a whole number.")
		} else {
			sub.Budget = n
		}
	}
	if raw := formValue(form, "people"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add("people", "Must be a whole number.")
		} else {
			sub.People = n
		}
	}

	structErrors(sub, errs)

	var letter *multipart.FileHeader
	if form != nil {
		if fhs := form.File["letter"]; len(fhs) > 0 {
			letter = fhs[0]
			letterFileErrors(letter, errs)
		}
	}

	return sub, letter, errs
}
