// Package notify renders and sends the operator emails for new submissions.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/rentmatch/rentmatch-api/internal/domain"
	"github.com/rentmatch/rentmatch-api/internal/platform/mailer"
	"github.com/rentmatch/rentmatch-api/pkg/logger"
)

// Dispatcher turns a NotificationEvent into exactly one operator email.
type Dispatcher struct {
	mailer mailer.Service
	to     string
	toName string
}

func NewDispatcher(m mailer.Service, to, toName string) *Dispatcher {
	return &Dispatcher{mailer: m, to: to, toName: toName}
}

// Dispatch renders the template pair for the event type and sends it.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.NotificationEvent) error {
	var subject, text, html string
	var err error

	switch ev.Type {
	case domain.NotifyRoomListing:
		var l domain.RoomListing
		if err := json.Unmarshal(ev.Data, &l); err != nil {
			return fmt.Errorf("decode %s event: %w", ev.Type, err)
		}
		subject, text, html, err = renderListing(&l)
	case domain.NotifyRoomSearching:
		var s domain.RoomSearchRequest
		if err := json.Unmarshal(ev.Data, &s); err != nil {
			return fmt.Errorf("decode %s event: %w", ev.Type, err)
		}
		subject, text, html, err = renderSearch(&s)
	default:
		return fmt.Errorf("unknown notification type %q", ev.Type)
	}
	if err != nil {
		return fmt.Errorf("render %s email: %w", ev.Type, err)
	}

	if _, err := d.mailer.Send(d.to, d.toName, subject, text, html); err != nil {
		return fmt.Errorf("send %s email: %w", ev.Type, err)
	}
	return nil
}

// DispatchLogged is the best-effort form used inline in the submission flow:
// the result is discarded, failures are logged and must never surface to the
// originating request.
func (d *Dispatcher) DispatchLogged(ctx context.Context, ev domain.NotificationEvent) {
	if err := d.Dispatch(ctx, ev); err != nil {
		logger.ErrorContext(ctx, "notification dispatch failed", "type", ev.Type, "error", err)
	}
}

var listingText = texttemplate.Must(texttemplate.New("listing_text").Parse(
	`New room listing in {{.City}}

Address:   {{.Address}}, {{.Postcode}}
Size:      {{.Size}} m2
Rent:      EUR {{.Rent}}/month
Registration possible: {{if .Registration}}yes{{else}}no{{end}}
Pets allowed:          {{if .PetsAllowed}}yes{{else}}no{{end}}
Smoking allowed:       {{if .SmokingAllowed}}yes{{else}}no{{end}}
Bills:     {{index .Bills "en"}}
Flatmates: {{index .Flatmates "en"}}
Period:    {{index .Period "en"}}

{{index .Description "en"}}

Photos:
{{range .ImageURLs}}  {{.}}
{{end}}`))

var listingHTML = template.Must(template.New("listing_html").Parse(
	`<h2>New room listing in {{.City}}</h2>
<table>
<tr><td>Address</td><td>{{.Address}}, {{.Postcode}}</td></tr>
<tr><td>Size</td><td>{{.Size}} m&sup2;</td></tr>
<tr><td>Rent</td><td>&euro;{{.Rent}}/month</td></tr>
<tr><td>Registration</td><td>{{if .Registration}}yes{{else}}no{{end}}</td></tr>
<tr><td>Pets</td><td>{{if .PetsAllowed}}yes{{else}}no{{end}}</td></tr>
<tr><td>Smoking</td><td>{{if .SmokingAllowed}}yes{{else}}no{{end}}</td></tr>
<tr><td>Bills</td><td>{{index .Bills "en"}}</td></tr>
<tr><td>Flatmates</td><td>{{index .Flatmates "en"}}</td></tr>
<tr><td>Period</td><td>{{index .Period "en"}}</td></tr>
</table>
<p>{{index .Description "en"}}</p>
<ul>{{range .ImageURLs}}<li><a href="{{.}}">{{.}}</a></li>{{end}}</ul>`))

var searchText = texttemplate.Must(texttemplate.New("search_text").Parse(
	`New room search request

Name:    {{.Name}} {{.Surname}}
Email:   {{.Email}}
Phone:   {{.Phone}}
Looking for: {{.AccommodationType}} in {{.City}}
Budget:  EUR {{.Budget}}/month
Move in: {{.MoveIn}}
Period:  {{.Period}}
Registration: {{.Registration}}
People:  {{.People}}
{{if .LetterURL}}Cover letter: {{.LetterURL}}
{{end}}{{if .Note}}Note: {{.Note}}
{{end}}{{if .ReferralCode}}Referral: {{.ReferralCode}}
{{end}}`))

var searchHTML = template.Must(template.New("search_html").Parse(
	`<h2>New room search request</h2>
<table>
<tr><td>Name</td><td>{{.Name}} {{.Surname}}</td></tr>
<tr><td>Email</td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
<tr><td>Phone</td><td>{{.Phone}}</td></tr>
<tr><td>Looking for</td><td>{{.AccommodationType}} in {{.City}}</td></tr>
<tr><td>Budget</td><td>&euro;{{.Budget}}/month</td></tr>
<tr><td>Move in</td><td>{{.MoveIn}}</td></tr>
<tr><td>Period</td><td>{{.Period}}</td></tr>
<tr><td>Registration</td><td>{{.Registration}}</td></tr>
<tr><td>People</td><td>{{.People}}</td></tr>
{{if .LetterURL}}<tr><td>Cover letter</td><td><a href="{{.LetterURL}}">{{.LetterURL}}</a></td></tr>{{end}}
{{if .Note}}<tr><td>Note</td><td>{{.Note}}</td></tr>{{end}}
{{if .ReferralCode}}<tr><td>Referral</td><td>{{.ReferralCode}}</td></tr>{{end}}
</table>`))

func renderListing(l *domain.RoomListing) (string, string, string, error) {
	subject := fmt.Sprintf("New room listing: %s, %s", l.City, l.Address)
	text, html, err := render(listingText, listingHTML, l)
	return subject, text, html, err
}

func renderSearch(s *domain.RoomSearchRequest) (string, string, string, error) {
	subject := fmt.Sprintf("New room search: %s in %s", s.AccommodationType, s.City)
	text, html, err := render(searchText, searchHTML, s)
	return subject, text, html, err
}

func render(text *texttemplate.Template, html *template.Template, data any) (string, string, error) {
	var tb, hb bytes.Buffer
	if err := text.Execute(&tb, data); err != nil {
		return "", "", err
	}
	if err := html.Execute(&hb, data); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(tb.String()) + "\n", hb.String(), nil
}
