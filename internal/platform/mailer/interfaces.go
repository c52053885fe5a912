package mailer

// Service sends one transactional email. Implementations: Gmail SMTP for
// production, MailerSend as API-based transport, and a dev mailer that only
// logs.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
}
