package mailer

import "github.com/rentmatch/rentmatch-api/pkg/logger"

// DevMailer logs instead of sending. Used outside prod unless MAIL_FORCE is
// set.
type DevMailer struct{}

func (DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("dev mail (not sent)",
		"to", toEmail,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}
