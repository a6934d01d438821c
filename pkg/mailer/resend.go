package mailer

import (
	"fmt"
	"os"

	"github.com/resend/resend-go/v2"
)

// Mailer defines contract for the transactional email provider (Resend implementation).
type Mailer interface {
	// Send dispatches one HTML email. Each send is independent; callers
	// decide whether a failure aborts anything else.
	Send(to, subject, htmlBody string) error
}

type resendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer builds a Resend-backed Mailer. It expects RESEND_API_KEY
// and optionally MAIL_FROM in the environment.
func NewResendMailer() (Mailer, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is not set")
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "DAP <noreply@dap.app>"
	}

	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

func (m *resendMailer) Send(to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	if _, err := m.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}
