package contact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Email is an outgoing notification.
type Email struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer delivers an Email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// ResendMailer sends mail through the Resend API.
type ResendMailer struct {
	client *resend.Client
	logger zerolog.Logger
}

// NewResendMailer wraps a Resend client.
func NewResendMailer(client *resend.Client, logger zerolog.Logger) *ResendMailer {
	return &ResendMailer{client: client, logger: logger.With().Str("component", "mailer").Logger()}
}

// Send implements Mailer. Rate limit responses are reported, not retried.
func (m *ResendMailer) Send(ctx context.Context, e Email) error {
	params := &resend.SendEmailRequest{
		From:    e.From,
		To:      []string{e.To},
		ReplyTo: e.ReplyTo,
		Subject: e.Subject,
		Html:    e.HTML,
	}
	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			m.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
			return fmt.Errorf("resend rate limit exceeded (resets in %s seconds): %w", rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}
	m.logger.Info().Str("email_id", sent.Id).Msg("contact email sent")
	return nil
}

var notificationTemplate = template.Must(template.New("contact").Parse(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<h3>Message:</h3>
<p>{{.Message}}</p>
`))

func renderNotification(m Message) (string, error) {
	var buf bytes.Buffer
	if err := notificationTemplate.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("render contact email: %w", err)
	}
	return buf.String(), nil
}
