package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	// ErrInvalid wraps field validation failures.
	ErrInvalid = errors.New("contact: invalid submission")
	// ErrVerificationFailed means the bot check did not pass.
	ErrVerificationFailed = errors.New("contact: verification failed")
)

// Service validates, verifies and forwards contact messages.
type Service struct {
	verifier Verifier
	mailer   Mailer
	from     string
	to       string
	logger   zerolog.Logger
}

// NewService returns a Service delivering to the to address, sent as from.
func NewService(verifier Verifier, mailer Mailer, from, to string, logger zerolog.Logger) *Service {
	return &Service{
		verifier: verifier,
		mailer:   mailer,
		from:     from,
		to:       to,
		logger:   logger.With().Str("component", "contact").Logger(),
	}
}

// Submit validates msg, checks its token and emails it. The sender's
// address becomes the reply-to of the notification.
func (s *Service) Submit(ctx context.Context, remoteIP string, msg Message) error {
	msg = msg.clean()
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	ok, err := s.verifier.Verify(ctx, msg.Token, remoteIP)
	if err != nil {
		s.logger.Warn().Err(err).Msg("verification request failed")
		return ErrVerificationFailed
	}
	if !ok {
		return ErrVerificationFailed
	}

	body, err := renderNotification(msg)
	if err != nil {
		return err
	}
	err = s.mailer.Send(ctx, Email{
		From:    s.from,
		To:      s.to,
		ReplyTo: msg.Email,
		Subject: "Contact Form: " + msg.Subject,
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("contact: send: %w", err)
	}
	s.logger.Info().Str("reply_to", msg.Email).Msg("contact message forwarded")
	return nil
}
