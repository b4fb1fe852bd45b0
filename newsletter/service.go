// Package newsletter implements rate-limited newsletter signup.
package newsletter

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	// ErrRateLimited means the client exceeded its request window.
	ErrRateLimited = errors.New("newsletter: too many requests")
	// ErrInvalidEmail means the submitted address failed validation.
	ErrInvalidEmail = errors.New("newsletter: invalid email")
	// ErrUnavailable means no subscriber store is configured.
	ErrUnavailable = errors.New("newsletter: service unavailable")
)

// Result is the outcome of a successful Subscribe call.
type Result int

const (
	// Subscribed means a new subscriber row was created.
	Subscribed Result = iota + 1
	// AlreadySubscribed means the address was on the list; nothing changed.
	AlreadySubscribed
)

func (r Result) String() string {
	switch r {
	case Subscribed:
		return "subscribed"
	case AlreadySubscribed:
		return "already_subscribed"
	default:
		return "unknown"
	}
}

// Service guards the subscriber store with a per-client limiter.
type Service struct {
	limiter Limiter
	store   Store
	logger  zerolog.Logger
}

// NewService creates a Service. A nil store makes every call fail with
// ErrUnavailable.
func NewService(limiter Limiter, store Store, logger zerolog.Logger) *Service {
	return &Service{
		limiter: limiter,
		store:   store,
		logger:  logger.With().Str("component", "newsletter").Logger(),
	}
}

// Subscribe adds email to the list on behalf of clientKey (usually the
// client IP). The rate limit is checked before anything else touches the
// request, then the address is validated, then the store is consulted.
// Store errors are returned wrapped and are never retried.
func (s *Service) Subscribe(ctx context.Context, clientKey, email string) (Result, error) {
	if s.store == nil {
		return 0, ErrUnavailable
	}

	ok, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		return 0, fmt.Errorf("newsletter: rate limit check: %w", err)
	}
	if !ok {
		s.logger.Info().Str("client", clientKey).Msg("subscribe rate limited")
		return 0, ErrRateLimited
	}

	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}

	exists, err := s.store.Exists(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("newsletter: lookup subscriber: %w", err)
	}
	if exists {
		return AlreadySubscribed, nil
	}

	sub, err := s.store.InsertIfAbsent(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("newsletter: insert subscriber: %w", err)
	}
	if sub == nil {
		// Inserted concurrently between the lookup and the insert.
		return AlreadySubscribed, nil
	}
	s.logger.Info().Int64("subscriber_id", sub.ID).Msg("new subscriber")
	return Subscribed, nil
}
