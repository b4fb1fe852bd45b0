package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	ok    bool
	err   error
	token string
}

func (v *stubVerifier) Verify(_ context.Context, token, _ string) (bool, error) {
	v.token = token
	return v.ok, v.err
}

type recordingMailer struct {
	sent []Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, e Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func validMessage() Message {
	return Message{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "I like the planner.",
		Token:   "tok",
	}
}

func TestSubmitSendsEmail(t *testing.T) {
	mailer := &recordingMailer{}
	verifier := &stubVerifier{ok: true}
	svc := NewService(verifier, mailer, "Site <noreply@example.com>", "support@example.com", zerolog.Nop())

	require.NoError(t, svc.Submit(context.Background(), "203.0.113.1", validMessage()))
	require.Len(t, mailer.sent, 1)

	sent := mailer.sent[0]
	assert.Equal(t, "Site <noreply@example.com>", sent.From)
	assert.Equal(t, "support@example.com", sent.To)
	assert.Equal(t, "ada@example.com", sent.ReplyTo)
	assert.Equal(t, "Contact Form: Hello", sent.Subject)
	assert.Contains(t, sent.HTML, "I like the planner.")
	assert.Equal(t, "tok", verifier.token)
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	cases := map[string]func(*Message){
		"name":    func(m *Message) { m.Name = "" },
		"email":   func(m *Message) { m.Email = " " },
		"subject": func(m *Message) { m.Subject = "" },
		"message": func(m *Message) { m.Message = "" },
		"bad email": func(m *Message) {
			m.Email = "not-an-email"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			mailer := &recordingMailer{}
			svc := NewService(&stubVerifier{ok: true}, mailer, "from@example.com", "to@example.com", zerolog.Nop())
			msg := validMessage()
			mutate(&msg)

			err := svc.Submit(context.Background(), "", msg)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Empty(t, mailer.sent)
		})
	}
}

func TestSubmitVerificationFailed(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(&stubVerifier{ok: false}, mailer, "from@example.com", "to@example.com", zerolog.Nop())
	err := svc.Submit(context.Background(), "", validMessage())
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Empty(t, mailer.sent)

	svc = NewService(&stubVerifier{err: errors.New("timeout")}, mailer, "from@example.com", "to@example.com", zerolog.Nop())
	err = svc.Submit(context.Background(), "", validMessage())
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestSubmitSendError(t *testing.T) {
	boom := errors.New("upstream 500")
	svc := NewService(&stubVerifier{ok: true}, &recordingMailer{err: boom}, "from@example.com", "to@example.com", zerolog.Nop())
	err := svc.Submit(context.Background(), "", validMessage())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestSubmitStripsMarkup(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(&stubVerifier{ok: true}, mailer, "from@example.com", "to@example.com", zerolog.Nop())
	msg := validMessage()
	msg.Message = `<script>alert(1)</script>Tom & Jerry`

	require.NoError(t, svc.Submit(context.Background(), "", msg))
	require.Len(t, mailer.sent, 1)
	assert.NotContains(t, mailer.sent[0].HTML, "<script>")
	assert.Contains(t, mailer.sent[0].HTML, "Tom &amp; Jerry")
}

func TestThrottle(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	th := NewThrottle(time.Minute, 2, 10*time.Minute)
	th.now = func() time.Time { return now }

	assert.True(t, th.Allow("a"))
	assert.True(t, th.Allow("a"))
	assert.False(t, th.Allow("a"))
	assert.True(t, th.Allow("b"), "clients are independent")

	now = now.Add(time.Minute)
	assert.True(t, th.Allow("a"), "one token refilled")
	assert.False(t, th.Allow("a"))

	now = now.Add(11 * time.Minute)
	th.Sweep()
	assert.Equal(t, 0, th.Len())
}

func TestThrottleRunStops(t *testing.T) {
	th := NewThrottle(time.Minute, 1, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- th.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
