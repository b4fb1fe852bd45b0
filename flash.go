package strive

import (
	"unicode/utf8"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/striveplanner/strive/views"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// contactFields are echoed back on the contact page after a failed submission.
var contactFields = []string{"name", "email", "subject", "message"}

// Echoed values are capped so the session cookie stays under the 4096 byte
// securecookie limit.
const (
	maxEchoedField   = 200
	maxEchoedMessage = 1000
)

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// setFlash stores a one-shot notice, plus the submitted form values when
// form is non-nil.
func setFlash(c echo.Context, kind, msg string, form map[string]string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.AddFlash(msg, kind)
	for _, f := range contactFields {
		if v, ok := form[f]; ok {
			limit := maxEchoedField
			if f == "message" {
				limit = maxEchoedMessage
			}
			sess.Values["form_"+f] = truncate(v, limit)
		}
	}
	if err := sess.Save(c.Request(), c.Response()); err == nil || len(form) == 0 {
		return err
	}
	// Keep the notice even when the form values do not fit.
	for _, f := range contactFields {
		delete(sess.Values, "form_"+f)
	}
	return sess.Save(c.Request(), c.Response())
}

// popFlash returns and clears the pending notice and form values.
func popFlash(c echo.Context) (*views.Flash, map[string]string) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil, nil
	}
	var flash *views.Flash
	for _, kind := range []string{flashError, flashSuccess} {
		if msgs := sess.Flashes(kind); len(msgs) > 0 {
			if msg, ok := msgs[0].(string); ok {
				flash = &views.Flash{Kind: kind, Message: msg}
			}
		}
	}
	form := make(map[string]string)
	for _, f := range contactFields {
		if v, ok := sess.Values["form_"+f].(string); ok {
			form[f] = v
			delete(sess.Values, "form_"+f)
		}
	}
	if flash == nil && len(form) == 0 {
		return nil, nil
	}
	_ = sess.Save(c.Request(), c.Response())
	return flash, form
}
