package strive

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/striveplanner/strive/contact"
	"github.com/striveplanner/strive/metrics"
	"github.com/striveplanner/strive/newsletter"
	"github.com/striveplanner/strive/views"
)

// handleSubscribe accepts {"email": "..."}. An unreadable body is treated as
// an empty address so the rate limit still applies.
func (a *App) handleSubscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		req.Email = ""
	}

	res, err := a.Newsletter.Subscribe(c.Request().Context(), c.RealIP(), req.Email)
	switch {
	case err == nil:
		metrics.NewsletterSubscriptions.WithLabelValues(res.String()).Inc()
		if res == newsletter.AlreadySubscribed {
			return jsonMessage(c, http.StatusOK, msgAlreadySubscribed)
		}
		return jsonMessage(c, http.StatusOK, msgSubscribed)
	case errors.Is(err, newsletter.ErrRateLimited):
		metrics.NewsletterSubscriptions.WithLabelValues("rate_limited").Inc()
		c.Response().Header().Set("Retry-After", "60")
		return jsonError(c, http.StatusTooManyRequests, msgTooManyRequests)
	case errors.Is(err, newsletter.ErrInvalidEmail):
		metrics.NewsletterSubscriptions.WithLabelValues("invalid").Inc()
		return jsonError(c, http.StatusBadRequest, msgInvalidEmail)
	case errors.Is(err, newsletter.ErrUnavailable):
		metrics.NewsletterSubscriptions.WithLabelValues("unavailable").Inc()
		return jsonError(c, http.StatusServiceUnavailable, msgNewsletterDown)
	default:
		metrics.NewsletterSubscriptions.WithLabelValues("error").Inc()
		a.logger.Error().Err(err).Msg("newsletter subscription failed")
		return jsonError(c, http.StatusServiceUnavailable, msgNewsletterDown)
	}
}

type contactOutcome struct {
	status  int
	label   string
	message string
}

// submitContact runs the throttle and the contact service and maps the
// result to an HTTP status and user-facing message.
func (a *App) submitContact(c echo.Context, msg contact.Message) contactOutcome {
	if !a.throttle.Allow(c.RealIP()) {
		return contactOutcome{http.StatusTooManyRequests, "rate_limited", msgTooManyRequests}
	}
	err := a.Contact.Submit(c.Request().Context(), c.RealIP(), msg)
	switch {
	case err == nil:
		return contactOutcome{http.StatusOK, "sent", msgContactSent}
	case errors.Is(err, contact.ErrInvalid):
		return contactOutcome{http.StatusBadRequest, "invalid", msgContactInvalid}
	case errors.Is(err, contact.ErrVerificationFailed):
		return contactOutcome{http.StatusBadRequest, "verification_failed", msgContactBot}
	default:
		a.logger.Error().Err(err).Msg("contact message delivery failed")
		return contactOutcome{http.StatusInternalServerError, "error", msgContactSendFailed}
	}
}

func (a *App) handleContactAPI(c echo.Context) error {
	var msg contact.Message
	if err := c.Bind(&msg); err != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		return jsonError(c, http.StatusBadRequest, msgContactInvalid)
	}
	out := a.submitContact(c, msg)
	metrics.ContactSubmissions.WithLabelValues(out.label).Inc()
	if out.status == http.StatusTooManyRequests {
		c.Response().Header().Set("Retry-After", "20")
	}
	if out.status >= http.StatusBadRequest {
		return jsonError(c, out.status, out.message)
	}
	return jsonMessage(c, out.status, out.message)
}

func (a *App) handleContactPage(c echo.Context) error {
	flash, form := popFlash(c)
	return Render(c, a.Views.Contact(a.siteView(), views.ContactForm{
		CSRFToken: CsrfToken(c),
		Flash:     flash,
		Name:      form["name"],
		Email:     form["email"],
		Subject:   form["subject"],
		Message:   form["message"],
	}))
}

// handleContactForm is the no-JavaScript path: the result is stored as a
// flash and the browser is redirected back to the contact page.
func (a *App) handleContactForm(c echo.Context) error {
	var msg contact.Message
	var out contactOutcome
	if err := c.Bind(&msg); err != nil {
		out = contactOutcome{http.StatusBadRequest, "invalid", msgContactInvalid}
	} else {
		out = a.submitContact(c, msg)
	}
	metrics.ContactSubmissions.WithLabelValues(out.label).Inc()

	kind := flashSuccess
	var form map[string]string
	if out.status >= http.StatusBadRequest {
		kind = flashError
		form = map[string]string{
			"name":    msg.Name,
			"email":   msg.Email,
			"subject": msg.Subject,
			"message": msg.Message,
		}
	}
	if err := setFlash(c, kind, out.message, form); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/contact/")
}
