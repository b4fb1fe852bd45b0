// Package contact handles the site's contact form: validation, bot
// verification and delivery by email.
package contact

import (
	"html"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/microcosm-cc/bluemonday"
)

// Message is one contact form submission.
type Message struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
	// Token is the reCAPTCHA response produced in the browser.
	Token string `json:"g-recaptcha-response" form:"g-recaptcha-response"`
}

// Validate checks that every field is present and the email is well formed.
func (m Message) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Email, validation.Required, is.EmailFormat),
		validation.Field(&m.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Message, validation.Required, validation.Length(1, 10000)),
	)
}

var plainText = bluemonday.StrictPolicy()

// stripTags removes markup and returns unescaped text; templates escape it
// again on output.
func stripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}

func (m Message) clean() Message {
	return Message{
		Name:    stripTags(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Subject: stripTags(m.Subject),
		Message: stripTags(m.Message),
		Token:   strings.TrimSpace(m.Token),
	}
}
