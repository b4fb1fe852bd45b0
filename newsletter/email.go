package newsletter

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Deliberately loose: something, an @, something, a dot, something.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var emailRules = []validation.Rule{
	validation.Required.Error("email is required"),
	validation.Length(0, 255).Error("email is too long"),
	validation.Match(emailPattern).Error("must be a valid email address"),
}

// ValidateEmail checks that email looks like an address.
func ValidateEmail(email string) error {
	return validation.Validate(email, emailRules...)
}

// NormalizeEmail trims and lowercases email so the same address is stored once.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
