package auth

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMinPasswordLength applies when no minimum is configured.
const DefaultMinPasswordLength = 6

// emailPattern accepts the local@domain.tld shape and nothing fancier.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCredentials checks email and password locally. The email is
// trimmed before checking; the password is only trimmed for the blank check.
func ValidateCredentials(email, password string, minPasswordLength int) error {
	email = strings.TrimSpace(email)

	if email == "" || strings.TrimSpace(password) == "" {
		return &ValidationError{Field: "credentials", Message: "Please fill in all fields"}
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}

	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}
	if len([]rune(password)) < minPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLength),
		}
	}
	return nil
}
