package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

var commonPasswordPatterns = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
	"workout", "fitness",
}

// ValidateEmail checks length (RFC 5321) and RFC 5322 syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return fieldError("email", "Email address is required")
	}
	if len(email) > 254 {
		return fieldError("email", "Email address is too long")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return fieldError("email", "Invalid email address")
	}

	return nil
}

// ValidatePassword enforces 12..72 bytes (bcrypt truncates past 72) and rejects common words.
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return fieldError("password", "Password must be at least 12 characters")
	}
	if len(password) > 72 {
		return fieldError("password", "Password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, pattern := range commonPasswordPatterns {
		if strings.Contains(lower, pattern) {
			return fieldError("password", "Password is too common, please choose a stronger one")
		}
	}

	return nil
}

// ValidateName checks the display name chosen during onboarding.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fieldError("name", "Name is required")
	}
	if utf8.RuneCountInString(trimmed) > 100 {
		return fieldError("name", "Name too long")
	}

	return nil
}
