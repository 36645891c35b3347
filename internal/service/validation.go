package service

import (
	"net/mail"
	"regexp"
	"strings"

	apperrors "github.com/spec-kit/learning-portal/pkg/util"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72
	maxFullNameLength = 120
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return apperrors.NewValidationError("invalid username", map[string]any{
			"field": "username",
			"rule":  "3-50 characters: letters, digits, '.', '_' or '-'",
		})
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperrors.NewValidationError("invalid email", map[string]any{"field": "email"})
	}
	return nil
}

func validateFullName(name string) error {
	if name == "" || len([]rune(name)) > maxFullNameLength {
		return apperrors.NewValidationError("invalid full name", map[string]any{"field": "full_name"})
	}
	return nil
}

func validatePassword(field, password string) error {
	if len([]rune(password)) < minPasswordLength || len(password) > maxPasswordBytes {
		return apperrors.NewValidationError("invalid password", map[string]any{
			"field": field,
			"rule":  "at least 6 characters and at most 72 bytes",
		})
	}
	return nil
}
