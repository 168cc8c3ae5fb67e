package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Rahanur19/youStream/internal/model"
)

// ValidateID rejects anything that is not a UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.ErrInvalidID
	}
	return nil
}

func validateIDs(ids ...string) error {
	for _, id := range ids {
		if err := ValidateID(id); err != nil {
			return err
		}
	}
	return nil
}

// requireLength checks the trimmed rune length of value.
func requireLength(field, value string, min, max int) (string, error) {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	if n == 0 && min > 0 {
		return "", model.InvalidArgument(field + " is required")
	}
	if n < min || n > max {
		if min == 0 {
			return "", model.InvalidArgument(fmt.Sprintf("%s must be at most %d characters", field, max))
		}
		return "", model.InvalidArgument(fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
	return value, nil
}

func normalizeUsername(username string) (string, error) {
	username, err := requireLength("username", username, model.UsernameMinLength, model.UsernameMaxLength)
	if err != nil {
		return "", err
	}
	return strings.ToLower(username), nil
}

func normalizeEmail(email string) (string, error) {
	email, err := requireLength("email", email, 1, model.EmailMaxLength)
	if err != nil {
		return "", err
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", model.InvalidArgument("email is invalid")
	}
	return strings.ToLower(email), nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < model.PasswordMinLength || n > model.PasswordMaxLength {
		return model.InvalidArgument(fmt.Sprintf("password must be between %d and %d characters",
			model.PasswordMinLength, model.PasswordMaxLength))
	}
	return nil
}

// normalizePage applies listing defaults and bounds.
func normalizePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = model.DefaultPageSize
	}
	if page < 0 || page > model.MaxPage || limit < 0 {
		return 0, 0, model.ErrInvalidPagination
	}
	if limit > model.MaxPageSize {
		limit = model.MaxPageSize
	}
	return page, limit, nil
}
