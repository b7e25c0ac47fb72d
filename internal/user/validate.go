package user

import (
	"errors"
	"net/mail"
	"regexp"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateRegistration enforces the account-creation rules: username 3-30
// word characters, a parseable email address, password of at least 6 chars.
func ValidateRegistration(username, email, password string) error {
	if len(username) < 3 || len(username) > 30 {
		return errors.New("username must be between 3 and 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username can only contain letters, numbers, and underscores")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("please provide a valid email address")
	}
	return ValidatePassword(password)
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}
