package validation

import (
	"errors"
	"regexp"
)

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

var ErrWeakPassword = errors.New("password must be at least 8 characters and contain special characters")

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}

func ValidatePassword(password string) error {
	if len(password) < 8 || !HasSpecialChar(password) {
		return ErrWeakPassword
	}
	return nil
}
