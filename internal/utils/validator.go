package utils

import (
	"regexp"
	"strings"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,50}$`)
	phoneRegex    = regexp.MustCompile(`^[0-9()+\-\s]{8,20}$`)
)

// MinPasswordLength is the shortest password accepted on user creation
const MinPasswordLength = 6

// ValidateUsername validates a username: 3-50 letters, digits, dots, dashes or underscores
func ValidateUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// ValidatePassword validates a password
func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// ValidatePhone accepts digits with the usual phone punctuation
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// SanitizeUsername sanitizes a username
func SanitizeUsername(username string) string {
	return strings.TrimSpace(username)
}
