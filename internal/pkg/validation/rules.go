package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Validation rule patterns
var (
	// Email validation pattern, applied to lower-cased input
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Password min length
	PasswordMinLength = 8

	// Name max length
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether an already normalized address is well formed
func IsValidEmail(email string) bool {
	return email != "" && CompiledPatterns.Email.MatchString(email)
}

// PasswordProblem returns a description of why password is too weak, or "" when it is acceptable.
func PasswordProblem(password string) string {
	if len(password) < PasswordMinLength {
		return "password must be at least 8 characters long"
	}

	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasLetter {
		return "password must contain at least one letter"
	}
	if !hasDigit {
		return "password must contain at least one digit"
	}
	return ""
}

// IsValidName reports whether a trimmed display name is acceptable
func IsValidName(name string) bool {
	n := len([]rune(name))
	return n > 0 && n <= NameMaxLength
}
