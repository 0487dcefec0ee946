package utils

import (
	"regexp"
	"strings"
)

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var (
	// local@domain.tld shape, good enough for form-level screening
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

	// payment-critical check; the payment collaborator rejects anything looser
	strictEmailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// IsEmail applies the form-level email pattern.
func IsEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// IsStrictEmail applies the payment-grade email pattern.
func IsStrictEmail(s string) bool {
	return strictEmailRe.MatchString(strings.TrimSpace(s))
}
