package usecase

import (
	"strings"
	"unicode/utf8"
)

const maxFullNameLength = 120

// ValidateEmail checks the address has exactly one @ with a dotted domain.
// Deliberately loose: the storefront never sends mail, the address is only an
// operator-facing contact.
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return false
	}
	local, domain := email[:at], email[at+1:]
	if local == "" || domain == "" {
		return false
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	dot := strings.IndexByte(domain, '.')
	if dot <= 0 || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}

// ValidateFullName checks the customer name is non-blank and reasonably sized.
func ValidateFullName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	return utf8.RuneCountInString(trimmed) <= maxFullNameLength
}
