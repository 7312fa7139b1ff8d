package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinPhoneDigits = 10
	MaxPhoneDigits = 15
)

// emailPattern is a deliberately loose local@domain.tld shape.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateRequired fails when the value is empty after trimming whitespace.
func ValidateRequired(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrRequired
	}
	return nil
}

// ValidateMinLength checks the trimmed value has at least min characters.
func ValidateMinLength(value string, min int) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		return fmt.Errorf("%w: must be at least %d characters", ErrTooShort, min)
	}
	return nil
}

// ValidatePhone accepts any formatting as long as the number carries
// between MinPhoneDigits and MaxPhoneDigits digits.
func ValidatePhone(phone string) error {
	n := len(DigitsOnly(phone))
	if n < MinPhoneDigits || n > MaxPhoneDigits {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateEmail checks the address has a local@domain.tld shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateURL checks if a URL is absolute, i.e. it has both a scheme and a host.
func ValidateURL(urlStr string) error {
	urlStr = strings.TrimSpace(urlStr)

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return ErrInvalidURL
	}

	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return ErrInvalidURL
	}

	return nil
}

// ValidateTimestamp checks the value is an RFC 3339 (ISO-8601) timestamp.
func ValidateTimestamp(value string) error {
	if _, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value)); err != nil {
		return ErrInvalidTimestamp
	}
	return nil
}

// DigitsOnly strips every non-digit character, e.g. "+1 (555) 123-4567" -> "15551234567".
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, char := range s {
		if char >= '0' && char <= '9' {
			b.WriteRune(char)
		}
	}
	return b.String()
}
