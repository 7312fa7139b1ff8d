package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"9 digits", "555-123-456", true},
		{"10 digits", "555-123-4567", false},
		{"formatted 11 digits", "+1 (555) 123-4567", false},
		{"15 digits", strings.Repeat("1", 15), false},
		{"16 digits", strings.Repeat("1", 16), true},
		{"letters only", "call me", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhone(tt.phone)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMinLength(t *testing.T) {
	assert.NoError(t, ValidateMinLength("SN12", 4))
	assert.ErrorIs(t, ValidateMinLength("SN1", 4), ErrTooShort)
	assert.ErrorIs(t, ValidateMinLength("  SN1  ", 4), ErrTooShort)
	// runes, not bytes
	assert.NoError(t, ValidateMinLength("äöüß", 4))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@b.com"))
	assert.NoError(t, ValidateEmail("jane.doe+it@corp.example.org"))
	assert.ErrorIs(t, ValidateEmail("a@b"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("a b@c.com"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("no-at.com"), ErrInvalidEmail)
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com"))
	assert.NoError(t, ValidateURL("http://intranet.local:8080/it"))
	assert.ErrorIs(t, ValidateURL("example.com"), ErrInvalidURL)
	assert.ErrorIs(t, ValidateURL("/relative/path"), ErrInvalidURL)
	assert.ErrorIs(t, ValidateURL("://broken"), ErrInvalidURL)
}

func TestValidateTimestamp(t *testing.T) {
	assert.NoError(t, ValidateTimestamp("2024-01-01T00:00:00.000Z"))
	assert.NoError(t, ValidateTimestamp("2024-01-01T10:30:00+02:00"))
	assert.ErrorIs(t, ValidateTimestamp("yesterday"), ErrInvalidTimestamp)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "15551234567", DigitsOnly("+1 (555) 123-4567"))
	assert.Equal(t, "", DigitsOnly("n/a"))
}
