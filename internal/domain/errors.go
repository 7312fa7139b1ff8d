package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is a single failed rule for one record field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newFieldError(field, label string, err error) FieldError {
	return FieldError{Field: field, Message: label + " " + err.Error()}
}

// ValidationError collects every field that failed validation.
// The user is expected to fix the input and try again.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field is among the failures.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// FieldNames returns the failed field names in report order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// Details maps field name to message, the shape the HTTP API returns.
func (e *ValidationError) Details() map[string]string {
	details := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		details[f.Field] = f.Message
	}
	return details
}

// Decode stages, in the order an inline token is unwrapped.
const (
	StageURL    = "url"
	StageBase64 = "base64"
	StageJSON   = "json"
)

// DecodeError means an inline token is malformed. There is no retry path.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode data (%s stage): %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NotFoundError means no record exists for a reference id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("asset not found: %s", e.ID)
}

// StoreError is a transport or server-side failure of the record store.
// Callers may retry or fall back to inline encoding.
type StoreError struct {
	Op         string // "create" or "get"
	StatusCode int    // HTTP status when one was received
	Err        error
}

func (e *StoreError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("record store %s failed (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("record store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// MissingDataError means a URL carries neither an id nor a data parameter.
type MissingDataError struct {
	URL string
}

func (e *MissingDataError) Error() string {
	return "no asset data found in URL"
}

// Kind names the error kind of err, for metrics labels and logs.
func Kind(err error) string {
	var (
		vErr *ValidationError
		dErr *DecodeError
		nErr *NotFoundError
		sErr *StoreError
		mErr *MissingDataError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &vErr):
		return "validation"
	case errors.As(err, &dErr):
		return "decode"
	case errors.As(err, &nErr):
		return "not_found"
	case errors.As(err, &sErr):
		return "store"
	case errors.As(err, &mErr):
		return "missing_data"
	default:
		return "error"
	}
}
