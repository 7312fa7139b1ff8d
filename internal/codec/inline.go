// Package codec maps asset records to scannable URLs and back.
//
// An inline token is the record's JSON, base64-encoded from its UTF-8 bytes,
// then query-escaped so it travels as a single query parameter value:
//
//	token = QueryEscape(StdBase64(UTF8(JSON(record))))
//
// Decoding runs the same three steps in reverse.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"asset-qr/internal/domain"
)

// EncodeInline turns a record into a URL-safe token.
func EncodeInline(record *domain.AssetRecord) (string, error) {
	payload, err := EncodePayload(record)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(payload), nil
}

// EncodePayload is EncodeInline without the final query escaping.
func EncodePayload(record *domain.AssetRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("encode asset record: nil record")
	}

	// Go strings are UTF-8 already, so Marshal yields the UTF-8 bytes directly.
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode asset record: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeInline reverses EncodeInline. Any failure is a *domain.DecodeError.
// Field rules are not checked here; callers validate separately.
func DecodeInline(token string) (*domain.AssetRecord, error) {
	payload, err := url.QueryUnescape(token)
	if err != nil {
		return nil, &domain.DecodeError{Stage: domain.StageURL, Err: err}
	}
	return DecodePayload(payload)
}

// DecodePayload decodes a base64 payload that has already been query-unescaped,
// such as a value read from url.Values.
func DecodePayload(payload string) (*domain.AssetRecord, error) {
	// '+' turns into ' ' when a query string is unescaped one time too many.
	payload = strings.ReplaceAll(strings.TrimSpace(payload), " ", "+")
	if payload == "" {
		return nil, &domain.DecodeError{Stage: domain.StageBase64, Err: fmt.Errorf("empty payload")}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &domain.DecodeError{Stage: domain.StageBase64, Err: err}
	}

	var record domain.AssetRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &domain.DecodeError{Stage: domain.StageJSON, Err: err}
	}

	return &record, nil
}
