package codec

import (
	"fmt"
	"net/url"
	"strings"

	"asset-qr/internal/domain"
)

// Query parameter names of the link contract.
const (
	ParamID   = "id"
	ParamData = "data"
)

// Mode says how a link carries its record.
type Mode string

const (
	ModeReference Mode = "reference"
	ModeInline    Mode = "inline"
)

// BuildReferenceURL returns base?id=<id>. No record data is embedded.
func BuildReferenceURL(base, id string) string {
	return joinQuery(base, ParamID+"="+url.QueryEscape(id))
}

// BuildInlineURL returns base?data=<EncodeInline(record)>.
func BuildInlineURL(base string, record *domain.AssetRecord) (string, error) {
	token, err := EncodeInline(record)
	if err != nil {
		return "", err
	}
	return joinQuery(base, ParamData+"="+token), nil
}

func joinQuery(base, query string) string {
	base = strings.TrimSuffix(base, "?")
	if strings.Contains(base, "?") {
		return base + "&" + query
	}
	return base + "?" + query
}

// Link is a parsed viewer URL.
// Data holds the base64 payload with query escaping already removed.
type Link struct {
	ID   string
	Data string
}

// ParseLink extracts the id and data parameters from a viewer URL.
// A link with neither is a *domain.MissingDataError.
func ParseLink(rawURL string) (Link, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Link{}, &domain.DecodeError{Stage: domain.StageURL, Err: fmt.Errorf("parse link: %w", err)}
	}

	return LinkFromRawQuery(u.RawQuery, rawURL)
}

// LinkFromRawQuery parses a still-escaped query string into a Link.
// A data parameter with a broken percent-escape is a *domain.DecodeError at
// the url stage, unless an id is present (the id wins and data is ignored).
func LinkFromRawQuery(rawQuery, rawURL string) (Link, error) {
	q, err := url.ParseQuery(rawQuery)
	// ParseQuery drops only the pairs it cannot unescape
	if err != nil && strings.TrimSpace(q.Get(ParamID)) == "" && !q.Has(ParamData) && hasKey(rawQuery, ParamData) {
		return Link{}, &domain.DecodeError{Stage: domain.StageURL, Err: fmt.Errorf("parse query: %w", err)}
	}
	return LinkFromQuery(q, rawURL)
}

// hasKey reports whether rawQuery has a pair named key, escaped or not.
func hasKey(rawQuery, key string) bool {
	for _, pair := range strings.FieldsFunc(rawQuery, func(r rune) bool { return r == '&' || r == ';' }) {
		name, _, _ := strings.Cut(pair, "=")
		if unescaped, err := url.QueryUnescape(name); err == nil {
			name = unescaped
		}
		if name == key {
			return true
		}
	}
	return false
}

// LinkFromQuery builds a Link from already-parsed query values.
func LinkFromQuery(q url.Values, rawURL string) (Link, error) {
	link := Link{
		ID:   strings.TrimSpace(q.Get(ParamID)),
		Data: strings.TrimSpace(q.Get(ParamData)),
	}
	if link.ID == "" && link.Data == "" {
		return Link{}, &domain.MissingDataError{URL: rawURL}
	}
	return link, nil
}

// Mode reports how the link resolves. An id always wins over data, so a link
// carrying both is resolved through the record store.
func (l Link) Mode() Mode {
	if l.ID != "" {
		return ModeReference
	}
	return ModeInline
}
