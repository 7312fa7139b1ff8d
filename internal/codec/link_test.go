package codec

import (
	"errors"
	"testing"

	"asset-qr/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viewBase = "https://assets.example.com/view"

func TestBuildReferenceURL(t *testing.T) {
	assert.Equal(t, viewBase+"?id=abc-123", BuildReferenceURL(viewBase, "abc-123"))
	assert.Equal(t, viewBase+"?id=a%2Fb+c", BuildReferenceURL(viewBase, "a/b c"))
	assert.Equal(t, viewBase+"?lang=en&id=42", BuildReferenceURL(viewBase+"?lang=en", "42"))
}

func TestBuildInlineURL_ParsesBack(t *testing.T) {
	record := scenarioRecord()

	u, err := BuildInlineURL(viewBase, record)
	require.NoError(t, err)
	assert.Contains(t, u, viewBase+"?data=")

	link, err := ParseLink(u)
	require.NoError(t, err)
	assert.Equal(t, ModeInline, link.Mode())
	assert.Empty(t, link.ID)

	decoded, err := DecodePayload(link.Data)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestParseLink_IDTakesPrecedence(t *testing.T) {
	inline, err := EncodeInline(scenarioRecord())
	require.NoError(t, err)

	link, err := ParseLink(viewBase + "?data=" + inline + "&id=A")
	require.NoError(t, err)

	assert.Equal(t, ModeReference, link.Mode())
	assert.Equal(t, "A", link.ID)
}

func TestParseLink_Missing(t *testing.T) {
	for _, raw := range []string{viewBase, viewBase + "?id=&data=", viewBase + "?foo=bar"} {
		_, err := ParseLink(raw)
		var missing *domain.MissingDataError
		assert.True(t, errors.As(err, &missing), "url %q: got %v", raw, err)
	}
}

func TestParseLink_Unparseable(t *testing.T) {
	_, err := ParseLink("http://[::1")
	var dErr *domain.DecodeError
	assert.True(t, errors.As(err, &dErr))
}

func TestParseLink_BrokenEscapeInData(t *testing.T) {
	_, err := ParseLink(viewBase + "?data=%zz")

	var dErr *domain.DecodeError
	require.True(t, errors.As(err, &dErr), "got %v", err)
	assert.Equal(t, domain.StageURL, dErr.Stage)
}

func TestParseLink_BrokenDataIgnoredWhenIDPresent(t *testing.T) {
	link, err := ParseLink(viewBase + "?data=%zz&id=A")
	require.NoError(t, err)
	assert.Equal(t, ModeReference, link.Mode())
	assert.Equal(t, "A", link.ID)
}

func TestLinkFromRawQuery_BrokenUnrelatedParam(t *testing.T) {
	_, err := LinkFromRawQuery("utm=%zz", viewBase+"?utm=%zz")

	var missing *domain.MissingDataError
	assert.True(t, errors.As(err, &missing), "got %v", err)
}

func TestLinkFromRawQuery_ValidDataWithBrokenUnrelatedParam(t *testing.T) {
	link, err := LinkFromRawQuery("data=abc&utm=%zz", "")
	require.NoError(t, err)
	assert.Equal(t, ModeInline, link.Mode())
	assert.Equal(t, "abc", link.Data)
}
