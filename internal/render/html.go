// Package render turns records into what people look at: the viewer page
// and the QR code image.
package render

import (
	"html"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"

	"asset-qr/internal/domain"
	"asset-qr/pkg/validator"
)

// EscapeText escapes s for use as HTML text. It is applied at render time
// only; stored and encoded records keep the raw text.
func EscapeText(s string) string {
	return html.EscapeString(s)
}

// AssetView is the data behind the viewer page.
type AssetView struct {
	Record *domain.AssetRecord
	Mode   string

	// Error and Details fill the error state when Record is nil.
	Error   string
	Details string
}

// Text fields are escaped by EscapeText and marked safe, so html/template
// does not escape them a second time. Only use text in element content.
var funcs = template.FuncMap{
	"text": func(s string) template.HTML {
		return template.HTML(EscapeText(s))
	},
	"orNA": func(s string) template.HTML {
		if s == "" {
			s = "N/A"
		}
		return template.HTML(EscapeText(s))
	},
	"tel": telURL,
	"mailto": func(s string) template.URL {
		return template.URL("mailto:" + url.PathEscape(strings.TrimSpace(s)))
	},
	"when": formatGeneratedAt,
}

var assetPage = template.Must(template.New("asset").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Laptop Asset Details</title>
</head>
<body>
{{- if .Record }}
<section id="assetDetails">
  <h1>Laptop Asset Details</h1>
  <dl>
    <dt>Laptop Model</dt><dd id="viewLaptopDetails">{{ orNA .Record.LaptopDetails }}</dd>
    <dt>Serial Number</dt><dd id="viewSerialNumber">{{ orNA .Record.SerialNumber }}</dd>
    <dt>Employee ID</dt><dd id="viewEmployeeId">{{ orNA .Record.EmployeeID }}</dd>
    <dt>Contact Number</dt><dd><a id="viewContactNumber" href="{{ tel .Record.ContactNumber }}">{{ orNA .Record.ContactNumber }}</a></dd>
    <dt>Employee Email</dt><dd><a id="viewEmployeeEmail" href="{{ mailto .Record.EmployeeEmail }}">{{ orNA .Record.EmployeeEmail }}</a></dd>
    <dt>Support Contact</dt><dd><a id="viewSupportContact" href="{{ tel .Record.SupportContact }}">{{ orNA .Record.SupportContact }}</a></dd>
    <dt>Company Link</dt><dd><a id="viewCompanyLink" href="{{ .Record.CompanyLink }}" rel="noopener noreferrer">{{ orNA .Record.CompanyLink }}</a></dd>
    <dt>Generated At</dt><dd id="viewGeneratedAt">{{ when .Record.GeneratedAt }}</dd>
  </dl>
</section>
{{- else }}
<section id="errorState">
  <h1>{{ text .Error }}</h1>
  {{- if .Details }}
  <p id="errorDetails">{{ text .Details }}</p>
  {{- end }}
</section>
{{- end }}
</body>
</html>
`))

// RenderAssetPage writes the viewer page for view.
func RenderAssetPage(w io.Writer, view AssetView) error {
	if view.Record == nil && view.Error == "" {
		view.Error = "Invalid or corrupted QR Code"
	}
	return assetPage.Execute(w, view)
}

func formatGeneratedAt(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return "N/A"
	}
	return t.UTC().Format("Jan 2, 2006 15:04:05 MST")
}

// telURL keeps only the digits (and a leading +), which is all a dialer needs.
func telURL(s string) template.URL {
	number := validator.DigitsOnly(s)
	if strings.HasPrefix(strings.TrimSpace(s), "+") {
		number = "+" + number
	}
	return template.URL("tel:" + number)
}
