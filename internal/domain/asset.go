package domain

import (
	"strings"
	"time"

	"asset-qr/pkg/validator"
)

// MinSerialNumberLength is the shortest serial number we accept.
const MinSerialNumberLength = 4

// TimestampLayout renders generatedAt as ISO-8601 with millisecond precision,
// e.g. "2024-01-01T00:00:00.000Z".
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// AssetRecord describes one laptop handed to an employee.
// The JSON names are part of the wire format (inline tokens and the store API),
// so they must not change.
type AssetRecord struct {
	LaptopDetails  string `json:"laptopDetails"`
	SerialNumber   string `json:"serialNumber"`
	EmployeeID     string `json:"employeeId"`
	ContactNumber  string `json:"contactNumber"`
	EmployeeEmail  string `json:"employeeEmail"`
	SupportContact string `json:"supportContact"`
	CompanyLink    string `json:"companyLink"`
	GeneratedAt    string `json:"generatedAt"`
}

// AssetForm holds the user-editable fields. GeneratedAt is never part of it.
type AssetForm struct {
	LaptopDetails  string `json:"laptopDetails"`
	SerialNumber   string `json:"serialNumber"`
	EmployeeID     string `json:"employeeId"`
	ContactNumber  string `json:"contactNumber"`
	EmployeeEmail  string `json:"employeeEmail"`
	SupportContact string `json:"supportContact"`
	CompanyLink    string `json:"companyLink"`
}

// NewAssetRecord builds a record from submitted form values.
// Values are trimmed and GeneratedAt is stamped with the current time.
func NewAssetRecord(form AssetForm) *AssetRecord {
	return newAssetRecordAt(form, time.Now())
}

func newAssetRecordAt(form AssetForm, now time.Time) *AssetRecord {
	return &AssetRecord{
		LaptopDetails:  strings.TrimSpace(form.LaptopDetails),
		SerialNumber:   strings.TrimSpace(form.SerialNumber),
		EmployeeID:     strings.TrimSpace(form.EmployeeID),
		ContactNumber:  strings.TrimSpace(form.ContactNumber),
		EmployeeEmail:  strings.TrimSpace(form.EmployeeEmail),
		SupportContact: strings.TrimSpace(form.SupportContact),
		CompanyLink:    strings.TrimSpace(form.CompanyLink),
		GeneratedAt:    FormatTimestamp(now),
	}
}

// FormatTimestamp formats t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

type fieldSpec struct {
	name  string
	label string
	value string
	rules []func(string) error
}

func (r *AssetRecord) fields() []fieldSpec {
	minSerial := func(v string) error { return validator.ValidateMinLength(v, MinSerialNumberLength) }

	return []fieldSpec{
		{"laptopDetails", "Laptop details", r.LaptopDetails, nil},
		{"serialNumber", "Serial number", r.SerialNumber, []func(string) error{minSerial}},
		{"employeeId", "Employee ID", r.EmployeeID, nil},
		{"contactNumber", "Contact number", r.ContactNumber, []func(string) error{validator.ValidatePhone}},
		{"employeeEmail", "Employee email", r.EmployeeEmail, []func(string) error{validator.ValidateEmail}},
		{"supportContact", "Support contact", r.SupportContact, []func(string) error{validator.ValidatePhone}},
		{"companyLink", "Company link", r.CompanyLink, []func(string) error{validator.ValidateURL}},
		{"generatedAt", "Generated at", r.GeneratedAt, []func(string) error{validator.ValidateTimestamp}},
	}
}

// Validate checks every field and reports all failures at once, one entry per
// field, so a form can show each message next to its input.
// It returns nil or a *ValidationError.
func (r *AssetRecord) Validate() error {
	var errs []FieldError
	for _, f := range r.fields() {
		if err := validator.ValidateRequired(f.value); err != nil {
			errs = append(errs, newFieldError(f.name, f.label, err))
			continue
		}
		for _, rule := range f.rules {
			if err := rule(f.value); err != nil {
				errs = append(errs, newFieldError(f.name, f.label, err))
				break
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// CheckRequired only checks that every field is present. It guards records
// coming back from the store or out of an inline token against partial writes.
func (r *AssetRecord) CheckRequired() error {
	var errs []FieldError
	for _, f := range r.fields() {
		if err := validator.ValidateRequired(f.value); err != nil {
			errs = append(errs, newFieldError(f.name, f.label, err))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// GeneratedTime parses GeneratedAt. The zero time is returned if it does not parse.
func (r *AssetRecord) GeneratedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.GeneratedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
