package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() AssetRecord {
	return AssetRecord{
		LaptopDetails:  "Dell XPS 13",
		SerialNumber:   "SN1234",
		EmployeeID:     "E001",
		ContactNumber:  "+1 (555) 123-4567",
		EmployeeEmail:  "a@b.com",
		SupportContact: "555-000-1111",
		CompanyLink:    "https://example.com",
		GeneratedAt:    "2024-01-01T00:00:00.000Z",
	}
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "expected *ValidationError, got %v", err)
	return vErr.FieldNames()
}

func TestValidate_ValidRecord(t *testing.T) {
	r := validRecord()
	assert.NoError(t, r.Validate())
}

func TestValidate_EmptyCompanyLinkOnly(t *testing.T) {
	r := validRecord()
	r.CompanyLink = ""

	err := r.Validate()

	assert.Equal(t, []string{"companyLink"}, validationFields(t, err))
	assert.Contains(t, err.Error(), "Company link is required")
}

func TestValidate_CollectsEveryField(t *testing.T) {
	r := AssetRecord{
		LaptopDetails:  "   ",
		SerialNumber:   "SN1",
		ContactNumber:  "12345",
		EmployeeEmail:  "nope",
		SupportContact: "",
		CompanyLink:    "not a url",
		GeneratedAt:    "2024-01-01T00:00:00.000Z",
	}

	err := r.Validate()

	assert.Equal(t, []string{
		"laptopDetails", "serialNumber", "employeeId", "contactNumber",
		"employeeEmail", "supportContact", "companyLink",
	}, validationFields(t, err))
}

func TestValidate_Idempotent(t *testing.T) {
	r := validRecord()
	r.SerialNumber = "AB"
	r.EmployeeEmail = "x@y"

	first := r.Validate()
	second := r.Validate()

	assert.Equal(t, first, second)
}

func TestValidate_SerialNumberBoundary(t *testing.T) {
	r := validRecord()

	r.SerialNumber = "ABCD"
	assert.NoError(t, r.Validate())

	r.SerialNumber = "ABC"
	assert.Equal(t, []string{"serialNumber"}, validationFields(t, r.Validate()))
}

func TestValidate_ContactNumberBoundary(t *testing.T) {
	tests := []struct {
		digits  int
		wantErr bool
	}{
		{9, true},
		{10, false},
		{15, false},
		{16, true},
	}

	for _, tt := range tests {
		r := validRecord()
		// formatting characters must not count
		r.ContactNumber = "(" + strings.Repeat("5", tt.digits) + ")"

		err := r.Validate()
		if tt.wantErr {
			assert.Equal(t, []string{"contactNumber"}, validationFields(t, err), "digits=%d", tt.digits)
		} else {
			assert.NoError(t, err, "digits=%d", tt.digits)
		}
	}
}

func TestCheckRequired(t *testing.T) {
	r := validRecord()
	r.SerialNumber = "X" // too short, but present
	assert.NoError(t, r.CheckRequired())

	r.GeneratedAt = ""
	r.EmployeeID = " "
	assert.Equal(t, []string{"employeeId", "generatedAt"}, validationFields(t, r.CheckRequired()))
}

func TestNewAssetRecord_TrimsAndStamps(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	r := newAssetRecordAt(AssetForm{
		LaptopDetails: "  Dell XPS 13 ",
		SerialNumber:  "SN1234\n",
	}, now)

	assert.Equal(t, "Dell XPS 13", r.LaptopDetails)
	assert.Equal(t, "SN1234", r.SerialNumber)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", r.GeneratedAt)
	assert.Equal(t, now, r.GeneratedTime())
}

func TestNewAssetRecord_UsesUTC(t *testing.T) {
	r := NewAssetRecord(AssetForm{})
	assert.True(t, strings.HasSuffix(r.GeneratedAt, "Z"))
	assert.WithinDuration(t, time.Now(), r.GeneratedTime(), time.Minute)
}
