package domain

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCaseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"letters and digits", "AB123", true},
		{"minimum length", "A12", true},
		{"surrounding whitespace trimmed", "  AB123  ", true},
		{"maximum length", "A" + strings.Repeat("1", 49), true},
		{"too short", "AB", false},
		{"too short after trim", "  A1  ", false},
		{"digits only", "1234", false},
		{"letters only", "ABCD", false},
		{"too long", "A" + strings.Repeat("1", 50), false},
		{"empty", "", false},
		{"non-ASCII letter does not count", "é123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCaseNumber(tt.input))
		})
	}
}

func TestValidateFilingYear(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  bool
	}{
		{"1900", true},
		{"2023", true},
		{"2026", true},
		{" 2023 ", true},
		{"1899", false},
		{"2027", false},
		{"20x3", false},
		{"", false},
		{"2023.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, validateFilingYearAt(tt.input, now))
		})
	}
}

func TestValidateFilingYear_ReadsClockPerCall(t *testing.T) {
	before := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)
	after := time.Date(2026, time.January, 1, 0, 1, 0, 0, time.UTC)

	assert.False(t, validateFilingYearAt("2027", before))
	assert.True(t, validateFilingYearAt("2027", after))
}

func TestValidateFilingYear_UsesCurrentYear(t *testing.T) {
	next := time.Now().Year() + 1
	assert.True(t, ValidateFilingYear(strconv.Itoa(next)))
	assert.False(t, ValidateFilingYear(strconv.Itoa(next+1)))
}

func TestValidateCaseType(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"WP(C)", true},
		{"CRL(A)", true},
		{"CS", true},
		{"FAO", true},
		{"W", true},
		{"CM1", true},
		{"CRLM12", true},
		{" WP(C) ", true},
		{"wp(c)", false},
		{"WP(CC)", false},
		{"WRITP", false},
		{"WP-C", false},
		{"1WP", false},
		{"WP(1)", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCaseType(tt.input))
		})
	}
}

func TestValidateCaseIdentifier(t *testing.T) {
	assert.True(t, ValidateCaseIdentifier("AB123", "WP(C)", "2023"))
	assert.False(t, ValidateCaseIdentifier("AB", "WP(C)", "2023"))
	assert.False(t, ValidateCaseIdentifier("AB123", "bad", "2023"))
	assert.False(t, ValidateCaseIdentifier("AB123", "WP(C)", "1800"))
}

func TestNewCaseIdentifier(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid input is trimmed", func(t *testing.T) {
		id, err := newCaseIdentifierAt(" AB123 ", " WP(C) ", " 2023 ", now)
		require.NoError(t, err)
		assert.Equal(t, CaseIdentifier{CaseNumber: "AB123", CaseType: "WP(C)", FilingYear: 2023}, id)
		assert.Equal(t, "WP(C)/AB123/2023", id.String())
	})

	tests := []struct {
		name      string
		number    string
		caseType  string
		year      string
		wantField string
	}{
		{"missing number", "", "WP(C)", "2023", "case_number"},
		{"missing type", "AB123", "", "2023", "case_type"},
		{"missing year", "AB123", "WP(C)", "  ", "filing_year"},
		{"bad number", "1234", "WP(C)", "2023", "case_number"},
		{"bad type", "AB123", "writ", "2023", "case_type"},
		{"bad year", "AB123", "WP(C)", "2030", "filing_year"},
		{"non-numeric year", "AB123", "WP(C)", "year", "filing_year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newCaseIdentifierAt(tt.number, tt.caseType, tt.year, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}
