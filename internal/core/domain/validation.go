package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Case identifier limits.
const (
	MinCaseNumberLength = 3
	MaxCaseNumberLength = 50
	MinFilingYear       = 1900
)

var caseTypePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{1,4}\([A-Z]\)$`), // WP(C), CRL(A)
	regexp.MustCompile(`^[A-Z]{1,4}$`),          // CS, FAO
	regexp.MustCompile(`^[A-Z]{1,4}\d+$`),       // CM1
}

// ValidateCaseNumber reports whether s, once trimmed, is 3 to 50 characters
// long and contains at least one ASCII letter and one digit.
func ValidateCaseNumber(s string) bool {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < MinCaseNumberLength || n > MaxCaseNumberLength {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// ValidateFilingYear reports whether s parses as a year between 1900 and
// next year inclusive. The current year is read on every call.
func ValidateFilingYear(s string) bool {
	return validateFilingYearAt(s, time.Now())
}

func validateFilingYearAt(s string, now time.Time) bool {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return validYear(year, now)
}

func validYear(year int, now time.Time) bool {
	return year >= MinFilingYear && year <= now.Year()+1
}

// ValidateCaseType reports whether s, once trimmed, matches one of the
// court's case type shapes.
func ValidateCaseType(s string) bool {
	s = strings.TrimSpace(s)
	for _, p := range caseTypePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// ValidateCaseIdentifier reports whether all three parts are valid.
func ValidateCaseIdentifier(caseNumber, caseType, filingYear string) bool {
	return ValidateCaseNumber(caseNumber) &&
		ValidateCaseType(caseType) &&
		ValidateFilingYear(filingYear)
}

// NewCaseIdentifier validates raw form input and builds a CaseIdentifier.
// The returned error is a *ValidationError naming the first failing field.
func NewCaseIdentifier(caseNumber, caseType, filingYear string) (CaseIdentifier, error) {
	return newCaseIdentifierAt(caseNumber, caseType, filingYear, time.Now())
}

func newCaseIdentifierAt(caseNumber, caseType, filingYear string, now time.Time) (CaseIdentifier, error) {
	caseNumber = strings.TrimSpace(caseNumber)
	caseType = strings.TrimSpace(caseType)
	filingYear = strings.TrimSpace(filingYear)

	switch {
	case caseNumber == "":
		return CaseIdentifier{}, &ValidationError{Field: "case_number", Message: "all fields are required"}
	case caseType == "":
		return CaseIdentifier{}, &ValidationError{Field: "case_type", Message: "all fields are required"}
	case filingYear == "":
		return CaseIdentifier{}, &ValidationError{Field: "filing_year", Message: "all fields are required"}
	}

	if !ValidateCaseNumber(caseNumber) {
		return CaseIdentifier{}, &ValidationError{
			Field:   "case_number",
			Value:   caseNumber,
			Message: "must be 3-50 characters with at least one letter and one digit",
		}
	}
	if !ValidateCaseType(caseType) {
		return CaseIdentifier{}, &ValidationError{
			Field:   "case_type",
			Value:   caseType,
			Message: "must look like WP(C), CS or CM1",
		}
	}

	year, err := strconv.Atoi(filingYear)
	if err != nil || !validYear(year, now) {
		return CaseIdentifier{}, &ValidationError{
			Field:   "filing_year",
			Value:   filingYear,
			Message: "must be a year between 1900 and next year",
		}
	}

	return CaseIdentifier{
		CaseNumber: caseNumber,
		CaseType:   caseType,
		FilingYear: year,
	}, nil
}
