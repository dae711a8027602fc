package util

import (
	"strings"
	"testing"
	"time"
)

func TestParseTimestamp_Valid(t *testing.T) {
	testCases := map[string]time.Time{
		"2024-01-01":           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"2024-12-31T10:30:00":  time.Date(2024, 12, 31, 10, 30, 0, 0, time.UTC),
		"2025-06-15T08:00:00Z": time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC),
		"15/06/2025":           time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	for input, want := range testCases {
		got, err := ParseTimestamp(input)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error = %v, want nil", input, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
		"01-01-2024",
	}

	for _, input := range testCases {
		if _, err := ParseTimestamp(input); err == nil {
			t.Errorf("ParseTimestamp(%q) error = nil, want error", input)
		}
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription(strings.Repeat("a", 250)); err != nil {
		t.Errorf("ValidateDescription(250 chars) error = %v, want nil", err)
	}
	if err := ValidateDescription(strings.Repeat("a", 251)); err == nil {
		t.Error("ValidateDescription(251 chars) error = nil, want error")
	}
}

func TestValidateIdentifier(t *testing.T) {
	if err := ValidateIdentifier("bank-stmt-2024-0001"); err != nil {
		t.Errorf("ValidateIdentifier() error = %v, want nil", err)
	}
	if err := ValidateIdentifier(""); err == nil {
		t.Error("ValidateIdentifier(\"\") error = nil, want error")
	}
	if err := ValidateIdentifier(strings.Repeat("x", 101)); err == nil {
		t.Error("ValidateIdentifier(101 chars) error = nil, want error")
	}
}
