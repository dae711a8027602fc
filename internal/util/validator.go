package util

import (
	"fmt"
	"time"
)

// timestampLayouts are the formats accepted wherever clients send dates.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseTimestamp parses a client-supplied timestamp in any accepted layout.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ValidateDescription checks the shared length limit on descriptions.
func ValidateDescription(description string) error {
	if len(description) > 250 {
		return fmt.Errorf("description too long, max 250 characters")
	}
	return nil
}

// ValidateIdentifier checks an external transaction identifier.
func ValidateIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("identifier is empty")
	}
	if len(identifier) > 100 {
		return fmt.Errorf("identifier too long, max 100 characters")
	}
	return nil
}
