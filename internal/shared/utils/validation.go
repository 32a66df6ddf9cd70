package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// String length limits
const (
	MaxIDLength    = 128
	MaxGroupLength = 64
	MaxRouteLength = 512
)

// Regular expressions for validation
var (
	// FocusableIDPattern allows alphanumeric, hyphens, underscores, dots, colons and slashes
	// so hosts can reuse DOM ids and component paths ("grid/tile-3", "nav:home").
	FocusableIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._:/-]+$`)
	// GroupPattern allows alphanumeric, hyphens and underscores
	GroupPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateString validates a string field
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" {
		return nil
	}

	if !utf8.ValidString(value) {
		return fmt.Errorf("%s contains invalid UTF-8", fieldName)
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s exceeds maximum length of %d characters", fieldName, maxLen)
	}

	return nil
}

// ValidateID validates a host-supplied focusable ID
func ValidateID(id, fieldName string) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, true); err != nil {
		return err
	}

	if !FocusableIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateGroup validates a navigation group name
func ValidateGroup(group string) error {
	if err := ValidateString(group, "group", 1, MaxGroupLength, true); err != nil {
		return err
	}

	if !GroupPattern.MatchString(group) {
		return fmt.Errorf("group contains invalid characters (only alphanumeric, hyphens, and underscores allowed)")
	}

	return nil
}

// ValidateRoute validates a router target carried by an intent
func ValidateRoute(route string) error {
	if err := ValidateString(route, "route", 1, MaxRouteLength, true); err != nil {
		return err
	}
	if strings.ContainsAny(route, "\r\n") {
		return fmt.Errorf("route must be a single line")
	}
	return nil
}
