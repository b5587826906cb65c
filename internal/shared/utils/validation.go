package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxDocumentSize bounds an imported config document (1MB)
const MaxDocumentSize = 1 * 1024 * 1024

// String length limits
const (
	MaxIDLength         = 128
	MaxConfigNameLength = 64
	MaxTypeIDLength     = 64
	MaxDocumentDepth    = 16
)

var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// ConfigNamePattern additionally allows dots and spaces, but not a leading dot
	ConfigNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-][a-zA-Z0-9 ._-]*$`)
	// TypeIDPattern allows lowercase alphanumeric and hyphens
	TypeIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if value == "" {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateConfigName validates a config name. Names double as file names,
// so path separators and leading dots are rejected.
func ValidateConfigName(name string) error {
	if err := ValidateString(name, "config name", 1, MaxConfigNameLength, true); err != nil {
		return err
	}
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("config name must not start or end with whitespace")
	}
	if !ConfigNamePattern.MatchString(name) {
		return fmt.Errorf("config name contains invalid characters")
	}
	return nil
}

// ValidateTypeID validates a widget type identifier
func ValidateTypeID(typeID string) error {
	if err := ValidateString(typeID, "widget type", 1, MaxTypeIDLength, true); err != nil {
		return err
	}
	if !TypeIDPattern.MatchString(typeID) {
		return fmt.Errorf("widget type must contain only lowercase letters, numbers, and hyphens")
	}
	return nil
}

// ValidateSize checks that a payload stays within limit
func ValidateSize(data []byte, limit int) error {
	if len(data) > limit {
		return fmt.Errorf("payload size %d bytes exceeds maximum %d bytes", len(data), limit)
	}
	return nil
}

// ValidateDepth checks that nested maps and slices stay within maxDepth
func ValidateDepth(data any, maxDepth int) error {
	return checkDepth(data, 0, maxDepth)
}

func checkDepth(data any, currentDepth int, maxDepth int) error {
	if currentDepth > maxDepth {
		return fmt.Errorf("nesting depth %d exceeds maximum %d", currentDepth, maxDepth)
	}

	switch v := data.(type) {
	case map[string]any:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case []any:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	}

	return nil
}
