package widgets

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"
)

// ErrInvalidProperty is wrapped by every property validation failure
var ErrInvalidProperty = errors.New("invalid widget property")

// PropertyError reports which option rejected a value
type PropertyError struct {
	Option string
	Reason string
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("option %s: %s", e.Option, e.Reason)
}

func (e *PropertyError) Unwrap() error {
	return ErrInvalidProperty
}

// ValidateProperties checks props against the definition's option schema
// and returns a normalized copy. Numbers are normalized to float64 and
// multi-select values to []any.
func ValidateProperties(def types.WidgetDefinition, props map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(props))

	for name, value := range props {
		spec, ok := def.Options[name]
		if !ok {
			return nil, &PropertyError{Option: name, Reason: "unknown option"}
		}
		if value == nil {
			continue
		}

		normalized, err := validateValue(spec, value)
		if err != nil {
			return nil, &PropertyError{Option: name, Reason: err.Error()}
		}
		out[name] = normalized
	}

	return out, nil
}

func validateValue(spec types.OptionSpec, value any) (any, error) {
	switch spec.Kind {
	case types.OptionText, types.OptionPassword:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return s, nil

	case types.OptionSwitch:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", value)
		}
		return b, nil

	case types.OptionNumber, types.OptionSlider:
		n, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", value)
		}
		if spec.Min != nil && n < *spec.Min {
			return nil, fmt.Errorf("%v is below minimum %v", n, *spec.Min)
		}
		if spec.Max != nil && n > *spec.Max {
			return nil, fmt.Errorf("%v is above maximum %v", n, *spec.Max)
		}
		return n, nil

	case types.OptionSelect:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		if !hasItem(spec.Data, s) {
			return nil, fmt.Errorf("%q is not one of the allowed values", s)
		}
		return s, nil

	case types.OptionMultiSelect:
		values, ok := toStrings(value)
		if !ok {
			return nil, fmt.Errorf("expected list of strings, got %T", value)
		}
		out := make([]any, 0, len(values))
		for _, s := range values {
			if !hasItem(spec.Data, s) {
				return nil, fmt.Errorf("%q is not one of the allowed values", s)
			}
			out = append(out, s)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown option kind %q", spec.Kind)
}

func hasItem(data []types.SelectItem, value string) bool {
	for _, item := range data {
		if item.Value == value {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
