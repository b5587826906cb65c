package types

import (
	"fmt"
	"sort"
)

// OptionKind discriminates the variants of a widget option schema
type OptionKind string

const (
	OptionText        OptionKind = "text"
	OptionNumber      OptionKind = "number"
	OptionSwitch      OptionKind = "switch"
	OptionSelect      OptionKind = "select"
	OptionMultiSelect OptionKind = "multi-select"
	OptionSlider      OptionKind = "slider"
	OptionPassword    OptionKind = "password"
)

// SelectItem is one choice of a select or multi-select option
type SelectItem struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// OptionSpec describes one configurable option of a widget type.
// Which fields are meaningful depends on Kind; Validate enforces it.
type OptionSpec struct {
	Kind    OptionKind   `json:"type" yaml:"type" toml:"type"`
	Default any          `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty" toml:"defaultValue,omitempty"`
	Data    []SelectItem `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty"`
	Min     *float64     `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max     *float64     `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	Step    *float64     `json:"step,omitempty" yaml:"step,omitempty" toml:"step,omitempty"`
	Secret  bool         `json:"secret,omitempty" yaml:"secret,omitempty" toml:"secret,omitempty"`
}

// IsSecret reports whether values of this option must never leave the backend
func (o OptionSpec) IsSecret() bool {
	return o.Secret || o.Kind == OptionPassword
}

// Validate checks that the spec only carries fields valid for its kind
func (o OptionSpec) Validate() error {
	switch o.Kind {
	case OptionText, OptionPassword, OptionSwitch:
		if len(o.Data) > 0 || o.Min != nil || o.Max != nil || o.Step != nil {
			return fmt.Errorf("option kind %q takes no data or range", o.Kind)
		}
	case OptionSelect, OptionMultiSelect:
		if len(o.Data) == 0 {
			return fmt.Errorf("option kind %q requires data", o.Kind)
		}
		if o.Min != nil || o.Max != nil || o.Step != nil {
			return fmt.Errorf("option kind %q takes no range", o.Kind)
		}
	case OptionNumber:
		if len(o.Data) > 0 {
			return fmt.Errorf("option kind %q takes no data", o.Kind)
		}
	case OptionSlider:
		if o.Min == nil || o.Max == nil {
			return fmt.Errorf("option kind %q requires min and max", o.Kind)
		}
		if len(o.Data) > 0 {
			return fmt.Errorf("option kind %q takes no data", o.Kind)
		}
	default:
		return fmt.Errorf("unknown option kind %q", o.Kind)
	}
	if o.Min != nil && o.Max != nil && *o.Min > *o.Max {
		return fmt.Errorf("option min %v exceeds max %v", *o.Min, *o.Max)
	}
	return nil
}

// GridSize holds the default and minimum tile size of a widget type
type GridSize struct {
	MinWidth  int `json:"minWidth" yaml:"minWidth" toml:"minWidth"`
	MinHeight int `json:"minHeight" yaml:"minHeight" toml:"minHeight"`
	Width     int `json:"width" yaml:"width" toml:"width"`
	Height    int `json:"height" yaml:"height" toml:"height"`
}

// WidgetDefinition is the static schema of a widget type
type WidgetDefinition struct {
	Type        string                `json:"id" yaml:"id" toml:"id"`
	Icon        string                `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Options     map[string]OptionSpec `json:"options" yaml:"options" toml:"options"`
	Size        GridSize              `json:"gridstack" yaml:"gridstack" toml:"gridstack"`
}

// Editable reports whether the definition exposes any option to edit
func (d WidgetDefinition) Editable() bool {
	return len(d.Options) != 0
}

// OptionNames returns option names in stable order
func (d WidgetDefinition) OptionNames() []string {
	names := make([]string, 0, len(d.Options))
	for name := range d.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns the default property values for a new instance
func (d WidgetDefinition) Defaults() map[string]any {
	props := make(map[string]any, len(d.Options))
	for name, opt := range d.Options {
		if opt.Default != nil {
			props[name] = CloneValue(opt.Default)
		}
	}
	return props
}

// Clone returns a copy that shares no mutable state with d
func (d WidgetDefinition) Clone() WidgetDefinition {
	out := d
	out.Options = make(map[string]OptionSpec, len(d.Options))
	for name, opt := range d.Options {
		if opt.Data != nil {
			opt.Data = append([]SelectItem(nil), opt.Data...)
		}
		opt.Default = CloneValue(opt.Default)
		out.Options[name] = opt
	}
	return out
}

// Area is a tile's placement on the dashboard grid
type Area struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// WidgetInstance is one placed tile. A nil Properties map means the
// properties are undefined, which is distinct from an empty map.
type WidgetInstance struct {
	ID         string         `json:"id" yaml:"id"`
	Type       string         `json:"type" yaml:"type"`
	Properties map[string]any `json:"properties" yaml:"properties"`
	Area       Area           `json:"area" yaml:"area"`
}

// Clone returns a deep copy of the instance
func (w WidgetInstance) Clone() WidgetInstance {
	out := w
	if w.Properties != nil {
		out.Properties = CloneProperties(w.Properties)
	}
	return out
}

// CloneProperties deep-copies a property map, preserving nil
func CloneProperties(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies JSON-like values (maps, slices, scalars)
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneProperties(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return val
	}
}
