package types

import "time"

// ConfigProperties holds the identity of a dashboard config
type ConfigProperties struct {
	Name string `json:"name" yaml:"name"`
}

// Layout holds grid metadata persisted with a config
type Layout struct {
	Columns int `json:"columns" yaml:"columns"`
}

// Config is a named collection of widgets plus layout metadata
type Config struct {
	Properties ConfigProperties `json:"configProperties" yaml:"configProperties"`
	Widgets    []WidgetInstance `json:"widgets" yaml:"widgets"`
	Layout     Layout           `json:"layout" yaml:"layout"`
}

// Name returns the config name
func (c *Config) Name() string {
	return c.Properties.Name
}

// Clone returns a deep copy of the config
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := &Config{
		Properties: c.Properties,
		Layout:     c.Layout,
	}
	if c.Widgets != nil {
		out.Widgets = make([]WidgetInstance, len(c.Widgets))
		for i, w := range c.Widgets {
			out.Widgets[i] = w.Clone()
		}
	}
	return out
}

// WidgetIndex returns the position of the widget with the given id, or -1
func (c *Config) WidgetIndex(id string) int {
	for i := range c.Widgets {
		if c.Widgets[i].ID == id {
			return i
		}
	}
	return -1
}

// ToMetadata extracts summary information from the config
func (c *Config) ToMetadata() ConfigMetadata {
	return ConfigMetadata{
		Name:        c.Properties.Name,
		WidgetCount: len(c.Widgets),
		Columns:     c.Layout.Columns,
	}
}

// ConfigMetadata contains summary information about a config
type ConfigMetadata struct {
	Name        string `json:"name"`
	WidgetCount int    `json:"widget_count"`
	Columns     int    `json:"columns"`
	Active      bool   `json:"active"`
}

// StoreStats contains config store statistics
type StoreStats struct {
	TotalConfigs  int        `json:"total_configs"`
	ActiveConfig  string     `json:"active_config,omitempty"`
	ActiveWidgets int        `json:"active_widgets"`
	ColumnCount   *int       `json:"column_count,omitempty"`
	Subscribers   int        `json:"subscribers"`
	LastMutation  *time.Time `json:"last_mutation,omitempty"`
}

// RegistryStats contains widget registry statistics
type RegistryStats struct {
	TotalDefinitions    int `json:"total_definitions"`
	EditableDefinitions int `json:"editable_definitions"`
}
