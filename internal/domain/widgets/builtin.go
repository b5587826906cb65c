package widgets

import "github.com/GriffinCanCode/Dashboard/backend/internal/shared/types"

func ptr(v float64) *float64 { return &v }

func items(values ...string) []types.SelectItem {
	out := make([]types.SelectItem, len(values))
	for i, v := range values {
		out[i] = types.SelectItem{Value: v}
	}
	return out
}

// Builtins returns the widget definitions shipped with the backend
func Builtins() []types.WidgetDefinition {
	return []types.WidgetDefinition{
		{
			Type: "weather",
			Icon: "cloud",
			Options: map[string]types.OptionSpec{
				"displayInFahrenheit": {Kind: types.OptionSwitch, Default: false},
				"displayCityName":     {Kind: types.OptionSwitch, Default: false},
				"location":            {Kind: types.OptionText, Default: "Paris"},
			},
			Size: types.GridSize{MinWidth: 1, MinHeight: 1, Width: 1, Height: 1},
		},
		{
			Type: "date",
			Icon: "clock",
			Options: map[string]types.OptionSpec{
				"display24HourFormat": {Kind: types.OptionSwitch, Default: false},
				"dateFormat": {
					Kind:    types.OptionSelect,
					Default: "dddd, MMMM D",
					Data:    items("hide", "dddd, MMMM D", "dddd, D MMMM", "MMM D", "D MMM", "DD/MM/YYYY", "MM/DD/YYYY"),
				},
			},
			Size: types.GridSize{MinWidth: 1, MinHeight: 1, Width: 2, Height: 1},
		},
		{
			Type: "calendar",
			Icon: "calendar-time",
			Options: map[string]types.OptionSpec{
				"sundayStart": {Kind: types.OptionSwitch, Default: false},
				"radarrReleaseType": {
					Kind:    types.OptionSelect,
					Default: "inCinemas",
					Data:    items("inCinemas", "physicalRelease", "digitalRelease"),
				},
			},
			Size: types.GridSize{MinWidth: 2, MinHeight: 2, Width: 2, Height: 2},
		},
		{
			Type: "torrents-status",
			Icon: "file-download",
			Options: map[string]types.OptionSpec{
				"displayCompletedTorrents": {Kind: types.OptionSwitch, Default: true},
				"displayStaleTorrents":     {Kind: types.OptionSwitch, Default: true},
				"labelFilter":              {Kind: types.OptionMultiSelect, Default: []any{}, Data: items("movies", "tv", "music", "books")},
				"refreshInterval":          {Kind: types.OptionSlider, Default: float64(10), Min: ptr(1), Max: ptr(60), Step: ptr(1)},
			},
			Size: types.GridSize{MinWidth: 2, MinHeight: 2, Width: 4, Height: 2},
		},
		{
			Type: "rss",
			Icon: "rss",
			Options: map[string]types.OptionSpec{
				"rssFeedUrl":      {Kind: types.OptionText, Default: ""},
				"refreshInterval": {Kind: types.OptionSlider, Default: float64(30), Min: ptr(15), Max: ptr(300), Step: ptr(15)},
				"maxItems":        {Kind: types.OptionNumber, Default: float64(20), Min: ptr(1), Max: ptr(100)},
			},
			Size: types.GridSize{MinWidth: 2, MinHeight: 2, Width: 3, Height: 3},
		},
		{
			Type: "iframe",
			Icon: "browser",
			Options: map[string]types.OptionSpec{
				"embedUrl":        {Kind: types.OptionText, Default: ""},
				"allowFullScreen": {Kind: types.OptionSwitch, Default: false},
			},
			Size: types.GridSize{MinWidth: 1, MinHeight: 1, Width: 2, Height: 2},
		},
		{
			Type: "dns-hole-summary",
			Icon: "ad-off",
			Options: map[string]types.OptionSpec{
				"usePiHoleColors": {Kind: types.OptionSwitch, Default: true},
				"apiToken":        {Kind: types.OptionPassword},
			},
			Size: types.GridSize{MinWidth: 2, MinHeight: 1, Width: 2, Height: 1},
		},
		{
			Type: "media-requests",
			Icon: "movie",
			Options: map[string]types.OptionSpec{
				"replaceLinksWithExternalHost": {Kind: types.OptionSwitch, Default: false},
				"apiKey":                       {Kind: types.OptionText, Secret: true},
			},
			Size: types.GridSize{MinWidth: 2, MinHeight: 2, Width: 3, Height: 2},
		},
		{
			Type:    "media-server",
			Icon:    "device-tv",
			Options: map[string]types.OptionSpec{},
			Size:    types.GridSize{MinWidth: 3, MinHeight: 2, Width: 3, Height: 2},
		},
		{
			Type:    "usenet",
			Icon:    "file-download",
			Options: map[string]types.OptionSpec{},
			Size:    types.GridSize{MinWidth: 2, MinHeight: 2, Width: 3, Height: 2},
		},
	}
}
