// Package styles provides shared lipgloss styles for terminal output.
//
// Colors come from the active [Theme], selected once at startup with
// [SetTheme]. Style accessors read the active theme on every call, so
// callers never cache a style across a theme change.
package styles

import (
	"image/color"
	"slices"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for output
type Theme struct {
	Primary color.Color // headers, folder names
	Success color.Color // created
	Warning color.Color // updated
	Error   color.Color // deleted, errors
	Muted   color.Color // secondary text
}

// Preset themes
var (
	// DefaultTheme is the default color scheme
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),  // cyan/teal
		Success: lipgloss.Color("82"),  // green
		Warning: lipgloss.Color("214"), // orange
		Error:   lipgloss.Color("196"), // red
		Muted:   lipgloss.Color("240"), // dark gray
	}

	// DraculaTheme is based on the Dracula color scheme
	DraculaTheme = Theme{
		Primary: lipgloss.Color("#bd93f9"), // purple
		Success: lipgloss.Color("#50fa7b"), // green
		Warning: lipgloss.Color("#ffb86c"), // orange
		Error:   lipgloss.Color("#ff5555"), // red
		Muted:   lipgloss.Color("#6272a4"), // comment
	}

	// NordTheme is based on the Nord color scheme
	NordTheme = Theme{
		Primary: lipgloss.Color("#88c0d0"), // nord8
		Success: lipgloss.Color("#a3be8c"), // nord14
		Warning: lipgloss.Color("#ebcb8b"), // nord13
		Error:   lipgloss.Color("#bf616a"), // nord11
		Muted:   lipgloss.Color("#4c566a"), // nord3
	}

	// NoneTheme disables colors
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
	}
)

var presets = map[string]Theme{
	"default": DefaultTheme,
	"dracula": DraculaTheme,
	"nord":    NordTheme,
	"none":    NoneTheme,
}

var current = DefaultTheme

// PresetNames returns the theme names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetTheme activates the named preset. Unknown names keep the current theme
// and return false.
func SetTheme(name string) bool {
	t, ok := presets[name]
	if ok {
		current = t
	}
	return ok
}

// Current returns the active theme.
func Current() Theme {
	return current
}

// Bold applies bold formatting
func Bold() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

// PrimaryStyle applies the primary color with bold
func PrimaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Primary).Bold(true)
}

// SuccessStyle applies the success color
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Success)
}

// WarningStyle applies the warning color
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Warning)
}

// ErrorStyle applies the error color
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Error)
}

// MutedStyle applies the muted color
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Muted)
}
