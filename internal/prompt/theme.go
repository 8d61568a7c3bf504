package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ANSI color escape sequences.
const (
	ColorReset       = "\033[0m"
	ColorRed         = "\033[0;31m"
	ColorGreen       = "\033[0;32m"
	ColorYellow      = "\033[0;33m"
	ColorBrightGreen = "\033[92m"
)

const (
	stashMarkerConstant     = "$"
	untrackedMarkerConstant = "?"
	trackedMarkerConstant   = "!"
	stagedMarkerConstant    = "+"

	ansiEscapeTemplateConstant          = "\033[%sm"
	themeFileReadErrorTemplateConstant  = "failed to read theme file: %w"
	themeFileParseErrorTemplateConstant = "failed to parse theme file: %w"
)

// MarkerStyle pairs a status marker character with the color applied when the marker is shown.
type MarkerStyle struct {
	Marker string
	Color  string
}

// Theme is the immutable marker and color configuration consumed by the formatter.
type Theme struct {
	CleanBranchColor  string
	DirtyBranchColor  string
	SpecialStateColor string

	Stash     MarkerStyle
	Untracked MarkerStyle
	Tracked   MarkerStyle
	Staged    MarkerStyle

	BehindColor string
	AheadColor  string
	EvenColor   string

	DisableColor bool
}

// DefaultTheme returns the stock marker and color mapping.
func DefaultTheme() Theme {
	return Theme{
		CleanBranchColor:  ColorGreen,
		DirtyBranchColor:  ColorYellow,
		SpecialStateColor: ColorRed,
		Stash:             MarkerStyle{Marker: stashMarkerConstant, Color: ColorBrightGreen},
		Untracked:         MarkerStyle{Marker: untrackedMarkerConstant, Color: ColorRed},
		Tracked:           MarkerStyle{Marker: trackedMarkerConstant, Color: ColorYellow},
		Staged:            MarkerStyle{Marker: stagedMarkerConstant, Color: ColorGreen},
		BehindColor:       ColorRed,
		AheadColor:        ColorYellow,
		EvenColor:         ColorGreen,
	}
}

// WithColorDisabled returns a copy of the theme that renders visible characters only.
func (theme Theme) WithColorDisabled() Theme {
	disabled := theme
	disabled.DisableColor = true
	return disabled
}

// ThemeConfiguration describes the optional YAML theme override file.
//
// Colors are ANSI SGR parameter strings, e.g. "0;35" for magenta; markers are
// single visible characters. Absent fields keep their defaults.
type ThemeConfiguration struct {
	DisableColor      *bool                     `yaml:"disable_color"`
	CleanBranchColor  string                    `yaml:"clean_branch_color"`
	DirtyBranchColor  string                    `yaml:"dirty_branch_color"`
	SpecialStateColor string                    `yaml:"special_state_color"`
	BehindColor       string                    `yaml:"behind_color"`
	AheadColor        string                    `yaml:"ahead_color"`
	EvenColor         string                    `yaml:"even_color"`
	Stash             *MarkerStyleConfiguration `yaml:"stash"`
	Untracked         *MarkerStyleConfiguration `yaml:"untracked"`
	Tracked           *MarkerStyleConfiguration `yaml:"tracked"`
	Staged            *MarkerStyleConfiguration `yaml:"staged"`
}

// MarkerStyleConfiguration overrides a single marker entry.
type MarkerStyleConfiguration struct {
	Marker string `yaml:"marker"`
	Color  string `yaml:"color"`
}

// LoadThemeFile reads a YAML theme override file and applies it over the default theme.
func LoadThemeFile(themeFilePath string) (Theme, error) {
	themeContents, readError := os.ReadFile(themeFilePath)
	if readError != nil {
		return Theme{}, fmt.Errorf(themeFileReadErrorTemplateConstant, readError)
	}

	var themeConfiguration ThemeConfiguration
	if parseError := yaml.Unmarshal(themeContents, &themeConfiguration); parseError != nil {
		return Theme{}, fmt.Errorf(themeFileParseErrorTemplateConstant, parseError)
	}

	return themeConfiguration.Apply(DefaultTheme()), nil
}

// Apply overlays the configured overrides onto the provided theme.
func (configuration ThemeConfiguration) Apply(theme Theme) Theme {
	if configuration.DisableColor != nil {
		theme.DisableColor = *configuration.DisableColor
	}

	theme.CleanBranchColor = overrideColor(theme.CleanBranchColor, configuration.CleanBranchColor)
	theme.DirtyBranchColor = overrideColor(theme.DirtyBranchColor, configuration.DirtyBranchColor)
	theme.SpecialStateColor = overrideColor(theme.SpecialStateColor, configuration.SpecialStateColor)
	theme.BehindColor = overrideColor(theme.BehindColor, configuration.BehindColor)
	theme.AheadColor = overrideColor(theme.AheadColor, configuration.AheadColor)
	theme.EvenColor = overrideColor(theme.EvenColor, configuration.EvenColor)

	theme.Stash = overrideMarkerStyle(theme.Stash, configuration.Stash)
	theme.Untracked = overrideMarkerStyle(theme.Untracked, configuration.Untracked)
	theme.Tracked = overrideMarkerStyle(theme.Tracked, configuration.Tracked)
	theme.Staged = overrideMarkerStyle(theme.Staged, configuration.Staged)

	return theme
}

func overrideColor(currentColor string, configuredParameters string) string {
	trimmedParameters := strings.TrimSpace(configuredParameters)
	if len(trimmedParameters) == 0 {
		return currentColor
	}
	return fmt.Sprintf(ansiEscapeTemplateConstant, trimmedParameters)
}

func overrideMarkerStyle(currentStyle MarkerStyle, configuredStyle *MarkerStyleConfiguration) MarkerStyle {
	if configuredStyle == nil {
		return currentStyle
	}

	if trimmedMarker := strings.TrimSpace(configuredStyle.Marker); len(trimmedMarker) > 0 {
		currentStyle.Marker = trimmedMarker
	}
	currentStyle.Color = overrideColor(currentStyle.Color, configuredStyle.Color)

	return currentStyle
}
