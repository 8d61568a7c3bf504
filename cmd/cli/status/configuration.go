package status

import "strings"

const (
	configurationPathKeyConstant      = "path"
	configurationThemeFileKeyConstant = "theme_file"
	configurationPlainKeyConstant     = "plain"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration describes configuration values for the status command.
type CommandConfiguration struct {
	Path      string `mapstructure:"path"`
	ThemeFile string `mapstructure:"theme_file"`
	Plain     bool   `mapstructure:"plain"`
}

// DefaultCommandConfiguration returns baseline configuration values for the status command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Path:      "",
		ThemeFile: "",
		Plain:     false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the status command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationPathKeyConstant:      defaults.Path,
		rootKey + configurationKeySeparatorConstant + configurationThemeFileKeyConstant: defaults.ThemeFile,
		rootKey + configurationKeySeparatorConstant + configurationPlainKeyConstant:     defaults.Plain,
	}
}

// Sanitize normalizes configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Path = strings.TrimSpace(configuration.Path)
	sanitized.ThemeFile = strings.TrimSpace(configuration.ThemeFile)
	return sanitized
}
