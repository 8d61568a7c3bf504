package status

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/promptline/promptline/internal/execshell"
	"github.com/promptline/promptline/internal/gitrepo"
	"github.com/promptline/promptline/internal/prompt"
	"github.com/promptline/promptline/internal/utils"
)

const (
	commandUseConstant              = "status [path]"
	commandShortDescriptionConstant = "Render the prompt segment for a repository"
	commandLongDescriptionConstant  = "status prints the colored prompt segment describing the branch, change markers, and upstream divergence of the working tree at the given path."
	plainFlagNameConstant           = "plain"
	plainFlagDescriptionConstant    = "Render without color escape sequences"
	themeFlagNameConstant           = "theme"
	themeFlagDescriptionConstant    = "Path to a YAML theme file overriding colors and markers"

	workingDirectoryErrorTemplateConstant      = "unable to determine working directory: %w"
	shellExecutorCreationErrorTemplateConstant = "unable to construct git executor: %w"
	inspectorCreationErrorTemplateConstant     = "unable to construct repository inspector: %w"
	formatterCreationErrorTemplateConstant     = "unable to construct status formatter: %w"
	themeLoadErrorTemplateConstant             = "unable to load theme: %w"
)

// LoggerProvider supplies the logger shared with the rest of the application.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the status command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	GitExecutor           gitrepo.GitExecutor
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(plainFlagNameConstant, false, plainFlagDescriptionConstant)
	command.Flags().String(themeFlagNameConstant, "", themeFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(plainFlagNameConstant) {
		configuration.Plain, _ = command.Flags().GetBool(plainFlagNameConstant)
	}
	if command.Flags().Changed(themeFlagNameConstant) {
		themeFlagValue, _ := command.Flags().GetString(themeFlagNameConstant)
		configuration.ThemeFile = strings.TrimSpace(themeFlagValue)
	}

	workingDirectory, workingDirectoryError := builder.resolveWorkingDirectory(command, arguments, configuration)
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	logger := builder.resolveLogger()

	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return fmt.Errorf(shellExecutorCreationErrorTemplateConstant, executorError)
	}

	inspector, inspectorError := gitrepo.NewShellInspector(gitExecutor)
	if inspectorError != nil {
		return fmt.Errorf(inspectorCreationErrorTemplateConstant, inspectorError)
	}

	theme, themeError := builder.resolveTheme(configuration)
	if themeError != nil {
		return themeError
	}

	formatter, formatterError := prompt.NewStatusFormatter(theme, prompt.FormatterDependencies{
		Inspector: inspector,
		Logger:    logger,
	})
	if formatterError != nil {
		return fmt.Errorf(formatterCreationErrorTemplateConstant, formatterError)
	}

	rendering := formatter.Render(command.Context(), workingDirectory)

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	_, writeError := fmt.Fprint(outputWriter, rendering)
	return writeError
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

// resolveWorkingDirectory prefers the positional argument, then the configured
// path, then the directory carried in the command context, then the process
// working directory.
func (builder *CommandBuilder) resolveWorkingDirectory(command *cobra.Command, arguments []string, configuration CommandConfiguration) (string, error) {
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		return strings.TrimSpace(arguments[0]), nil
	}

	if len(configuration.Path) > 0 {
		return configuration.Path, nil
	}

	contextAccessor := utils.NewCommandContextAccessor()
	if contextDirectory, contextDirectoryAvailable := contextAccessor.WorkingDirectory(command.Context()); contextDirectoryAvailable {
		trimmedContextDirectory := strings.TrimSpace(contextDirectory)
		if len(trimmedContextDirectory) > 0 {
			return trimmedContextDirectory, nil
		}
	}

	currentDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	return currentDirectory, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (gitrepo.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
}

func (builder *CommandBuilder) resolveTheme(configuration CommandConfiguration) (prompt.Theme, error) {
	theme := prompt.DefaultTheme()
	if len(configuration.ThemeFile) > 0 {
		loadedTheme, loadError := prompt.LoadThemeFile(configuration.ThemeFile)
		if loadError != nil {
			return prompt.Theme{}, fmt.Errorf(themeLoadErrorTemplateConstant, loadError)
		}
		theme = loadedTheme
	}
	if configuration.Plain {
		theme = theme.WithColorDisabled()
	}
	return theme, nil
}
