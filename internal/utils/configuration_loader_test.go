package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/promptline/promptline/internal/utils"
)

const (
	testEnvironmentPrefixConstant      = "TESTPROMPTLINE"
	testCommonSectionKeyConstant       = "common"
	testLogLevelKeyConstant            = testCommonSectionKeyConstant + ".log_level"
	testLogLevelEnvironmentName        = testEnvironmentPrefixConstant + "_COMMON_LOG_LEVEL"
	testDefaultLogLevelConstant        = "error"
	testFileLogLevelConstant           = "warn"
	testEnvironmentLogLevelConstant    = "debug"
	testConfigFileNameConstant         = "config.yaml"
	testConfigContentTemplateConstant  = "common:\n  log_level: %s\n"
	testConfigurationNameConstant      = "config"
	testConfigurationTypeConstant      = "yaml"
	testCaseDefaultsMessageConstant    = "defaults_are_applied"
	testCaseFileMessageConstant        = "config_file_overrides_defaults"
	testCaseEnvironmentMessageConstant = "environment_overrides_file"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                string
		fileLogLevel        string
		environmentLogLevel string
		expectedLogLevel    string
		expectFileUsed      bool
	}{
		{
			name:             testCaseDefaultsMessageConstant,
			expectedLogLevel: testDefaultLogLevelConstant,
		},
		{
			name:             testCaseFileMessageConstant,
			fileLogLevel:     testFileLogLevelConstant,
			expectedLogLevel: testFileLogLevelConstant,
			expectFileUsed:   true,
		},
		{
			name:                testCaseEnvironmentMessageConstant,
			fileLogLevel:        testFileLogLevelConstant,
			environmentLogLevel: testEnvironmentLogLevelConstant,
			expectedLogLevel:    testEnvironmentLogLevelConstant,
			expectFileUsed:      true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationFilePath := ""
			if len(testCase.fileLogLevel) > 0 {
				temporaryDirectory := testInstance.TempDir()
				configurationFilePath = filepath.Join(temporaryDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileLogLevel)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))
			}

			if len(testCase.environmentLogLevel) > 0 {
				testInstance.Setenv(testLogLevelEnvironmentName, testCase.environmentLogLevel)
			}

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{testInstance.TempDir()},
			)

			var loadedFixture configurationFixture
			defaultValues := map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant}
			loadedConfiguration, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedFixture)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedFixture.Common.LogLevel)

			if testCase.expectFileUsed {
				require.Equal(testInstance, configurationFilePath, loadedConfiguration.ConfigFileUsed)
			} else {
				require.Empty(testInstance, loadedConfiguration.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderSearchesConfiguredPaths(testInstance *testing.T) {
	searchDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(searchDirectory, testConfigFileNameConstant)
	configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testFileLogLevelConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))

	configurationLoader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{searchDirectory},
	)

	var loadedFixture configurationFixture
	loadedConfiguration, loadError := configurationLoader.LoadConfiguration("", map[string]any{}, &loadedFixture)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testFileLogLevelConstant, loadedFixture.Common.LogLevel)
	require.Equal(testInstance, configurationFilePath, loadedConfiguration.ConfigFileUsed)
}
