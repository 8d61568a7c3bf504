package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/promptline/promptline/internal/utils"
)

func TestCommandContextAccessorRoundTripsValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/etc/promptline/config.yaml")
	executionContext = accessor.WithWorkingDirectory(executionContext, "/repositories/service")

	configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationFilePathAvailable)
	require.Equal(testInstance, "/etc/promptline/config.yaml", configurationFilePath)

	workingDirectory, workingDirectoryAvailable := accessor.WorkingDirectory(executionContext)
	require.True(testInstance, workingDirectoryAvailable)
	require.Equal(testInstance, "/repositories/service", workingDirectory)
}

func TestCommandContextAccessorHandlesMissingValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, configurationFilePathAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationFilePathAvailable)

	_, workingDirectoryAvailable := accessor.WorkingDirectory(nil)
	require.False(testInstance, workingDirectoryAvailable)
}
