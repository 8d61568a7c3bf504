package cli_test

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/promptline/promptline/cmd/cli"
	"github.com/promptline/promptline/cmd/cli/status"
)

func decodeConfiguration(testInstance *testing.T, source map[string]any, target any) {
	testInstance.Helper()
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: target})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(source))
}

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	configurationContent, configurationType := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, configurationContent)

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationContent)))

	var configuration cli.ApplicationConfiguration
	decodeConfiguration(testInstance, viperInstance.AllSettings(), &configuration)

	require.Equal(testInstance, "error", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, status.DefaultCommandConfiguration(), configuration.Tools.Status)
}
