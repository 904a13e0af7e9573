package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/draftsweep/internal/utils"
)

const (
	testEnvironmentPrefixConstant          = "TESTSWEEP"
	testLogLevelEnvironmentVariable        = "TESTSWEEP_COMMON_LOG_LEVEL"
	testTimeoutEnvironmentVariable         = "TESTSWEEP_PURGE_REQUEST_TIMEOUT"
	testDotenvVariableConstant             = "TESTSWEEP_DOTENV_TOKEN"
	testConfigurationNameConstant          = "config"
	testConfigurationTypeConstant          = "yaml"
	testConfigFileNameConstant             = "config.yaml"
	testEnvironmentFileNameConstant        = ".env"
	testConfigContentTemplateConstant      = "common:\n  log_level: %s\npurge:\n  request_timeout: %s\n"
	testEmbeddedLogLevelConstant           = "info"
	testEmbeddedTimeoutConstant            = "30s"
	testFileLogLevelConstant               = "warn"
	testFileTimeoutConstant                = "2m"
	testEnvironmentLogLevelConstant        = "error"
	testEnvironmentTimeoutConstant         = "5s"
	testCaseEmbeddedMessageConstant        = "embedded configuration applies"
	testCaseFileMessageConstant            = "config file overrides embedded"
	testCaseEnvironmentMessageConstant     = "environment overrides file"
	configurationLoaderSubtestNameTemplate = "%d_%s"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
	Purge  configurationPurgeFixture  `mapstructure:"purge"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type configurationPurgeFixture struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func TestConfigurationLoaderPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name             string
		writeFile        bool
		setEnvironment   bool
		expectedLogLevel string
		expectedTimeout  time.Duration
	}{
		{
			name:             testCaseEmbeddedMessageConstant,
			expectedLogLevel: testEmbeddedLogLevelConstant,
			expectedTimeout:  30 * time.Second,
		},
		{
			name:             testCaseFileMessageConstant,
			writeFile:        true,
			expectedLogLevel: testFileLogLevelConstant,
			expectedTimeout:  2 * time.Minute,
		},
		{
			name:             testCaseEnvironmentMessageConstant,
			writeFile:        true,
			setEnvironment:   true,
			expectedLogLevel: testEnvironmentLogLevelConstant,
			expectedTimeout:  5 * time.Second,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplate, testCaseIndex, testCase.name), func(subTestInstance *testing.T) {
			temporaryDirectory := subTestInstance.TempDir()
			configurationFilePath := ""
			if testCase.writeFile {
				configurationFilePath = filepath.Join(temporaryDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testFileLogLevelConstant, testFileTimeoutConstant)
				require.NoError(subTestInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))
			}
			if testCase.setEnvironment {
				subTestInstance.Setenv(testLogLevelEnvironmentVariable, testEnvironmentLogLevelConstant)
				subTestInstance.Setenv(testTimeoutEnvironmentVariable, testEnvironmentTimeoutConstant)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{temporaryDirectory})
			configurationLoader.SetEmbeddedConfiguration(
				[]byte(fmt.Sprintf(testConfigContentTemplateConstant, testEmbeddedLogLevelConstant, testEmbeddedTimeoutConstant)),
				testConfigurationTypeConstant,
			)

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, nil, &loadedConfiguration)
			require.NoError(subTestInstance, loadError)
			require.Equal(subTestInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)
			require.Equal(subTestInstance, testCase.expectedTimeout, loadedConfiguration.Purge.RequestTimeout)
			if testCase.writeFile {
				require.Equal(subTestInstance, configurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(subTestInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderRejectsMissingExplicitFile(testInstance *testing.T) {
	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	missingFilePath := filepath.Join(testInstance.TempDir(), testConfigFileNameConstant)

	_, loadError := configurationLoader.LoadConfiguration(missingFilePath, nil, &configurationFixture{})
	require.Error(testInstance, loadError)
}

func TestConfigurationLoaderLoadEnvironmentFiles(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	environmentFilePath := filepath.Join(temporaryDirectory, testEnvironmentFileNameConstant)
	require.NoError(testInstance, os.WriteFile(environmentFilePath, []byte(testDotenvVariableConstant+"=from-file\n"), 0o600))
	missingFilePath := filepath.Join(temporaryDirectory, "missing.env")

	testInstance.Setenv(testDotenvVariableConstant, "")
	require.NoError(testInstance, os.Unsetenv(testDotenvVariableConstant))

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	appliedFiles, loadError := configurationLoader.LoadEnvironmentFiles(missingFilePath, environmentFilePath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{environmentFilePath}, appliedFiles)
	require.Equal(testInstance, "from-file", os.Getenv(testDotenvVariableConstant))
}

func TestConfigurationLoaderEnvironmentFilesKeepExistingValues(testInstance *testing.T) {
	environmentFilePath := filepath.Join(testInstance.TempDir(), testEnvironmentFileNameConstant)
	require.NoError(testInstance, os.WriteFile(environmentFilePath, []byte(testDotenvVariableConstant+"=from-file\n"), 0o600))
	testInstance.Setenv(testDotenvVariableConstant, "from-process")

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	_, loadError := configurationLoader.LoadEnvironmentFiles(environmentFilePath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "from-process", os.Getenv(testDotenvVariableConstant))
}
