package utils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repo-migrate/internal/utils"
)

const (
	testConfigurationNameConstant        = "config"
	testConfigurationTypeConstant        = "yaml"
	testEnvironmentPrefixConstant        = "REPOMIGRATETEST"
	testDefaultsAppliedCaseNameConstant  = "defaults_applied"
	testFileOverridesCaseNameConstant    = "configuration_file_overrides_defaults"
	testEnvironmentOverrideCaseName      = "environment_overrides_defaults"
	testDurationDecodedCaseNameConstant  = "duration_strings_decoded"
	testConfigurationFileNameConstant    = "config.yaml"
	testConfigurationFileContentConstant = "migrate:\n  source_organization: acme\n  heartbeat_interval: 45s\n"
)

type loaderTestConfiguration struct {
	Migrate loaderTestMigrateConfiguration `mapstructure:"migrate"`
}

type loaderTestMigrateConfiguration struct {
	SourceOrganization string        `mapstructure:"source_organization"`
	HeartbeatInterval  time.Duration `mapstructure:"heartbeat_interval"`
}

func TestConfigurationLoaderDefaultsAndOverrides(testInstance *testing.T) {
	testInstance.Run(testDefaultsAppliedCaseNameConstant, func(testInstance *testing.T) {
		loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})

		var configuration loaderTestConfiguration
		_, loadError := loader.LoadConfiguration("", map[string]any{
			"migrate.source_organization": "default-org",
			"migrate.heartbeat_interval":  "30s",
		}, &configuration)
		require.NoError(testInstance, loadError)
		require.Equal(testInstance, "default-org", configuration.Migrate.SourceOrganization)
		require.Equal(testInstance, 30*time.Second, configuration.Migrate.HeartbeatInterval)
	})

	testInstance.Run(testFileOverridesCaseNameConstant, func(testInstance *testing.T) {
		temporaryDirectory := testInstance.TempDir()
		configurationFilePath := filepath.Join(temporaryDirectory, testConfigurationFileNameConstant)
		require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testConfigurationFileContentConstant), 0o644))

		loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{temporaryDirectory})

		var configuration loaderTestConfiguration
		loadedConfiguration, loadError := loader.LoadConfiguration(configurationFilePath, map[string]any{
			"migrate.source_organization": "default-org",
		}, &configuration)
		require.NoError(testInstance, loadError)
		require.Equal(testInstance, "acme", configuration.Migrate.SourceOrganization)
		require.Equal(testInstance, configurationFilePath, loadedConfiguration.ConfigFileUsed)
	})

	testInstance.Run(testEnvironmentOverrideCaseName, func(testInstance *testing.T) {
		testInstance.Setenv(testEnvironmentPrefixConstant+"_MIGRATE_SOURCE_ORGANIZATION", "env-org")

		loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})

		var configuration loaderTestConfiguration
		_, loadError := loader.LoadConfiguration("", map[string]any{
			"migrate.source_organization": "default-org",
		}, &configuration)
		require.NoError(testInstance, loadError)
		require.Equal(testInstance, "env-org", configuration.Migrate.SourceOrganization)
	})

	testInstance.Run(testDurationDecodedCaseNameConstant, func(testInstance *testing.T) {
		testInstance.Setenv(testEnvironmentPrefixConstant+"_MIGRATE_HEARTBEAT_INTERVAL", "90s")

		loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})

		var configuration loaderTestConfiguration
		_, loadError := loader.LoadConfiguration("", map[string]any{
			"migrate.heartbeat_interval": "30s",
		}, &configuration)
		require.NoError(testInstance, loadError)
		require.Equal(testInstance, 90*time.Second, configuration.Migrate.HeartbeatInterval)
	})
}
