package migrate_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repo-migrate/internal/execshell"
	"github.com/temirov/repo-migrate/internal/migrate"
)

const (
	testInventoryContentConstant    = "CURRENT-NAME,NEW-NAME\nalpha,\nbeta,beta-v2\n"
	testTargetAPIURLFlagConstant    = "--target-api-url"
	testOverriddenTargetAPIConstant = "https://override.example.com/api/v3"
)

func writeInventoryFile(testInstance *testing.T, inventoryPath string) {
	require.NoError(testInstance, os.WriteFile(inventoryPath, []byte(testInventoryContentConstant), 0o644))
}

func TestCommandBuilderBuildRegistersFlags(testInstance *testing.T) {
	builder := &migrate.CommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "migrate", command.Use)

	expectedFlagNames := []string{
		"csv", "logs-dir", "report", "error-log",
		"source-org", "target-org", "target-api-url", "heartbeat-interval",
	}
	for _, flagName := range expectedFlagNames {
		require.NotNil(testInstance, command.Flags().Lookup(flagName), flagName)
	}
}

func TestRunMigrateExecutesInventory(testInstance *testing.T) {
	configuration := testConfiguration(testInstance)
	writeInventoryFile(testInstance, configuration.InventoryPath)

	streamer := &scriptedCommandStreamer{
		linesBySourceRepo: map[string][]string{
			"alpha": {"alpha migrated"},
			"beta":  {"beta migrated"},
		},
		resultsBySourceRepo: map[string]execshell.ExecutionResult{
			"alpha": {ExitCode: 0},
			"beta":  {ExitCode: 0},
		},
	}

	consoleBuffer := &bytes.Buffer{}
	builder := &migrate.CommandBuilder{
		LoggerProvider:        zap.NewNop,
		ConfigurationProvider: func() migrate.Configuration { return configuration },
		Executor:              streamer,
		ErrorLogger:           zap.NewNop(),
		ConsoleWriter:         consoleBuffer,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetArgs([]string{})
	require.NoError(testInstance, command.ExecuteContext(context.Background()))

	require.Len(testInstance, streamer.recordedCommands, 2)
	require.Contains(testInstance, consoleBuffer.String(), "[INFO] Loaded 2 repo(s) from "+configuration.InventoryPath)
	require.Contains(testInstance, consoleBuffer.String(), "All migrations finished. 2/2 repos processed.")

	_, reportStatError := os.Stat(configuration.ReportPath)
	require.NoError(testInstance, reportStatError)
}

func TestRunMigrateFlagOverridesConfiguration(testInstance *testing.T) {
	configuration := testConfiguration(testInstance)
	writeInventoryFile(testInstance, configuration.InventoryPath)

	streamer := &scriptedCommandStreamer{
		resultsBySourceRepo: map[string]execshell.ExecutionResult{
			"alpha": {ExitCode: 0},
			"beta":  {ExitCode: 0},
		},
	}

	builder := &migrate.CommandBuilder{
		LoggerProvider:        zap.NewNop,
		ConfigurationProvider: func() migrate.Configuration { return configuration },
		Executor:              streamer,
		ErrorLogger:           zap.NewNop(),
		ConsoleWriter:         &bytes.Buffer{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetArgs([]string{testTargetAPIURLFlagConstant, testOverriddenTargetAPIConstant})
	require.NoError(testInstance, command.ExecuteContext(context.Background()))

	require.NotEmpty(testInstance, streamer.recordedCommands)
	for _, recordedCommand := range streamer.recordedCommands {
		require.Equal(
			testInstance,
			testOverriddenTargetAPIConstant,
			argumentValue(recordedCommand.Details.Arguments, testTargetAPIURLFlagConstant),
		)
	}
}

func TestRunMigrateRejectsInvalidConfiguration(testInstance *testing.T) {
	configuration := testConfiguration(testInstance)
	configuration.SourceToken = ""

	builder := &migrate.CommandBuilder{
		ConfigurationProvider: func() migrate.Configuration { return configuration },
		Executor:              &scriptedCommandStreamer{},
		ErrorLogger:           zap.NewNop(),
		ConsoleWriter:         &bytes.Buffer{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetArgs([]string{})
	executionError := command.ExecuteContext(context.Background())
	require.Error(testInstance, executionError)

	var invalidConfigurationError migrate.InvalidConfigurationError
	require.ErrorAs(testInstance, executionError, &invalidConfigurationError)
	require.Equal(testInstance, "source_token", invalidConfigurationError.FieldName)
}

func TestRunMigrateReportsInventoryLoadFailure(testInstance *testing.T) {
	configuration := testConfiguration(testInstance)
	configuration.InventoryPath = filepath.Join(testInstance.TempDir(), "absent.csv")

	builder := &migrate.CommandBuilder{
		ConfigurationProvider: func() migrate.Configuration { return configuration },
		Executor:              &scriptedCommandStreamer{},
		ErrorLogger:           zap.NewNop(),
		ConsoleWriter:         &bytes.Buffer{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetArgs([]string{})
	executionError := command.ExecuteContext(context.Background())
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unable to load repository inventory")
}
