package migrate

import (
	"fmt"
	"strings"
	"time"
)

const (
	sourceTokenConfigurationKeyConstant        = "source_token"
	targetTokenConfigurationKeyConstant        = "target_token"
	sourceOrganizationConfigurationKeyConstant = "source_organization"
	targetOrganizationConfigurationKeyConstant = "target_organization"
	targetAPIURLConfigurationKeyConstant       = "target_api_url"
	inventoryPathConfigurationKeyConstant      = "inventory_path"
	logsDirectoryConfigurationKeyConstant      = "logs_directory"
	reportPathConfigurationKeyConstant         = "report_path"
	errorLogPathConfigurationKeyConstant       = "error_log_path"
	heartbeatIntervalConfigurationKeyConstant  = "heartbeat_interval"
	configurationKeyTemplateConstant           = "%s.%s"

	defaultTargetAPIURLConstant      = "https://api.github.com"
	defaultInventoryPathConstant     = "repos.csv"
	defaultLogsDirectoryConstant     = "logs"
	defaultReportPathConstant        = "MigrationDetails.csv"
	defaultErrorLogPathConstant      = "migration_errors.log"
	defaultHeartbeatIntervalConstant = 30 * time.Second

	requiredValueMissingMessageConstant = "required value is not set"
)

// Configuration captures the settings consumed by the migrate command.
//
// The value is constructed once at command start and passed explicitly into
// the orchestrating service; nothing reads ambient configuration mid-run.
type Configuration struct {
	SourceToken        string        `mapstructure:"source_token"`
	TargetToken        string        `mapstructure:"target_token"`
	SourceOrganization string        `mapstructure:"source_organization"`
	TargetOrganization string        `mapstructure:"target_organization"`
	TargetAPIURL       string        `mapstructure:"target_api_url"`
	InventoryPath      string        `mapstructure:"inventory_path"`
	LogsDirectory      string        `mapstructure:"logs_directory"`
	ReportPath         string        `mapstructure:"report_path"`
	ErrorLogPath       string        `mapstructure:"error_log_path"`
	HeartbeatInterval  time.Duration `mapstructure:"heartbeat_interval"`
}

// InvalidConfigurationError describes a missing or unusable configuration value.
type InvalidConfigurationError struct {
	FieldName string
	Message   string
}

// Error describes the invalid configuration value.
func (configurationError InvalidConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", configurationError.FieldName, configurationError.Message)
}

// DefaultConfigurationValues returns the default configuration map keyed under the provided prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	prefixedKey := func(configurationKey string) string {
		return fmt.Sprintf(configurationKeyTemplateConstant, configurationKeyPrefix, configurationKey)
	}

	// The credential and organization keys default to empty strings so the
	// configuration machinery registers them; otherwise environment-only
	// values would never be picked up during unmarshaling.
	return map[string]any{
		prefixedKey(sourceTokenConfigurationKeyConstant):        "",
		prefixedKey(targetTokenConfigurationKeyConstant):        "",
		prefixedKey(sourceOrganizationConfigurationKeyConstant): "",
		prefixedKey(targetOrganizationConfigurationKeyConstant): "",
		prefixedKey(targetAPIURLConfigurationKeyConstant):       defaultTargetAPIURLConstant,
		prefixedKey(inventoryPathConfigurationKeyConstant):      defaultInventoryPathConstant,
		prefixedKey(logsDirectoryConfigurationKeyConstant):      defaultLogsDirectoryConstant,
		prefixedKey(reportPathConfigurationKeyConstant):         defaultReportPathConstant,
		prefixedKey(errorLogPathConfigurationKeyConstant):       defaultErrorLogPathConstant,
		prefixedKey(heartbeatIntervalConfigurationKeyConstant):  defaultHeartbeatIntervalConstant.String(),
	}
}

// Validate confirms every required setting is present before a run begins.
func (configuration Configuration) Validate() error {
	requiredValues := []struct {
		fieldName  string
		fieldValue string
	}{
		{fieldName: sourceTokenConfigurationKeyConstant, fieldValue: configuration.SourceToken},
		{fieldName: targetTokenConfigurationKeyConstant, fieldValue: configuration.TargetToken},
		{fieldName: sourceOrganizationConfigurationKeyConstant, fieldValue: configuration.SourceOrganization},
		{fieldName: targetOrganizationConfigurationKeyConstant, fieldValue: configuration.TargetOrganization},
	}

	for _, requiredValue := range requiredValues {
		if len(strings.TrimSpace(requiredValue.fieldValue)) == 0 {
			return InvalidConfigurationError{FieldName: requiredValue.fieldName, Message: requiredValueMissingMessageConstant}
		}
	}

	return nil
}
