package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// ConfigurationManager defines the interface for loading and validating
// configuration from the .cdkconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	// basePath is the root directory where .cdkconfig resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads the
// configuration file relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with sensible defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		DefaultSLADays:    7,
		ExportDir:         "",
		ReportSampleLimit: models.DefaultSampleLimit,
		Notifications: models.NotificationConfig{
			Alerts: models.AlertConfig{
				DueSoonDays:        7,
				MaxOverdue:         10,
				ImportFailureHours: 24,
			},
		},
	}
}

// LoadGlobalConfig reads the .cdkconfig file from the base path using Viper.
// If the file does not exist, defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(".cdkconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("defaults.sla_days", cfg.DefaultSLADays)
	v.SetDefault("export.dir", cfg.ExportDir)
	v.SetDefault("report.sample_limit", cfg.ReportSampleLimit)
	v.SetDefault("notifications.enabled", cfg.Notifications.Enabled)
	v.SetDefault("notifications.slack.webhook_url", cfg.Notifications.Slack.WebhookURL)
	v.SetDefault("alerts.due_soon_days", cfg.Notifications.Alerts.DueSoonDays)
	v.SetDefault("alerts.max_overdue", cfg.Notifications.Alerts.MaxOverdue)
	v.SetDefault("alerts.import_failure_hours", cfg.Notifications.Alerts.ImportFailureHours)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .cdkconfig: %w", err)
	}

	// Map nested YAML keys to the flat GlobalConfig fields.
	cfg.DefaultSLADays = v.GetInt("defaults.sla_days")
	cfg.ExportDir = v.GetString("export.dir")
	cfg.ReportSampleLimit = v.GetInt("report.sample_limit")
	cfg.Notifications.Enabled = v.GetBool("notifications.enabled")
	cfg.Notifications.Slack.WebhookURL = v.GetString("notifications.slack.webhook_url")
	cfg.Notifications.Alerts.DueSoonDays = v.GetInt("alerts.due_soon_days")
	cfg.Notifications.Alerts.MaxOverdue = v.GetInt("alerts.max_overdue")
	cfg.Notifications.Alerts.ImportFailureHours = v.GetInt("alerts.import_failure_hours")

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns a
// clear error message identifying every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.DefaultSLADays < 0 {
		errs = append(errs, fmt.Sprintf("defaults.sla_days must be non-negative, got %d", cfg.DefaultSLADays))
	}
	if cfg.ReportSampleLimit < 1 {
		errs = append(errs, fmt.Sprintf("report.sample_limit must be at least 1, got %d", cfg.ReportSampleLimit))
	}
	if cfg.Notifications.Alerts.DueSoonDays < 0 {
		errs = append(errs, fmt.Sprintf("alerts.due_soon_days must be non-negative, got %d", cfg.Notifications.Alerts.DueSoonDays))
	}
	if cfg.Notifications.Alerts.MaxOverdue < 0 {
		errs = append(errs, fmt.Sprintf("alerts.max_overdue must be non-negative, got %d", cfg.Notifications.Alerts.MaxOverdue))
	}
	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL == "" {
		errs = append(errs, "notifications.enabled is true but notifications.slack.webhook_url is empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
