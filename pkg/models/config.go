package models

// SlackConfig holds Slack webhook notification settings.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// AlertConfig holds thresholds for the SLA alert engine.
type AlertConfig struct {
	// DueSoonDays widens the due_this_week window used for medium alerts.
	DueSoonDays int `yaml:"due_soon_days" mapstructure:"due_soon_days"`
	// MaxOverdue triggers a backlog-level alert when exceeded.
	MaxOverdue int `yaml:"max_overdue" mapstructure:"max_overdue"`
	// ImportFailureHours is the lookback window for import-failure alerts.
	ImportFailureHours int `yaml:"import_failure_hours" mapstructure:"import_failure_hours"`
}

// NotificationConfig groups notification settings.
type NotificationConfig struct {
	Enabled bool        `yaml:"enabled" mapstructure:"enabled"`
	Slack   SlackConfig `yaml:"slack" mapstructure:"slack"`
	Alerts  AlertConfig `yaml:"alerts" mapstructure:"alerts"`
}

// GlobalConfig holds system-wide settings read from .cdkconfig via Viper.
type GlobalConfig struct {
	// DefaultSLADays is the default SLA policy: synthesized and manually
	// added tasks get an SLA date this many days out.
	DefaultSLADays int `yaml:"default_sla_days" mapstructure:"default_sla_days"`
	// ExportDir is where export snapshots are written. Empty means the
	// current directory.
	ExportDir string `yaml:"export_dir" mapstructure:"export_dir"`
	// ReportSampleLimit caps quoted entries per category in import reports.
	ReportSampleLimit int `yaml:"report_sample_limit" mapstructure:"report_sample_limit"`

	Notifications NotificationConfig `yaml:"notifications" mapstructure:"notifications"`
}
