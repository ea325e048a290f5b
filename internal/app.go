// Package internal provides the App struct that wires all components of
// clientdeck together and initializes the CLI layer.
package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/clientdeck/internal/cli"
	"github.com/valter-silva-au/clientdeck/internal/core"
	"github.com/valter-silva-au/clientdeck/internal/observability"
	"github.com/valter-silva-au/clientdeck/internal/storage"
	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// App holds all service dependencies for clientdeck.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	Store storage.ClientStore

	// Core services
	Directory core.ClientDirectory
	Cache     *core.ClientCache
	IDGen     core.ClientIDGenerator
	Importer  core.Importer
	Exporter  core.Exporter
	ClientMgr core.ClientManager

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of clientdeck. basePath is the
// directory holding clients.yaml, .cdkconfig, and the event log.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		// Use defaults if the config file is unreadable.
		cfg = core.DefaultGlobalConfig()
	}

	// --- Storage layer ---
	app.Store = storage.NewClientStore(basePath)
	_ = app.Store.Load() // Non-fatal: empty directory on first use.

	app.Directory = &directoryAdapter{store: app.Store}
	app.Cache = core.NewClientCache(app.Directory)
	app.IDGen = core.NewClientIDGenerator()

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".cdk_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if the log can't be created.
		app.EventLog = nil
	}

	var events core.EventLogger = core.NopEventLogger{}
	if app.EventLog != nil {
		events = &eventLogAdapter{log: app.EventLog}

		thresholds := observability.DefaultAlertThresholds()
		if cfg.Notifications.Alerts.MaxOverdue > 0 {
			thresholds.MaxOverdue = cfg.Notifications.Alerts.MaxOverdue
		}
		if cfg.Notifications.Alerts.ImportFailureHours > 0 {
			thresholds.ImportFailureHours = cfg.Notifications.Alerts.ImportFailureHours
		}
		app.AlertEngine = observability.NewAlertEngine(
			&clientSourceAdapter{directory: app.Directory},
			app.EventLog,
			core.TaskSLAStatus,
			thresholds,
		)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(cfg.Notifications.Slack.WebhookURL)
	}

	// --- Core services ---
	app.Importer = core.NewImporter(app.Directory, app.IDGen, app.Cache, events, core.ImporterOpts{
		DefaultSLADays: cfg.DefaultSLADays,
		SampleLimit:    cfg.ReportSampleLimit,
	})
	app.Exporter = core.NewExporter(app.Directory, events, nil)
	app.ClientMgr = core.NewClientManager(app.Directory, app.IDGen, app.Cache, events, cfg.DefaultSLADays, nil)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Directory = app.Directory
	cli.Cache = app.Cache
	cli.Import = app.Importer
	cli.Export = app.Exporter
	cli.ClientMgr = app.ClientMgr
	cli.ExportDir = cfg.ExportDir

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the clientdeck data directory.
// It checks the CDK_HOME env var, then walks up from the current directory
// looking for a .cdkconfig file, then falls back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("CDK_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".cdkconfig")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

// --- Adapters ---

// directoryAdapter adapts storage.ClientStore to core.ClientDirectory,
// translating the store's absence sentinel into the core's.
type directoryAdapter struct {
	store storage.ClientStore
}

func (a *directoryAdapter) GetClients(_ context.Context) ([]models.Client, error) {
	return a.store.GetClients()
}

func (a *directoryAdapter) GetClient(_ context.Context, id string) (*models.Client, error) {
	client, err := a.store.GetClient(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, core.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (a *directoryAdapter) GetAllClients(_ context.Context) ([]models.Client, error) {
	return a.store.GetAllClients()
}

func (a *directoryAdapter) CreateClientWithTasks(_ context.Context, client models.Client, tasks []models.Task) error {
	return a.store.CreateClientWithTasks(client, tasks)
}

func (a *directoryAdapter) UpdateClient(_ context.Context, client models.Client) error {
	return a.store.UpdateClient(client)
}

// clientSourceAdapter adapts core.ClientDirectory to observability.ClientSource.
type clientSourceAdapter struct {
	directory core.ClientDirectory
}

func (a *clientSourceAdapter) Clients() ([]models.Client, error) {
	return a.directory.GetClients(context.Background())
}

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}
