package cli

import (
	"github.com/valter-silva-au/clientdeck/internal/core"
	"github.com/valter-silva-au/clientdeck/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string

	Directory core.ClientDirectory
	Cache     *core.ClientCache
	Import    core.Importer
	Export    core.Exporter
	ClientMgr core.ClientManager

	// ExportDir is the configured export target directory.
	ExportDir string

	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
