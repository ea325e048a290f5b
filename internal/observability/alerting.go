package observability

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	// MaxOverdue triggers a directory-wide alert when the number of
	// clients with overdue tasks exceeds it.
	MaxOverdue int `yaml:"max_overdue" json:"max_overdue"`
	// ImportFailureHours is the lookback window for recent import failures.
	ImportFailureHours int `yaml:"import_failure_hours" json:"import_failure_hours"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		MaxOverdue:         10,
		ImportFailureHours: 24,
	}
}

// ClientSource supplies the client list the alert engine evaluates.
type ClientSource interface {
	Clients() ([]models.Client, error)
}

// SLAFunc derives the SLA bucket of a task at a point in time. Injected so
// this package does not depend on the core package's derivation directly.
type SLAFunc func(task models.Task, now time.Time) models.SLAStatus

// AlertEngine evaluates alert conditions against the client directory and
// the event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

type alertEngine struct {
	clients    ClientSource
	eventLog   EventLog
	slaStatus  SLAFunc
	thresholds AlertThresholds
}

// NewAlertEngine creates an AlertEngine over the given client source and
// event log. eventLog may be nil, which disables import-failure alerts.
func NewAlertEngine(clients ClientSource, eventLog EventLog, slaStatus SLAFunc, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		clients:    clients,
		eventLog:   eventLog,
		slaStatus:  slaStatus,
		thresholds: thresholds,
	}
}

// Evaluate checks all alert conditions, returning any triggered alerts.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := time.Now().UTC()
	var alerts []Alert

	slaAlerts, overdueClients, err := ae.checkSLA(now)
	if err != nil {
		return nil, fmt.Errorf("checking SLA status: %w", err)
	}
	alerts = append(alerts, slaAlerts...)

	if ae.thresholds.MaxOverdue > 0 && overdueClients > ae.thresholds.MaxOverdue {
		alerts = append(alerts, Alert{
			ID:        "overdue-backlog",
			Condition: "overdue_backlog_size",
			Severity:  SeverityHigh,
			Message: fmt.Sprintf("%d clients have overdue tasks (threshold %d)",
				overdueClients, ae.thresholds.MaxOverdue),
			TriggeredAt: now,
		})
	}

	importAlerts, err := ae.checkImportFailures(now)
	if err != nil {
		return nil, fmt.Errorf("checking import failures: %w", err)
	}
	alerts = append(alerts, importAlerts...)

	return alerts, nil
}

// checkSLA walks the client list and raises a high alert per client with
// overdue tasks and a medium alert per client with tasks due today. Tasks
// already completed do not alert.
func (ae *alertEngine) checkSLA(now time.Time) ([]Alert, int, error) {
	clients, err := ae.clients.Clients()
	if err != nil {
		return nil, 0, err
	}

	var alerts []Alert
	overdueClients := 0

	for _, client := range clients {
		overdue, dueToday := 0, 0
		for _, task := range client.Tasks {
			if task.Status == models.StatusCompleted {
				continue
			}
			switch ae.slaStatus(task, now) {
			case models.SLAOverdue:
				overdue++
			case models.SLADueToday:
				dueToday++
			}
		}

		if overdue > 0 {
			overdueClients++
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("overdue-%s", client.ID),
				Condition:   "sla_overdue",
				Severity:    SeverityHigh,
				Message:     fmt.Sprintf("client %s (%s) has %d overdue task(s)", client.Name, client.ID, overdue),
				TriggeredAt: now,
			})
		}
		if dueToday > 0 {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("due-today-%s", client.ID),
				Condition:   "sla_due_today",
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("client %s (%s) has %d task(s) due today", client.Name, client.ID, dueToday),
				TriggeredAt: now,
			})
		}
	}

	return alerts, overdueClients, nil
}

// checkImportFailures raises a low alert when import records failed within
// the lookback window.
func (ae *alertEngine) checkImportFailures(now time.Time) ([]Alert, error) {
	if ae.eventLog == nil || ae.thresholds.ImportFailureHours <= 0 {
		return nil, nil
	}

	since := now.Add(-time.Duration(ae.thresholds.ImportFailureHours) * time.Hour)
	events, err := ae.eventLog.Read(EventFilter{Since: &since, Type: "import.record_failed"})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	return []Alert{{
		ID:        "import-failures",
		Condition: "recent_import_failures",
		Severity:  SeverityLow,
		Message: fmt.Sprintf("%d import record(s) failed in the last %dh",
			len(events), ae.thresholds.ImportFailureHours),
		TriggeredAt: now,
	}}, nil
}
