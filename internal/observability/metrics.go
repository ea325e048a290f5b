package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	ClientsImported int        `json:"clients_imported"`
	ClientsCreated  int        `json:"clients_created"`
	ImportRuns      int        `json:"import_runs"`
	ImportFailures  int        `json:"import_failures"`
	ImportSkips     int        `json:"import_skips"`
	Exports         int        `json:"exports"`
	TasksAdded      int        `json:"tasks_added"`
	EventCount      int        `json:"event_count"`
	OldestEvent     *time.Time `json:"oldest_event,omitempty"`
	NewestEvent     *time.Time `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{EventCount: len(events)}

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "client.imported":
			m.ClientsImported++
		case "client.created":
			m.ClientsCreated++
		case "import.completed":
			m.ImportRuns++
			if skipped, ok := event.Data["skipped"].(float64); ok {
				m.ImportSkips += int(skipped)
			}
		case "import.record_failed":
			m.ImportFailures++
		case "export.completed":
			m.Exports++
		case "task.added":
			m.TasksAdded++
		}
	}

	return m, nil
}
