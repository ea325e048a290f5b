package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// ClientManager handles manual client and task CRUD, as opposed to the bulk
// paths handled by Importer and Exporter.
type ClientManager interface {
	// CreateClient registers a new client with a generated ID and one
	// default initial task.
	CreateClient(ctx context.Context, name, company, origin string) (*models.Client, error)
	// GetClient returns the client with the given ID.
	GetClient(ctx context.Context, id string) (*models.Client, error)
	// AddTask appends a task to a client, coercing unknown enum values and
	// applying the default SLA policy when no SLA date is given.
	AddTask(ctx context.Context, clientID string, task models.Task) error
	// SetTaskStatus updates the status of the client's task at the given
	// zero-based index.
	SetTaskStatus(ctx context.Context, clientID string, taskIndex int, status models.TaskStatus) error
}

type clientManager struct {
	directory ClientDirectory
	idGen     ClientIDGenerator
	refresher Refresher
	events    EventLogger
	slaDays   int
	now       func() time.Time
}

// NewClientManager creates a ClientManager over the given directory.
func NewClientManager(directory ClientDirectory, idGen ClientIDGenerator, refresher Refresher, events EventLogger, slaDays int, now func() time.Time) ClientManager {
	if slaDays <= 0 {
		slaDays = 7
	}
	if now == nil {
		now = time.Now
	}
	if events == nil {
		events = NopEventLogger{}
	}
	return &clientManager{
		directory: directory,
		idGen:     idGen,
		refresher: refresher,
		events:    events,
		slaDays:   slaDays,
		now:       now,
	}
}

func (m *clientManager) CreateClient(ctx context.Context, name, company, origin string) (*models.Client, error) {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(origin) == "" {
		missing = append(missing, "origin")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("creating client: missing required field(s): %s", strings.Join(missing, ", "))
	}

	id, err := m.idGen.GenerateClientID()
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	now := m.now()
	initial := models.Task{
		Date:        now.Format(DateLayout),
		Description: "Initial task",
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
		SLADate:     DefaultSLADate(now, m.slaDays),
	}

	client := models.Client{ID: id, Name: name, Company: company, Origin: origin}
	if err := m.directory.CreateClientWithTasks(ctx, client, []models.Task{initial}); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	_ = m.events.LogEvent("client.created", map[string]any{"client_id": id, "origin": origin})

	if err := m.refresher.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("refreshing client list after create: %w", err)
	}

	client.Tasks = []models.Task{initial}
	return &client, nil
}

func (m *clientManager) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return m.directory.GetClient(ctx, id)
}

func (m *clientManager) AddTask(ctx context.Context, clientID string, task models.Task) error {
	if strings.TrimSpace(task.Description) == "" {
		return fmt.Errorf("adding task: description must not be empty")
	}

	client, err := m.directory.GetClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}

	now := m.now()
	if task.Date == "" {
		task.Date = now.Format(DateLayout)
	}
	task.Status = models.CoerceStatus(task.Status)
	task.Priority = models.CoercePriority(task.Priority)
	if task.SLADate == "" {
		task.SLADate = DefaultSLADate(now, m.slaDays)
	}

	client.Tasks = append(client.Tasks, task)
	if err := m.directory.UpdateClient(ctx, *client); err != nil {
		return fmt.Errorf("adding task: %w", err)
	}

	_ = m.events.LogEvent("task.added", map[string]any{
		"client_id": clientID,
		"status":    string(task.Status),
		"priority":  string(task.Priority),
	})

	if err := m.refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("refreshing client list after task add: %w", err)
	}
	return nil
}

func (m *clientManager) SetTaskStatus(ctx context.Context, clientID string, taskIndex int, status models.TaskStatus) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("setting task status: invalid status %q", status)
	}

	client, err := m.directory.GetClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("setting task status: %w", err)
	}
	if taskIndex < 0 || taskIndex >= len(client.Tasks) {
		return fmt.Errorf("setting task status: client %s has no task %d", clientID, taskIndex)
	}

	old := client.Tasks[taskIndex].Status
	client.Tasks[taskIndex].Status = status
	if err := m.directory.UpdateClient(ctx, *client); err != nil {
		return fmt.Errorf("setting task status: %w", err)
	}

	_ = m.events.LogEvent("task.status_changed", map[string]any{
		"client_id":  clientID,
		"task_index": taskIndex,
		"old_status": string(old),
		"new_status": string(status),
	})

	if err := m.refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("refreshing client list after status change: %w", err)
	}
	return nil
}
