package models

// TaskStatus represents the current lifecycle state of a client task.
type TaskStatus string

const (
	StatusPending        TaskStatus = "pending"
	StatusInProgress     TaskStatus = "in progress"
	StatusCompleted      TaskStatus = "completed"
	StatusAwaitingClient TaskStatus = "awaiting client"
)

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// SLAStatus is the derived service-level bucket of a task, computed from its
// SLA date relative to the current date.
type SLAStatus string

const (
	SLAOverdue     SLAStatus = "overdue"
	SLADueToday    SLAStatus = "due_today"
	SLADueThisWeek SLAStatus = "due_this_week"
	SLAOnTrack     SLAStatus = "on_track"
	SLANone        SLAStatus = "no_sla"
)

// Task is a unit of work tracked for a client. Dates use YYYY-MM-DD.
type Task struct {
	Date        string     `json:"date" yaml:"date"`
	Description string     `json:"description" yaml:"description"`
	Status      TaskStatus `json:"status" yaml:"status"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	SLADate     string     `json:"sla_date,omitempty" yaml:"sla_date,omitempty"`
}

// Client is a tracked client with its task list. IDs follow the
// CL-<millis>-<random> format when generated by this system.
type Client struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Company string `json:"company" yaml:"company"`
	Origin  string `json:"origin" yaml:"origin"`
	Tasks   []Task `json:"tasks" yaml:"tasks"`
}

// validStatuses is the set of recognized TaskStatus values.
var validStatuses = map[TaskStatus]bool{
	StatusPending:        true,
	StatusInProgress:     true,
	StatusCompleted:      true,
	StatusAwaitingClient: true,
}

// validPriorities is the set of recognized Priority values.
var validPriorities = map[Priority]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// ValidStatus reports whether s is a recognized task status.
func ValidStatus(s TaskStatus) bool {
	return validStatuses[s]
}

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p Priority) bool {
	return validPriorities[p]
}

// CoerceStatus returns s if recognized, otherwise StatusPending.
func CoerceStatus(s TaskStatus) TaskStatus {
	if validStatuses[s] {
		return s
	}
	return StatusPending
}

// CoercePriority returns p if recognized, otherwise PriorityMedium.
func CoercePriority(p Priority) Priority {
	if validPriorities[p] {
		return p
	}
	return PriorityMedium
}
