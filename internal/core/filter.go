package core

import (
	"strings"
	"time"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// Filter-wide wildcard accepted by the status, priority, and SLA criteria.
const FilterAll = "all"

// StatusActive is the composite status criterion matching clients with any
// pending or in-progress task.
const StatusActive = "active"

// ClientFilter specifies criteria for filtering the client list. All
// specified criteria use AND logic: a client must match every one. Zero
// values and "all" are no-ops.
type ClientFilter struct {
	// Search matches case-insensitively against name, company, origin, or ID.
	Search string
	// TaskSearch matches case-insensitively against any task description.
	TaskSearch string
	// Status is "all", "active", or an explicit task status.
	Status string
	// Priority is "all" or an explicit priority.
	Priority string
	// SLA is "all" or an SLA bucket (overdue, due_today, due_this_week,
	// on_track, no_sla).
	SLA string
	// DateFrom and DateTo bound task dates inclusively, YYYY-MM-DD.
	// Either side may be empty for an open-ended range.
	DateFrom string
	DateTo   string
}

// FilterClients applies the filter over clients and returns the surviving
// subset in the original relative order. It is pure: the input slice is
// never mutated, and the same inputs always produce the same output. The
// criteria are conjunctive and evaluated per client in a fixed order (date
// range, text search, task text search, status, priority, SLA bucket); the
// order documents intent only and does not affect the result.
func FilterClients(clients []models.Client, filter ClientFilter, now time.Time) []models.Client {
	result := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		if matchesClientFilter(c, filter, now) {
			result = append(result, c)
		}
	}
	return result
}

func matchesClientFilter(c models.Client, f ClientFilter, now time.Time) bool {
	if !matchesDateRange(c, f.DateFrom, f.DateTo) {
		return false
	}
	if !matchesSearch(c, f.Search) {
		return false
	}
	if !matchesTaskSearch(c, f.TaskSearch) {
		return false
	}
	if !matchesStatus(c, f.Status) {
		return false
	}
	if !matchesPriority(c, f.Priority) {
		return false
	}
	if !matchesSLA(c, f.SLA, now) {
		return false
	}
	return true
}

// matchesDateRange passes a client when any task date falls inside the
// inclusive [from, to] range. An absent bound constrains only one side;
// neither bound means no-op.
func matchesDateRange(c models.Client, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	for _, t := range c.Tasks {
		if t.Date == "" {
			continue
		}
		if from != "" && t.Date < from {
			continue
		}
		if to != "" && t.Date > to {
			continue
		}
		return true
	}
	return false
}

func matchesSearch(c models.Client, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{c.Name, c.Company, c.Origin, c.ID} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesTaskSearch(c models.Client, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, t := range c.Tasks {
		if strings.Contains(strings.ToLower(t.Description), term) {
			return true
		}
	}
	return false
}

func matchesStatus(c models.Client, status string) bool {
	if status == "" || status == FilterAll {
		return true
	}
	for _, t := range c.Tasks {
		if status == StatusActive {
			if t.Status == models.StatusPending || t.Status == models.StatusInProgress {
				return true
			}
			continue
		}
		if t.Status == models.TaskStatus(status) {
			return true
		}
	}
	return false
}

func matchesPriority(c models.Client, priority string) bool {
	if priority == "" || priority == FilterAll {
		return true
	}
	for _, t := range c.Tasks {
		if t.Priority == models.Priority(priority) {
			return true
		}
	}
	return false
}

func matchesSLA(c models.Client, bucket string, now time.Time) bool {
	if bucket == "" || bucket == FilterAll {
		return true
	}
	for _, t := range c.Tasks {
		if TaskSLAStatus(t, now) == models.SLAStatus(bucket) {
			return true
		}
	}
	return false
}
