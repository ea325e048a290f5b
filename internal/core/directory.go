// Package core contains the business logic for clientdeck: bulk JSON import,
// the client filter engine, export snapshots, SLA derivation, manual client
// and task management, and configuration.
package core

import (
	"context"
	"errors"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// ErrClientNotFound signals that a directory lookup found no client with the
// requested ID. Adapters translate the backing store's sentinel into this so
// the importer can tell absence apart from lookup failure.
var ErrClientNotFound = errors.New("client not found")

// ClientDirectory is the backend the core talks to. It mirrors the storage
// API; an adapter in app.go bridges the two so core does not import storage.
type ClientDirectory interface {
	// GetClients returns all clients in stable ID order.
	GetClients(ctx context.Context) ([]models.Client, error)
	// GetClient returns the client with the given ID. Absence is signalled
	// with an error wrapping ErrClientNotFound.
	GetClient(ctx context.Context, id string) (*models.Client, error)
	// GetAllClients returns the authoritative full snapshot, bypassing any
	// cached state.
	GetAllClients(ctx context.Context) ([]models.Client, error)
	// CreateClientWithTasks creates a client with its task list. It fails
	// rather than overwrite an existing ID.
	CreateClientWithTasks(ctx context.Context, client models.Client, tasks []models.Task) error
	// UpdateClient replaces the stored client with the same ID.
	UpdateClient(ctx context.Context, client models.Client) error
}

// Refresher receives the post-write signal to rebuild derived state, such as
// the in-memory client list. The importer calls it exactly once per batch.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// EventLogger records system events. Implementations must tolerate being
// called with arbitrary data maps; a nil EventLogger is never passed to
// constructors (callers use a no-op instead).
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// NopEventLogger is an EventLogger that discards all events.
type NopEventLogger struct{}

// LogEvent implements EventLogger.
func (NopEventLogger) LogEvent(string, map[string]any) error { return nil }
