package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Exporter writes JSON snapshots of the full client list.
type Exporter interface {
	// Export fetches the authoritative snapshot and writes it to dir as
	// clients_<YYYY-MM-DD>.json, returning the written path. Nothing is
	// left behind on failure.
	Export(ctx context.Context, dir string) (string, error)
}

type jsonExporter struct {
	directory ClientDirectory
	events    EventLogger
	now       func() time.Time
}

// NewExporter creates an Exporter over the given directory. The snapshot
// always comes from GetAllClients, never from cached state, so concurrent
// edits from other processes are included.
func NewExporter(directory ClientDirectory, events EventLogger, now func() time.Time) Exporter {
	if now == nil {
		now = time.Now
	}
	if events == nil {
		events = NopEventLogger{}
	}
	return &jsonExporter{directory: directory, events: events, now: now}
}

func (e *jsonExporter) Export(ctx context.Context, dir string) (string, error) {
	clients, err := e.directory.GetAllClients(ctx)
	if err != nil {
		return "", fmt.Errorf("exporting clients: fetching snapshot: %w", err)
	}

	data, err := json.MarshalIndent(clients, "", "  ")
	if err != nil {
		return "", fmt.Errorf("exporting clients: serializing: %w", err)
	}
	data = append(data, '\n')

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("exporting clients: creating directory: %w", err)
	}

	filename := fmt.Sprintf("clients_%s.json", e.now().Format(DateLayout))
	path := filepath.Join(dir, filename)

	// Write to a temp file and rename so a failed export never leaves a
	// partial snapshot at the final path.
	tmp, err := os.CreateTemp(dir, filename+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("exporting clients: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("exporting clients: writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("exporting clients: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("exporting clients: finalizing snapshot: %w", err)
	}

	_ = e.events.LogEvent("export.completed", map[string]any{
		"path":    path,
		"clients": len(clients),
	})
	return path, nil
}
