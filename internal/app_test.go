package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/valter-silva-au/clientdeck/internal/core"
)

func TestResolveBasePathEnvOverride(t *testing.T) {
	t.Setenv("CDK_HOME", "/srv/clientdeck")
	if got := ResolveBasePath(); got != "/srv/clientdeck" {
		t.Fatalf("got %q, want CDK_HOME value", got)
	}
}

func TestResolveBasePathWalksUpToConfig(t *testing.T) {
	t.Setenv("CDK_HOME", "")

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".cdkconfig"), []byte("defaults:\n  sla_days: 7\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("creating nested dir: %v", err)
	}
	t.Chdir(nested)

	got := ResolveBasePath()
	// TempDir may sit behind a symlink, so compare resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Fatalf("got %q, want %q", gotResolved, wantResolved)
	}
}

func TestNewAppWiresServices(t *testing.T) {
	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = app.Close() }()

	if app.Importer == nil || app.Exporter == nil || app.ClientMgr == nil || app.Cache == nil {
		t.Fatal("core services not wired")
	}
	if app.EventLog == nil || app.AlertEngine == nil || app.MetricsCalc == nil {
		t.Fatal("observability services not wired")
	}

	// The directory adapter translates absence into the core sentinel.
	_, err = app.Directory.GetClient(context.Background(), "CL-missing")
	if !errors.Is(err, core.ErrClientNotFound) {
		t.Fatalf("expected core.ErrClientNotFound, got %v", err)
	}
}

func TestNewAppImportRoundTrip(t *testing.T) {
	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = app.Close() }()

	data := []byte(`[{"id": "CL-1", "name": "Xavier", "company": "Acme", "origin": "web"}]`)
	report, err := app.Importer.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Succeeded != 1 {
		t.Fatalf("expected 1 success, got %d", report.Succeeded)
	}

	cached, err := app.Cache.Clients(context.Background())
	if err != nil {
		t.Fatalf("reading cache: %v", err)
	}
	if len(cached) != 1 || cached[0].ID != "CL-1" {
		t.Fatalf("cache not refreshed after import: %+v", cached)
	}
}
