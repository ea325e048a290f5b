package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// memDirectory is an in-memory ClientDirectory for tests. It records create
// calls and can be primed to fail lookups or creates.
type memDirectory struct {
	clients map[string]models.Client
	order   []string

	createCalls int
	lookupErr   error // returned by GetClient for non-missing IDs too
	createErr   error
}

func newMemDirectory() *memDirectory {
	return &memDirectory{clients: make(map[string]models.Client)}
}

func (d *memDirectory) GetClients(_ context.Context) ([]models.Client, error) {
	out := make([]models.Client, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.clients[id])
	}
	return out, nil
}

func (d *memDirectory) GetClient(_ context.Context, id string) (*models.Client, error) {
	if d.lookupErr != nil {
		return nil, d.lookupErr
	}
	c, ok := d.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, ErrClientNotFound)
	}
	return &c, nil
}

func (d *memDirectory) GetAllClients(ctx context.Context) ([]models.Client, error) {
	return d.GetClients(ctx)
}

func (d *memDirectory) CreateClientWithTasks(_ context.Context, client models.Client, tasks []models.Task) error {
	d.createCalls++
	if d.createErr != nil {
		return d.createErr
	}
	if _, exists := d.clients[client.ID]; exists {
		return fmt.Errorf("client %s already exists", client.ID)
	}
	client.Tasks = tasks
	d.clients[client.ID] = client
	d.order = append(d.order, client.ID)
	return nil
}

func (d *memDirectory) UpdateClient(_ context.Context, client models.Client) error {
	if _, exists := d.clients[client.ID]; !exists {
		return fmt.Errorf("client %s: %w", client.ID, ErrClientNotFound)
	}
	d.clients[client.ID] = client
	return nil
}

// countingRefresher counts Refresh calls.
type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) Refresh(_ context.Context) error {
	r.calls++
	return r.err
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestImporter(dir *memDirectory, refresher *countingRefresher) Importer {
	return NewImporter(dir, NewClientIDGenerator(), refresher, NopEventLogger{}, ImporterOpts{
		DefaultSLADays: 7,
		Now:            fixedNow,
	})
}

func TestImportJSON_AllValidRecords(t *testing.T) {
	dir := newMemDirectory()
	refresher := &countingRefresher{}
	im := newTestImporter(dir, refresher)

	data := []byte(`[
		{"id": "CL-1", "name": "Xavier", "company": "Acme", "origin": "web",
		 "tasks": [{"date": "2026-03-01", "description": "Kickoff call", "status": "pending", "priority": "high"}]},
		{"id": "CL-2", "name": "Bob", "company": "Globex", "origin": "referral",
		 "tasks": [{"date": "2026-03-02", "description": "Send proposal", "status": "completed", "priority": "low"}]}
	]`)

	report, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 2 {
		t.Fatalf("expected 2 successes, got %d", report.Succeeded)
	}
	if report.TotalSkipped() != 0 || report.TotalFailed() != 0 {
		t.Fatalf("expected no skips or failures, got %d/%d", report.TotalSkipped(), report.TotalFailed())
	}
	if dir.createCalls != 2 {
		t.Fatalf("expected 2 create calls, got %d", dir.createCalls)
	}
}

func TestImportJSON_NotAnArray(t *testing.T) {
	dir := newMemDirectory()
	refresher := &countingRefresher{}
	im := newTestImporter(dir, refresher)

	for _, payload := range []string{
		`{"name": "Xavier"}`,
		`"just a string"`,
		`null`,
		`not json at all`,
	} {
		report, err := im.ImportJSON(context.Background(), []byte(payload))
		if !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("payload %q: expected ErrInvalidFormat, got %v", payload, err)
		}
		if report != nil {
			t.Fatalf("payload %q: expected nil report on format error", payload)
		}
	}

	if dir.createCalls != 0 {
		t.Fatalf("expected no create calls on format errors, got %d", dir.createCalls)
	}
	if refresher.calls != 0 {
		t.Fatalf("expected no refresh on format errors, got %d", refresher.calls)
	}
}

func TestImportJSON_MissingRequiredFields(t *testing.T) {
	dir := newMemDirectory()
	im := newTestImporter(dir, &countingRefresher{})

	data := []byte(`[
		{"name": "", "company": "Acme", "origin": "web"},
		{"name": "Valid", "company": "Globex", "origin": "web"},
		{"company": "Initech"}
	]`)

	report, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 1 {
		t.Fatalf("expected 1 success, got %d", report.Succeeded)
	}
	if report.TotalFailed() != 2 {
		t.Fatalf("expected 2 failures, got %d", report.TotalFailed())
	}
	if !strings.Contains(report.Failed[0], "name") {
		t.Fatalf("expected first failure to name the missing field, got %q", report.Failed[0])
	}
	if !strings.Contains(report.Failed[1], "name") || !strings.Contains(report.Failed[1], "origin") {
		t.Fatalf("expected second failure to list name and origin, got %q", report.Failed[1])
	}
}

func TestImportJSON_DuplicateSkippedWithoutCreate(t *testing.T) {
	dir := newMemDirectory()
	existing := models.Client{ID: "CL-1", Name: "Xavier", Company: "Acme", Origin: "web"}
	if err := dir.CreateClientWithTasks(context.Background(), existing, nil); err != nil {
		t.Fatalf("seeding directory: %v", err)
	}
	dir.createCalls = 0

	im := newTestImporter(dir, &countingRefresher{})
	data := []byte(`[{"id": "CL-1", "name": "Xavier Updated", "company": "Acme", "origin": "web"}]`)

	report, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 0 || report.TotalSkipped() != 1 {
		t.Fatalf("expected 0 successes and 1 skip, got %d/%d", report.Succeeded, report.TotalSkipped())
	}
	if dir.createCalls != 0 {
		t.Fatalf("expected no create call for duplicate, got %d", dir.createCalls)
	}
	// Non-destructive: the stored client is untouched.
	got, _ := dir.GetClient(context.Background(), "CL-1")
	if got.Name != "Xavier" {
		t.Fatalf("expected existing client untouched, got name %q", got.Name)
	}
}

func TestImportJSON_Idempotence(t *testing.T) {
	dir := newMemDirectory()
	im := newTestImporter(dir, &countingRefresher{})

	data := []byte(`[
		{"id": "CL-1", "name": "Xavier", "company": "Acme", "origin": "web"},
		{"id": "CL-2", "name": "Bob", "company": "Globex", "origin": "web"}
	]`)

	first, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Succeeded != 2 {
		t.Fatalf("expected 2 successes on first import, got %d", first.Succeeded)
	}

	second, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Succeeded != 0 || second.TotalSkipped() != 2 {
		t.Fatalf("expected 0 successes and 2 skips on re-import, got %d/%d",
			second.Succeeded, second.TotalSkipped())
	}
}

func TestImportJSON_InvalidTasksDropped(t *testing.T) {
	dir := newMemDirectory()
	im := newTestImporter(dir, &countingRefresher{})

	data := []byte(`[
		{"id": "CL-1", "name": "Xavier", "company": "Acme", "origin": "web", "tasks": [
			{"date": "2026-03-01", "description": "Valid", "status": "pending", "priority": "high"},
			{"date": "2026-03-01", "description": "", "status": "pending", "priority": "high"},
			{"date": "", "description": "No date", "status": "pending", "priority": "high"},
			{"date": "2026-03-01", "description": "No status", "priority": "high"},
			{"date": "2026-03-01", "description": "No priority", "status": "pending"}
		]}
	]`)

	if _, err := im.ImportJSON(context.Background(), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := dir.GetClient(context.Background(), "CL-1")
	if len(got.Tasks) != 1 {
		t.Fatalf("expected 1 surviving task, got %d", len(got.Tasks))
	}
	if got.Tasks[0].Description != "Valid" {
		t.Fatalf("expected the valid task to survive, got %q", got.Tasks[0].Description)
	}
}

func TestImportJSON_EnumCoercion(t *testing.T) {
	dir := newMemDirectory()
	im := newTestImporter(dir, &countingRefresher{})

	data := []byte(`[
		{"id": "CL-1", "name": "Xavier", "company": "Acme", "origin": "web", "tasks": [
			{"date": "2026-03-01", "description": "Weird enums", "status": "doing stuff", "priority": "urgent"}
		]}
	]`)

	if _, err := im.ImportJSON(context.Background(), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := dir.GetClient(context.Background(), "CL-1")
	if got.Tasks[0].Status != models.StatusPending {
		t.Fatalf("expected coerced status pending, got %q", got.Tasks[0].Status)
	}
	if got.Tasks[0].Priority != models.PriorityMedium {
		t.Fatalf("expected coerced priority medium, got %q", got.Tasks[0].Priority)
	}
}

func TestImportJSON_SynthesizesDefaultTask(t *testing.T) {
	dir := newMemDirectory()
	im := newTestImporter(dir, &countingRefresher{})

	cases := []struct {
		name string
		data string
	}{
		{"no tasks key", `[{"id": "CL-1", "name": "A", "company": "X", "origin": "web"}]`},
		{"tasks not an array", `[{"id": "CL-2", "name": "B", "company": "X", "origin": "web", "tasks": "oops"}]`},
		{"all tasks invalid", `[{"id": "CL-3", "name": "C", "company": "X", "origin": "web", "tasks": [{"description": "no date"}]}]`},
	}

	for _, tc := range cases {
		if _, err := im.ImportJSON(context.Background(), []byte(tc.data)); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}

	for _, id := range []string{"CL-1", "CL-2", "CL-3"} {
		got, err := dir.GetClient(context.Background(), id)
		if err != nil {
			t.Fatalf("client %s not created: %v", id, err)
		}
		if len(got.Tasks) != 1 {
			t.Fatalf("client %s: expected exactly 1 synthesized task, got %d", id, len(got.Tasks))
		}
		task := got.Tasks[0]
		if task.Description != "Initial task" {
			t.Fatalf("client %s: expected description %q, got %q", id, "Initial task", task.Description)
		}
		if task.Status != models.StatusPending || task.Priority != models.PriorityMedium {
			t.Fatalf("client %s: expected pending/medium, got %s/%s", id, task.Status, task.Priority)
		}
		if task.Date != "2026-03-10" {
			t.Fatalf("client %s: expected task date 2026-03-10, got %q", id, task.Date)
		}
		if task.SLADate != "2026-03-17" {
			t.Fatalf("client %s: expected SLA date 2026-03-17, got %q", id, task.SLADate)
		}
	}
}

func TestImportJSON_GeneratesIDWhenAbsent(t *testing.T) {
	dir := newMemDirectory()
	im := newTestImporter(dir, &countingRefresher{})

	data := []byte(`[{"name": "A", "company": "X", "origin": "web"}]`)
	report, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 1 {
		t.Fatalf("expected 1 success, got %d", report.Succeeded)
	}

	clients, _ := dir.GetClients(context.Background())
	if len(clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(clients))
	}
	if !IsGeneratedClientID(clients[0].ID) {
		t.Fatalf("expected generated CL ID, got %q", clients[0].ID)
	}
}

func TestImportJSON_LookupErrorIsFailureNotCreate(t *testing.T) {
	dir := newMemDirectory()
	dir.lookupErr = errors.New("backend unreachable")
	im := newTestImporter(dir, &countingRefresher{})

	data := []byte(`[{"id": "CL-1", "name": "A", "company": "X", "origin": "web"}]`)
	report, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalFailed() != 1 {
		t.Fatalf("expected 1 failure for lookup error, got %d", report.TotalFailed())
	}
	if dir.createCalls != 0 {
		t.Fatalf("expected no create after failed lookup, got %d", dir.createCalls)
	}
}

func TestImportJSON_BackendErrorCaptured(t *testing.T) {
	dir := newMemDirectory()
	dir.createErr = errors.New("quota exceeded")
	im := newTestImporter(dir, &countingRefresher{})

	data := []byte(`[{"id": "CL-1", "name": "A", "company": "X", "origin": "web"}]`)
	report, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalFailed() != 1 {
		t.Fatalf("expected 1 failure, got %d", report.TotalFailed())
	}
	if !strings.Contains(report.Failed[0], "quota exceeded") {
		t.Fatalf("expected captured backend message, got %q", report.Failed[0])
	}
}

func TestImportJSON_RefreshesExactlyOnce(t *testing.T) {
	dir := newMemDirectory()
	refresher := &countingRefresher{}
	im := newTestImporter(dir, refresher)

	data := []byte(`[
		{"id": "CL-1", "name": "A", "company": "X", "origin": "web"},
		{"name": "", "company": "", "origin": ""},
		{"id": "CL-1", "name": "A", "company": "X", "origin": "web"}
	]`)

	if _, err := im.ImportJSON(context.Background(), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected exactly 1 refresh, got %d", refresher.calls)
	}
}

func TestImportJSON_MalformedRecordContinues(t *testing.T) {
	dir := newMemDirectory()
	im := newTestImporter(dir, &countingRefresher{})

	data := []byte(`[42, {"id": "CL-1", "name": "A", "company": "X", "origin": "web"}]`)
	report, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 1 || report.TotalFailed() != 1 {
		t.Fatalf("expected 1 success and 1 failure, got %d/%d", report.Succeeded, report.TotalFailed())
	}
}

func TestImportJSON_EmptyArray(t *testing.T) {
	dir := newMemDirectory()
	refresher := &countingRefresher{}
	im := newTestImporter(dir, refresher)

	report, err := im.ImportJSON(context.Background(), []byte(`[]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary() != "Import completed with no changes." {
		t.Fatalf("expected no-changes summary, got %q", report.Summary())
	}
	if refresher.calls != 1 {
		t.Fatalf("expected 1 refresh even for an empty batch, got %d", refresher.calls)
	}
}

func TestImportJSON_ReportSampleOverflow(t *testing.T) {
	dir := newMemDirectory()
	for i := 0; i < 8; i++ {
		c := models.Client{ID: fmt.Sprintf("CL-%d", i), Name: "N", Company: "C", Origin: "web"}
		if err := dir.CreateClientWithTasks(context.Background(), c, nil); err != nil {
			t.Fatalf("seeding directory: %v", err)
		}
	}
	im := newTestImporter(dir, &countingRefresher{})

	var records []string
	for i := 0; i < 8; i++ {
		records = append(records, fmt.Sprintf(`{"id": "CL-%d", "name": "N", "company": "C", "origin": "web"}`, i))
	}
	data := []byte("[" + strings.Join(records, ",") + "]")

	report, err := im.ImportJSON(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Skipped) != 5 {
		t.Fatalf("expected 5 quoted skips, got %d", len(report.Skipped))
	}
	if report.SkippedOverflow != 3 {
		t.Fatalf("expected 3 overflow skips, got %d", report.SkippedOverflow)
	}
	if !strings.Contains(report.Summary(), "and 3 more") {
		t.Fatalf("expected overflow note in summary, got %q", report.Summary())
	}
}
