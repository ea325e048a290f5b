package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// ErrInvalidFormat signals that an import payload is not a top-level JSON
// array. The whole import aborts before any writes.
var ErrInvalidFormat = errors.New("import payload must be a JSON array of client records")

// Importer performs bulk JSON imports into the client directory.
type Importer interface {
	// ImportJSON processes the given JSON document. A malformed document
	// returns an error wrapping ErrInvalidFormat and no report; otherwise
	// every record is attempted and the per-record outcomes are aggregated
	// into the returned report. A non-nil report may accompany a non-nil
	// error when the post-import refresh fails.
	ImportJSON(ctx context.Context, data []byte) (*models.ImportReport, error)
}

// ImporterOpts carries the policy knobs for a clientImporter.
type ImporterOpts struct {
	// DefaultSLADays is the SLA policy applied to synthesized tasks.
	DefaultSLADays int
	// SampleLimit caps quoted entries per report category.
	SampleLimit int
	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

type clientImporter struct {
	directory ClientDirectory
	idGen     ClientIDGenerator
	refresher Refresher
	events    EventLogger
	opts      ImporterOpts
}

// NewImporter creates an Importer over the given directory. refresher is
// signalled exactly once after each batch. events may be NopEventLogger{}.
func NewImporter(directory ClientDirectory, idGen ClientIDGenerator, refresher Refresher, events EventLogger, opts ImporterOpts) Importer {
	if opts.DefaultSLADays <= 0 {
		opts.DefaultSLADays = 7
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if events == nil {
		events = NopEventLogger{}
	}
	return &clientImporter{
		directory: directory,
		idGen:     idGen,
		refresher: refresher,
		events:    events,
		opts:      opts,
	}
}

// clientRecord is the loose shape of one element of the import array.
// Tasks stays raw so a non-array value degrades to an empty task list
// instead of failing the record.
type clientRecord struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Company string          `json:"company"`
	Origin  string          `json:"origin"`
	Tasks   json.RawMessage `json:"tasks"`
}

// taskRecord is the loose shape of one imported task.
type taskRecord struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	SLADate     string `json:"sla_date"`
}

func (im *clientImporter) ImportJSON(ctx context.Context, data []byte) (*models.ImportReport, error) {
	// json.Unmarshal accepts a top-level null into a slice, so the array
	// check has to look at the document itself.
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrInvalidFormat)
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal(data, &rawRecords); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	report := &models.ImportReport{SampleLimit: im.opts.SampleLimit}

	for i, raw := range rawRecords {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("import cancelled after %d record(s): %w", i, err)
		}
		im.importRecord(ctx, i, raw, report)
	}

	_ = im.events.LogEvent("import.completed", map[string]any{
		"records":   len(rawRecords),
		"succeeded": report.Succeeded,
		"skipped":   report.TotalSkipped(),
		"failed":    report.TotalFailed(),
	})

	// One wholesale refresh per batch, whatever the outcomes were.
	if err := im.refresher.Refresh(ctx); err != nil {
		return report, fmt.Errorf("refreshing client list after import: %w", err)
	}
	return report, nil
}

// importRecord processes a single record, appending its outcome to report.
// It never aborts the batch: every failure path records and returns.
func (im *clientImporter) importRecord(ctx context.Context, index int, raw json.RawMessage, report *models.ImportReport) {
	var rec clientRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		report.AddFailure(fmt.Sprintf("record %d: not a client object: %v", index+1, err))
		_ = im.events.LogEvent("import.record_failed", map[string]any{"record": index + 1, "reason": "malformed"})
		return
	}

	if missing := missingClientFields(rec); len(missing) > 0 {
		report.AddFailure(fmt.Sprintf("record %d (%s): missing required field(s): %s",
			index+1, recordLabel(rec), strings.Join(missing, ", ")))
		_ = im.events.LogEvent("import.record_failed", map[string]any{"record": index + 1, "reason": "validation"})
		return
	}

	if rec.ID == "" {
		id, err := im.idGen.GenerateClientID()
		if err != nil {
			report.AddFailure(fmt.Sprintf("record %d (%s): generating ID: %v", index+1, recordLabel(rec), err))
			return
		}
		rec.ID = id
	}

	// Duplicate probe. Only a definitive "not found" clears the way to
	// create; any other lookup failure is reported rather than risking an
	// overwrite attempt against an unhealthy backend.
	_, err := im.directory.GetClient(ctx, rec.ID)
	switch {
	case err == nil:
		report.AddSkip(fmt.Sprintf("%s (%s)", rec.ID, recordLabel(rec)))
		return
	case errors.Is(err, ErrClientNotFound):
		// Proceed to create.
	default:
		report.AddFailure(fmt.Sprintf("record %d (%s): looking up %s: %v", index+1, recordLabel(rec), rec.ID, err))
		_ = im.events.LogEvent("import.record_failed", map[string]any{"record": index + 1, "reason": "lookup"})
		return
	}

	tasks := im.normalizeTasks(rec.Tasks)
	if len(tasks) == 0 {
		tasks = []models.Task{im.defaultTask()}
	}

	client := models.Client{
		ID:      rec.ID,
		Name:    rec.Name,
		Company: rec.Company,
		Origin:  rec.Origin,
	}
	if err := im.directory.CreateClientWithTasks(ctx, client, tasks); err != nil {
		report.AddFailure(fmt.Sprintf("record %d (%s): %v", index+1, recordLabel(rec), err))
		_ = im.events.LogEvent("import.record_failed", map[string]any{"record": index + 1, "reason": "backend"})
		return
	}

	report.AddSuccess()
	_ = im.events.LogEvent("client.imported", map[string]any{"client_id": rec.ID, "tasks": len(tasks)})
}

// normalizeTasks parses the raw tasks value. Absent or non-array values
// degrade to no tasks. Tasks missing any required field are dropped;
// unrecognized status and priority values are coerced, never fatal.
func (im *clientImporter) normalizeTasks(raw json.RawMessage) []models.Task {
	if len(raw) == 0 {
		return nil
	}
	var recs []taskRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil
	}

	var tasks []models.Task
	for _, tr := range recs {
		if tr.Description == "" || tr.Date == "" || tr.Status == "" || tr.Priority == "" {
			continue
		}
		tasks = append(tasks, models.Task{
			Date:        tr.Date,
			Description: tr.Description,
			Status:      models.CoerceStatus(models.TaskStatus(tr.Status)),
			Priority:    models.CoercePriority(models.Priority(tr.Priority)),
			SLADate:     tr.SLADate,
		})
	}
	return tasks
}

// defaultTask synthesizes the single task a client gets when its record
// carried no valid tasks.
func (im *clientImporter) defaultTask() models.Task {
	now := im.opts.Now()
	return models.Task{
		Date:        now.Format(DateLayout),
		Description: "Initial task",
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
		SLADate:     DefaultSLADate(now, im.opts.DefaultSLADays),
	}
}

func missingClientFields(rec clientRecord) []string {
	var missing []string
	if strings.TrimSpace(rec.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(rec.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(rec.Origin) == "" {
		missing = append(missing, "origin")
	}
	return missing
}

// recordLabel identifies a record in report messages by the friendliest
// available handle.
func recordLabel(rec clientRecord) string {
	switch {
	case rec.Name != "":
		return rec.Name
	case rec.Company != "":
		return rec.Company
	case rec.ID != "":
		return rec.ID
	default:
		return "unnamed"
	}
}
