// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the client directory as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/clientdeck/internal/core"
	"github.com/valter-silva-au/clientdeck/internal/observability"
	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// Server wraps clientdeck services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	directory   core.ClientDirectory
	importer    core.Importer
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates a new MCP server with the given service dependencies.
// metricsCalc and alertEngine may be nil if observability is disabled.
func NewServer(directory core.ClientDirectory, importer core.Importer, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		directory:   directory,
		importer:    importer,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "cdk", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on the given transport, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getClientInput struct {
	ClientID string `json:"client_id" jsonschema:"required,the unique client identifier (e.g. CL-1735689600000-x7k2p9)"`
}

type taskOutput struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	SLADate     string `json:"sla_date,omitempty"`
	SLAStatus   string `json:"sla_status"`
}

type clientOutput struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Company string       `json:"company"`
	Origin  string       `json:"origin"`
	Tasks   []taskOutput `json:"tasks"`
}

type searchClientsInput struct {
	Search     string `json:"search,omitempty" jsonschema:"case-insensitive substring match against name, company, origin, or ID"`
	TaskSearch string `json:"task_search,omitempty" jsonschema:"case-insensitive substring match against task descriptions"`
	Status     string `json:"status,omitempty" jsonschema:"task status filter: all, active, pending, in progress, completed, awaiting client"`
	Priority   string `json:"priority,omitempty" jsonschema:"priority filter: all, low, medium, high"`
	SLA        string `json:"sla,omitempty" jsonschema:"SLA bucket filter: all, overdue, due_today, due_this_week, on_track, no_sla"`
}

type searchClientsOutput struct {
	Clients []clientOutput `json:"clients"`
	Count   int            `json:"count"`
}

type importClientsInput struct {
	JSON string `json:"json" jsonschema:"required,a JSON array of client records to import"`
}

type importClientsOutput struct {
	Succeeded int    `json:"succeeded"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Summary   string `json:"summary"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	ClientsImported int    `json:"clients_imported"`
	ClientsCreated  int    `json:"clients_created"`
	ImportRuns      int    `json:"import_runs"`
	ImportFailures  int    `json:"import_failures"`
	ImportSkips     int    `json:"import_skips"`
	Exports         int    `json:"exports"`
	TasksAdded      int    `json:"tasks_added"`
	EventCount      int    `json:"event_count"`
	OldestEvent     string `json:"oldest_event,omitempty"`
	NewestEvent     string `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_client",
		Description: "Get client details by ID. Returns the full client object including its task list with derived SLA buckets.",
	}, s.handleGetClient)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "search_clients",
		Description: "Search and filter the client list. All criteria are combined with AND; omitted criteria match everything.",
	}, s.handleSearchClients)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "import_clients",
		Description: "Bulk-import clients from a JSON array. Duplicates are skipped, bad records are reported, good records are created.",
	}, s.handleImportClients)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log, including import runs, created clients, and exports.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (overdue tasks, tasks due today, recent import failures).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleGetClient(ctx context.Context, _ *gomcp.CallToolRequest, input getClientInput) (*gomcp.CallToolResult, clientOutput, error) {
	if input.ClientID == "" {
		return errorResult("client_id is required"), clientOutput{}, nil
	}

	client, err := s.directory.GetClient(ctx, input.ClientID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting client %s: %s", input.ClientID, err)), clientOutput{}, nil
	}

	return nil, clientToOutput(*client, time.Now()), nil
}

func (s *Server) handleSearchClients(ctx context.Context, _ *gomcp.CallToolRequest, input searchClientsInput) (*gomcp.CallToolResult, searchClientsOutput, error) {
	clients, err := s.directory.GetClients(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("listing clients: %s", err)), searchClientsOutput{}, nil
	}

	now := time.Now()
	matched := core.FilterClients(clients, core.ClientFilter{
		Search:     input.Search,
		TaskSearch: input.TaskSearch,
		Status:     input.Status,
		Priority:   input.Priority,
		SLA:        input.SLA,
	}, now)

	out := searchClientsOutput{
		Clients: make([]clientOutput, len(matched)),
		Count:   len(matched),
	}
	for i, c := range matched {
		out.Clients[i] = clientToOutput(c, now)
	}

	return nil, out, nil
}

func (s *Server) handleImportClients(ctx context.Context, _ *gomcp.CallToolRequest, input importClientsInput) (*gomcp.CallToolResult, importClientsOutput, error) {
	if input.JSON == "" {
		return errorResult("json is required"), importClientsOutput{}, nil
	}

	report, err := s.importer.ImportJSON(ctx, []byte(input.JSON))
	if err != nil && report == nil {
		return errorResult(fmt.Sprintf("importing clients: %s", err)), importClientsOutput{}, nil
	}

	out := importClientsOutput{
		Succeeded: report.Succeeded,
		Skipped:   report.TotalSkipped(),
		Failed:    report.TotalFailed(),
		Summary:   report.Summary(),
	}
	if err != nil {
		out.Summary = fmt.Sprintf("%s\nWarning: %s", out.Summary, err)
	}
	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), metricsOutput{}, nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), metricsOutput{}, nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), metricsOutput{}, nil
	}

	out := metricsOutput{
		ClientsImported: metrics.ClientsImported,
		ClientsCreated:  metrics.ClientsCreated,
		ImportRuns:      metrics.ImportRuns,
		ImportFailures:  metrics.ImportFailures,
		ImportSkips:     metrics.ImportSkips,
		Exports:         metrics.Exports,
		TasksAdded:      metrics.TasksAdded,
		EventCount:      metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (observability may be disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func clientToOutput(c models.Client, now time.Time) clientOutput {
	out := clientOutput{
		ID:      c.ID,
		Name:    c.Name,
		Company: c.Company,
		Origin:  c.Origin,
		Tasks:   make([]taskOutput, len(c.Tasks)),
	}
	for i, t := range c.Tasks {
		out.Tasks[i] = taskOutput{
			Date:        t.Date,
			Description: t.Description,
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			SLADate:     t.SLADate,
			SLAStatus:   string(core.TaskSLAStatus(t, now)),
		}
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
