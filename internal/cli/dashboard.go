package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/clientdeck/internal/core"
	"github.com/valter-silva-au/clientdeck/pkg/models"
)

// Dashboard panel indices.
const (
	panelClients = iota
	panelSLA
	panelAlerts
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	statusCounts map[string]int
	slaCounts    map[string]int
	clientTotal  int
	alerts       []alertSnapshot

	// State.
	loading bool
	err     error
}

type alertSnapshot struct {
	severity string
	message  string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	statusCounts map[string]int
	slaCounts    map[string]int
	clientTotal  int
	alerts       []alertSnapshot
	err          error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	statusPendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDoneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusAwaitingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))

	slaOverdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	slaDueTodayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	slaDueWeekStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	slaOnTrackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	slaNoneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel:  panelClients,
		loading:      true,
		statusCounts: make(map[string]int),
		slaCounts:    make(map[string]int),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadDashboardData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadDashboardData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusCounts = msg.statusCounts
		m.slaCounts = msg.slaCounts
		m.clientTotal = msg.clientTotal
		m.alerts = msg.alerts
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" cdk Dashboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	clientsPanel := m.renderClientsPanel()
	slaPanel := m.renderSLAPanel()
	alertsPanel := m.renderAlertsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		clientsPanel = m.applyPanelStyle(panelClients, clientsPanel, colWidth-4)
		slaPanel = m.applyPanelStyle(panelSLA, slaPanel, colWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, clientsPanel, slaPanel, alertsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		clientsPanel = m.applyPanelStyle(panelClients, clientsPanel, panelWidth)
		slaPanel = m.applyPanelStyle(panelSLA, slaPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, clientsPanel, slaPanel, alertsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderClientsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tasks by status"))
	b.WriteString("\n")

	if m.clientTotal == 0 {
		b.WriteString("  No clients found.")
		return b.String()
	}

	order := []string{
		string(models.StatusPending),
		string(models.StatusInProgress),
		string(models.StatusAwaitingClient),
		string(models.StatusCompleted),
	}
	for _, status := range order {
		count, ok := m.statusCounts[status]
		if !ok || count == 0 {
			continue
		}
		label := fmt.Sprintf("  %-16s %d", status, count)
		b.WriteString(styleForStatus(status).Render(label))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  Clients: %d", m.clientTotal))

	return b.String()
}

func (m dashboardModel) renderSLAPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("SLA buckets"))
	b.WriteString("\n")

	if m.clientTotal == 0 {
		b.WriteString("  No tasks tracked.")
		return b.String()
	}

	order := []string{
		string(models.SLAOverdue),
		string(models.SLADueToday),
		string(models.SLADueThisWeek),
		string(models.SLAOnTrack),
		string(models.SLANone),
	}
	for _, bucket := range order {
		count, ok := m.slaCounts[bucket]
		if !ok || count == 0 {
			continue
		}
		label := fmt.Sprintf("  %-16s %d", bucket, count)
		b.WriteString(styleForSLA(bucket).Render(label))
		b.WriteString("\n")
	}

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range m.alerts {
		sev := styleForSeverity(a.severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(a.severity)))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, a.message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))

	return b.String()
}

func styleForStatus(status string) lipgloss.Style {
	switch status {
	case string(models.StatusPending):
		return statusPendingStyle
	case string(models.StatusInProgress):
		return statusProgressStyle
	case string(models.StatusCompleted):
		return statusDoneStyle
	case string(models.StatusAwaitingClient):
		return statusAwaitingStyle
	default:
		return lipgloss.NewStyle()
	}
}

func styleForSLA(bucket string) lipgloss.Style {
	switch bucket {
	case string(models.SLAOverdue):
		return slaOverdueStyle
	case string(models.SLADueToday):
		return slaDueTodayStyle
	case string(models.SLADueThisWeek):
		return slaDueWeekStyle
	case string(models.SLAOnTrack):
		return slaOnTrackStyle
	case string(models.SLANone):
		return slaNoneStyle
	default:
		return lipgloss.NewStyle()
	}
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadDashboardData() tea.Msg {
	result := dataLoadedMsg{
		statusCounts: make(map[string]int),
		slaCounts:    make(map[string]int),
	}

	if Cache != nil {
		if err := Cache.Refresh(context.Background()); err != nil {
			result.err = fmt.Errorf("refreshing clients: %w", err)
			return result
		}
		clients, err := Cache.Clients(context.Background())
		if err != nil {
			result.err = fmt.Errorf("loading clients: %w", err)
			return result
		}
		now := time.Now()
		result.clientTotal = len(clients)
		for _, c := range clients {
			for _, t := range c.Tasks {
				result.statusCounts[string(t.Status)]++
				result.slaCounts[string(core.TaskSLAStatus(t, now))]++
			}
		}
	}

	if AlertEngine != nil {
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			result.err = fmt.Errorf("evaluating alerts: %w", err)
			return result
		}
		for _, a := range alerts {
			result.alerts = append(result.alerts, alertSnapshot{
				severity: string(a.Severity),
				message:  a.Message,
			})
		}
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive terminal dashboard",
	Long: `Open an interactive terminal dashboard with three panels: task counts by
status, task counts by SLA bucket, and active alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
