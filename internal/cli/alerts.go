package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var alertsNotify bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active SLA alerts",
	Long: `Evaluate alert conditions and display any triggered alerts.

Alerts cover clients with overdue tasks, tasks due today, an oversized
overdue backlog, and recent import failures.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized (observability may be disabled)")
		}

		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			return fmt.Errorf("evaluating alerts: %w", err)
		}

		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return nil
		}

		fmt.Printf("%d active alert(s):\n\n", len(alerts))
		for _, alert := range alerts {
			severity := strings.ToUpper(string(alert.Severity))
			fmt.Printf("  [%s] %s\n", severity, alert.Message)
			fmt.Printf("         triggered at %s\n\n", alert.TriggeredAt.Format("2006-01-02 15:04 UTC"))
		}

		if alertsNotify && Notifier != nil {
			if err := Notifier.Notify(alerts); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: sending alert notification: %v\n", err)
			}
		}

		return nil
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Send triggered alerts to the configured webhook")
	rootCmd.AddCommand(alertsCmd)
}
