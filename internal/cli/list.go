package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/clientdeck/internal/core"
)

var listFilter core.ClientFilter

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients, optionally filtered",
	Long: `List clients from the in-memory view with optional filters.

All filters combine with AND. Search terms match case-insensitively;
--search covers name, company, origin, and ID, while --task-search covers
task descriptions. --from and --to bound task dates (YYYY-MM-DD,
inclusive); a client passes when any of its tasks falls in range.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Cache == nil {
			return fmt.Errorf("client cache not initialized")
		}

		clients, err := Cache.Clients(context.Background())
		if err != nil {
			return fmt.Errorf("loading clients: %w", err)
		}

		now := time.Now()
		filtered := core.FilterClients(clients, listFilter, now)

		if len(filtered) == 0 {
			fmt.Println("No clients match.")
			return nil
		}

		for _, c := range filtered {
			fmt.Printf("%s  %s (%s, via %s)\n", c.ID, c.Name, c.Company, c.Origin)
			for _, t := range c.Tasks {
				sla := core.TaskSLAStatus(t, now)
				fmt.Printf("    [%s/%s] %s  %s", t.Status, t.Priority, t.Date, t.Description)
				if t.SLADate != "" {
					fmt.Printf("  (SLA %s, %s)", t.SLADate, sla)
				}
				fmt.Println()
			}
		}
		fmt.Printf("\n%d client(s)\n", len(filtered))
		return nil
	},
}

// completeStatuses returns valid status filter values for shell completion.
func completeStatuses(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"all\tNo status filter",
		"active\tAny pending or in-progress task",
		"pending", "in progress", "completed", "awaiting client",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completePriorities returns valid priority filter values for shell completion.
func completePriorities(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"all", "low", "medium", "high"}, cobra.ShellCompDirectiveNoFileComp
}

// completeSLABuckets returns valid SLA bucket values for shell completion.
func completeSLABuckets(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"all", "overdue", "due_today", "due_this_week", "on_track", "no_sla"}, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	listCmd.Flags().StringVar(&listFilter.Search, "search", "", "Match name, company, origin, or ID")
	listCmd.Flags().StringVar(&listFilter.TaskSearch, "task-search", "", "Match task descriptions")
	listCmd.Flags().StringVar(&listFilter.Status, "status", "all", "Task status filter (all, active, or an explicit status)")
	listCmd.Flags().StringVar(&listFilter.Priority, "priority", "all", "Priority filter (all, low, medium, high)")
	listCmd.Flags().StringVar(&listFilter.SLA, "sla", "all", "SLA bucket filter (all, overdue, due_today, due_this_week, on_track, no_sla)")
	listCmd.Flags().StringVar(&listFilter.DateFrom, "from", "", "Earliest task date, YYYY-MM-DD (inclusive)")
	listCmd.Flags().StringVar(&listFilter.DateTo, "to", "", "Latest task date, YYYY-MM-DD (inclusive)")

	_ = listCmd.RegisterFlagCompletionFunc("status", completeStatuses)
	_ = listCmd.RegisterFlagCompletionFunc("priority", completePriorities)
	_ = listCmd.RegisterFlagCompletionFunc("sla", completeSLABuckets)

	rootCmd.AddCommand(listCmd)
}
