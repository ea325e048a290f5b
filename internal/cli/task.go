package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/clientdeck/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage client tasks (add, status)",
}

var (
	taskAddDescription string
	taskAddDate        string
	taskAddStatus      string
	taskAddPriority    string
	taskAddSLADate     string
)

var taskAddCmd = &cobra.Command{
	Use:   "add <client-id>",
	Short: "Add a task to a client",
	Long: `Add a task to an existing client.

The date defaults to today and the SLA date to the configured default SLA
policy. Unrecognized status or priority values are coerced to pending and
medium, matching import behavior.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ClientMgr == nil {
			return fmt.Errorf("client manager not initialized")
		}

		task := models.Task{
			Description: taskAddDescription,
			Date:        taskAddDate,
			Status:      models.TaskStatus(taskAddStatus),
			Priority:    models.Priority(taskAddPriority),
			SLADate:     taskAddSLADate,
		}
		if err := ClientMgr.AddTask(context.Background(), args[0], task); err != nil {
			return err
		}

		fmt.Printf("Added task to client %s\n", args[0])
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <client-id> <task-index> <status>",
	Short: "Set the status of a client's task",
	Long: `Set the status of a task identified by its zero-based index within the
client's task list, as shown by "cdk client show".`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ClientMgr == nil {
			return fmt.Errorf("client manager not initialized")
		}

		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("parsing task index %q: %w", args[1], err)
		}

		status := models.TaskStatus(args[2])
		if err := ClientMgr.SetTaskStatus(context.Background(), args[0], index, status); err != nil {
			return err
		}

		fmt.Printf("Set task %d of client %s to %s\n", index, args[0], status)
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskAddDescription, "description", "", "Task description (required)")
	taskAddCmd.Flags().StringVar(&taskAddDate, "date", "", "Task date, YYYY-MM-DD (default: today)")
	taskAddCmd.Flags().StringVar(&taskAddStatus, "status", string(models.StatusPending), "Task status")
	taskAddCmd.Flags().StringVar(&taskAddPriority, "priority", string(models.PriorityMedium), "Task priority")
	taskAddCmd.Flags().StringVar(&taskAddSLADate, "sla-date", "", "SLA deadline, YYYY-MM-DD (default: policy)")
	_ = taskAddCmd.MarkFlagRequired("description")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskStatusCmd)
	rootCmd.AddCommand(taskCmd)
}
