package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/clientdeck/internal/core"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage individual clients (add, show)",
}

var (
	clientAddName    string
	clientAddCompany string
	clientAddOrigin  string
)

var clientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new client",
	Long: `Add a new client with a generated ID.

The client starts with a single default task (pending, medium priority)
whose SLA date follows the configured default SLA policy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ClientMgr == nil {
			return fmt.Errorf("client manager not initialized")
		}

		client, err := ClientMgr.CreateClient(context.Background(), clientAddName, clientAddCompany, clientAddOrigin)
		if err != nil {
			return err
		}

		fmt.Printf("Created client %s\n", client.ID)
		fmt.Printf("  Name:    %s\n", client.Name)
		fmt.Printf("  Company: %s\n", client.Company)
		fmt.Printf("  Origin:  %s\n", client.Origin)
		return nil
	},
}

var clientShowCmd = &cobra.Command{
	Use:   "show <client-id>",
	Short: "Show a client and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ClientMgr == nil {
			return fmt.Errorf("client manager not initialized")
		}

		client, err := ClientMgr.GetClient(context.Background(), args[0])
		if err != nil {
			return err
		}

		now := time.Now()
		fmt.Printf("%s\n", client.ID)
		fmt.Printf("  Name:    %s\n", client.Name)
		fmt.Printf("  Company: %s\n", client.Company)
		fmt.Printf("  Origin:  %s\n", client.Origin)
		fmt.Printf("  Tasks:   %d\n", len(client.Tasks))
		for i, t := range client.Tasks {
			fmt.Printf("  %d. [%s/%s] %s  %s", i, t.Status, t.Priority, t.Date, t.Description)
			if t.SLADate != "" {
				fmt.Printf("  (SLA %s, %s)", t.SLADate, core.TaskSLAStatus(t, now))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	clientAddCmd.Flags().StringVar(&clientAddName, "name", "", "Client name (required)")
	clientAddCmd.Flags().StringVar(&clientAddCompany, "company", "", "Client company (required)")
	clientAddCmd.Flags().StringVar(&clientAddOrigin, "origin", "", "Where the client came from, e.g. web, referral (required)")
	_ = clientAddCmd.MarkFlagRequired("name")
	_ = clientAddCmd.MarkFlagRequired("company")
	_ = clientAddCmd.MarkFlagRequired("origin")

	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientShowCmd)
	rootCmd.AddCommand(clientCmd)
}
