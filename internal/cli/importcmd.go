package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/clientdeck/internal/core"
)

var importNotify bool

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Bulk-import clients from a JSON file",
	Long: `Import clients from a JSON file containing a top-level array of client
records.

Each record needs name, company, and origin; records missing any of them are
reported as failures without stopping the rest of the batch. Records whose ID
already exists are skipped, never overwritten. Tasks missing required fields
are dropped; unrecognized status or priority values are coerced to pending
and medium. A record left with no valid tasks gets a single default task.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Import == nil {
			return fmt.Errorf("importer not initialized")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading import file: %w", err)
		}

		report, err := Import.ImportJSON(context.Background(), data)
		if err != nil && report == nil {
			if errors.Is(err, core.ErrInvalidFormat) {
				return fmt.Errorf("import aborted: %w", err)
			}
			return fmt.Errorf("importing clients: %w", err)
		}

		summary := report.Summary()
		fmt.Println(summary)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		if importNotify && Notifier != nil {
			if nerr := Notifier.NotifySummary("cdk Import Report", summary); nerr != nil {
				fmt.Fprintf(os.Stderr, "Warning: sending import notification: %v\n", nerr)
			}
		}

		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importNotify, "notify", false, "Send the import summary to the configured webhook")
	rootCmd.AddCommand(importCmd)
}
