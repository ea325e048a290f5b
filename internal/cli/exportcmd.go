package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportOutDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all clients to a dated JSON snapshot",
	Long: `Export the full client list to a JSON file named clients_<YYYY-MM-DD>.json.

The snapshot is fetched fresh from the store, not from the in-memory list,
so it always reflects the complete current state. Nothing is written if the
export fails partway.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Export == nil {
			return fmt.Errorf("exporter not initialized")
		}

		dir := exportOutDir
		if dir == "" {
			dir = ExportDir
		}

		path, err := Export.Export(context.Background(), dir)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Printf("Exported clients to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "Output directory (default: configured export dir or current directory)")
	rootCmd.AddCommand(exportCmd)
}
