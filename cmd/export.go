package cmd

import (
	"fmt"
	"os"

	"github.com/boazmichaely/JobHuntAI/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your data",
}

var exportPDFCmd = &cobra.Command{
	Use:     "pdf <file>",
	Short:   "Write a PDF audit log of all activities",
	Args:    cobra.ExactArgs(1),
	Example: `  jobhuntai export pdf activity-log.pdf`,
	Run: func(cmd *cobra.Command, args []string) {
		opps, err := application.Store.Opportunities()
		if err != nil {
			fatalf("Error loading opportunities: %v", err)
		}
		acts, err := application.Store.Activities()
		if err != nil {
			fatalf("Error loading activities: %v", err)
		}
		contacts, err := application.Store.Contacts()
		if err != nil {
			fatalf("Error loading contacts: %v", err)
		}

		rows := export.BuildAuditRows(acts, opps, contacts)
		if len(rows) == 0 {
			fmt.Println("No activities to export")
			return
		}

		f, err := os.Create(args[0])
		if err != nil {
			fatalf("Error creating %s: %v", args[0], err)
		}
		defer f.Close()

		if err := export.WritePDF(f, rows); err != nil {
			fatalf("Error writing PDF: %v", err)
		}
		fmt.Printf("✓ Wrote %d activities to %s\n", len(rows), args[0])
	},
}

var exportJSONCmd = &cobra.Command{
	Use:     "json <file>",
	Short:   "Write a JSON snapshot of all data",
	Args:    cobra.ExactArgs(1),
	Example: `  jobhuntai export json backup.json`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := application.Sync.ExportTo(args[0]); err != nil {
			fatalf("Error exporting: %v", err)
		}
		fmt.Printf("✓ Exported to %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportPDFCmd)
	exportCmd.AddCommand(exportJSONCmd)
}
