package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/boazmichaely/JobHuntAI/internal/config"
	"github.com/boazmichaely/JobHuntAI/internal/filesync"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Connect your data to a JSON file",
	Long: `Sync keeps the local database and a JSON snapshot file in agreement.
Connecting to a file reconciles the two sides: an empty database adopts
the file silently, while existing local data always prompts you to choose
a side. With --live, later changes are written back to the file after a
short debounce.`,
}

var syncConnectCmd = &cobra.Command{
	Use:   "connect <file>",
	Short: "Connect to a snapshot file",
	Args:  cobra.ExactArgs(1),
	Example: `  jobhuntai sync connect ~/jobs.json
  jobhuntai sync connect ~/jobs.json --live
  jobhuntai sync connect ~/jobs.json --live --keep-local`,
	Run: func(cmd *cobra.Command, args []string) {
		live, _ := cmd.Flags().GetBool("live")
		keepLocal, _ := cmd.Flags().GetBool("keep-local")
		importFile, _ := cmd.Flags().GetBool("import")

		if keepLocal && importFile {
			fmt.Println("--keep-local and --import are mutually exclusive")
			return
		}

		state, err := application.Sync.Connect(args[0], live)
		if err != nil {
			fatalf("Error connecting: %v", err)
		}

		if state == filesync.StateAwaitingChoice {
			switch {
			case keepLocal:
				state, err = application.Sync.Resolve(filesync.KeepLocal)
			case importFile:
				state, err = application.Sync.Resolve(filesync.ImportFile)
			default:
				state = resolveConflict(application.Sync)
			}
			if err != nil {
				fatalf("Error resolving: %v", err)
			}
		}

		switch state {
		case filesync.StateConverged:
			persistSyncConfig(application.Sync.Path(), live)
			mode := "snapshot"
			if live {
				mode = "live"
			}
			fmt.Printf("✓ Connected to %s (%s)\n", application.Sync.Path(), mode)
		case filesync.StateUnconnected:
			persistSyncConfig("", false)
			fmt.Println("Not connected")
		}
	},
}

// resolveConflict prompts for a side when both the store and the file
// hold data, then applies the choice.
func resolveConflict(engine *filesync.Engine) filesync.State {
	local, file := engine.ConflictStats()
	fmt.Println(titleStyle.Render("Both sides have data"))
	fmt.Printf("%s %d opportunities, %d activities\n",
		labelStyle.Render("Local:"), local.Opportunities, local.Activities)
	fmt.Printf("%s %d opportunities, %d activities\n",
		labelStyle.Render("File: "), file.Opportunities, file.Activities)
	fmt.Println()
	fmt.Println("  [k] Keep local data")
	fmt.Println("  [i] Import the file (replaces local data)")
	fmt.Println("  [c] Cancel")
	fmt.Print("Choice [k/i/c]: ")

	var answer string
	fmt.Scanln(&answer)

	choice := filesync.CancelConnect
	switch answer {
	case "k", "K":
		choice = filesync.KeepLocal
	case "i", "I":
		choice = filesync.ImportFile
	}

	state, err := engine.Resolve(choice)
	if err != nil {
		fatalf("Error resolving: %v", err)
	}
	return state
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync connection",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(titleStyle.Render("Sync Status"))
		if application.Sync.State() == filesync.StateUnconnected {
			fmt.Println("Not connected")
			return
		}
		fmt.Printf("%s %s\n", labelStyle.Render("File:"), valueStyle.Render(application.Sync.Path()))
		mode := "snapshot"
		if application.Sync.Live() {
			mode = "live"
		}
		fmt.Printf("%s %s\n", labelStyle.Render("Mode:"), valueStyle.Render(mode))
	},
}

var syncDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect from the snapshot file",
	Run: func(cmd *cobra.Command, args []string) {
		application.Sync.Disconnect()
		persistSyncConfig("", false)
		fmt.Println("✓ Disconnected")
	},
}

var syncImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a snapshot file, replacing local data",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !confirm("This replaces all local data. Continue?") {
			fmt.Println("Cancelled")
			return
		}
		state, err := application.Sync.Connect(args[0], false)
		if err != nil {
			fatalf("Error reading %s: %v", args[0], err)
		}
		if state == filesync.StateAwaitingChoice {
			if _, err := application.Sync.Resolve(filesync.ImportFile); err != nil {
				fatalf("Error importing: %v", err)
			}
		}
		application.Sync.Disconnect()
		fmt.Printf("✓ Imported %s\n", args[0])
	},
}

var syncExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write a snapshot of local data to a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := application.Sync.ExportTo(args[0]); err != nil {
			fatalf("Error exporting: %v", err)
		}
		fmt.Printf("✓ Exported to %s\n", args[0])
	},
}

var syncWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the connected file for outside edits",
	Long: `Watch keeps running and picks up edits made to the connected file by
other tools. Changes that originate from this process are ignored. Stop
with Ctrl-C.`,
	Run: func(cmd *cobra.Command, args []string) {
		if application.Sync.State() == filesync.StateUnconnected {
			fmt.Println("Not connected. Run: jobhuntai sync connect <file>")
			return
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", application.Sync.Path())
		err := application.Sync.Watch(ctx, func(state filesync.State) {
			switch state {
			case filesync.StateConverged:
				fmt.Println("✓ File changed, data updated")
			case filesync.StateAwaitingChoice:
				resolveConflict(application.Sync)
			}
		})
		if err != nil && ctx.Err() == nil {
			fatalf("Watch error: %v", err)
		}
	},
}

func persistSyncConfig(path string, live bool) {
	if err := config.Set("sync_file", path); err != nil {
		fmt.Printf("Warning: could not save sync settings: %v\n", err)
		return
	}
	if err := config.Set("sync_live", live); err != nil {
		fmt.Printf("Warning: could not save sync settings: %v\n", err)
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncConnectCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncDisconnectCmd)
	syncCmd.AddCommand(syncImportCmd)
	syncCmd.AddCommand(syncExportCmd)
	syncCmd.AddCommand(syncWatchCmd)

	syncConnectCmd.Flags().Bool("live", false, "Write local changes back to the file")
	syncConnectCmd.Flags().Bool("keep-local", false, "On conflict, keep local data without prompting")
	syncConnectCmd.Flags().Bool("import", false, "On conflict, import the file without prompting")
}
