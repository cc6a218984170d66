package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/boazmichaely/JobHuntAI/internal/app"
	"github.com/spf13/cobra"
)

// application is the shared dependency container, set up once per
// invocation by the root command's PersistentPreRunE.
var application *app.App

var rootCmd = &cobra.Command{
	Use:   "jobhuntai",
	Short: "AI-assisted job search tracker CLI",
	Long: `JobHuntAI is a local-first CLI that tracks job opportunities, logged
activities and contacts. It can sync everything to a JSON file of your
choosing, export a PDF audit log, and turn freeform notes into structured
records with an AI smart log.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if application = app.GetAppFromContext(cmd.Context()); application != nil {
			return nil
		}
		var err error
		application, err = app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		if theme, err := application.Store.Theme(); err == nil {
			applyTheme(theme)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()

	// Close flushes a pending debounced sync write before exit.
	if application != nil {
		application.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
