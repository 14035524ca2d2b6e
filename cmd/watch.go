package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the definition directories for changes",
	Long: `Watch observes the design and schema definition directories and
reports changed files. Loaded registries are immutable, so a change is
logged as restart-required rather than applied live.

Examples:
  caxton watch`,
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchCommand(_ *cobra.Command, _ []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := application.StartWatcher(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	application.Logger.Info(ctx, "Watching definition directories",
		"designs", application.Config.Definitions.DesignsDir,
		"schemas", application.Config.Definitions.SchemasDir,
	)

	<-ctx.Done()

	return nil
}
