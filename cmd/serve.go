package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	serveHost    string
	servePort    int
	serveNoWatch bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the event server",
	Long: `Serve starts the WebSocket event server that notifies editor
collaborators about imports, task transitions, and definition file
changes. The definition directories are watched; a changed design or
schema file is reported but takes effect only after a restart.

Examples:
  caxton serve
  caxton serve --port 9000
  caxton serve --no-watch`,
	RunE: runServeCommand,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "bind port (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "disable the definition directory watcher")
}

func runServeCommand(_ *cobra.Command, _ []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}

	host := application.Config.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := application.Config.Server.Port
	if servePort != 0 {
		port = servePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !serveNoWatch {
		w, err := application.StartWatcher(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	application.Logger.Info(ctx, "Event server listening", "addr", addr)

	if err := application.Events.Serve(ctx, addr); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
