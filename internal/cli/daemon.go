package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dronakurl/atuin/internal/daemon"
)

// NewDaemonCommand creates the daemon command.
func NewDaemonCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the background fish sync daemon",
		Long: `Run the background fish sync daemon.

The daemon reconciles the fish history file on startup, on the
configured cron schedule, and whenever the file is replaced or removed
from outside, for instance by fish rewriting its own history.

Example:
  atuin daemon
  atuin daemon --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(rootOpts, cmd)
		},
	}

	return cmd
}

func runDaemon(opts *RootOptions, cmd *cobra.Command) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	initLogging(opts, settings)

	slog.Info("opening database", "path", settings.DBPath)
	st, err := openStore(settings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(st)

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	d := daemon.New(daemon.Config{
		Settings: settings,
		Store:    st,
	})

	fmt.Fprintln(cmd.OutOrStdout(), "Daemon started. Press Ctrl-C to stop.")

	if err := d.Run(ctx); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return WrapExitError(ExitFailure, "daemon error", err)
	}

	slog.Info("daemon stopped gracefully")
	return nil
}
