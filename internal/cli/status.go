package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dronakurl/atuin/internal/config"
	"github.com/Dronakurl/atuin/internal/shadow"
)

// StatusReport summarizes the primary store and the fish mirror.
type StatusReport struct {
	DBPath        string `json:"db_path"`
	HistoryCount  int    `json:"history_count"`
	FishEnabled   bool   `json:"fish_enabled"`
	FishPath      string `json:"fish_path"`
	FishEntries   int    `json:"fish_entries"`
	SyncedEntries int    `json:"synced_entries"`
	LastTimestamp *int64 `json:"last_timestamp,omitempty"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show history database and fish sync status",
		Long: `Show history database and fish sync status.

Example:
  atuin status
  atuin status --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}

	return cmd
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	initLogging(opts, settings)

	st, err := openStore(settings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(st)

	count, err := st.Count(commandContext(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count history", err)
	}

	report := StatusReport{
		DBPath:       config.ExpandTilde(settings.DBPath),
		HistoryCount: count,
		FishEnabled:  settings.FishSync.Enabled,
		FishPath:     config.ExpandTilde(settings.FishSync.HistoryPath),
	}

	report.FishEntries, err = shadow.CountEntries(report.FishPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read fish history", err)
	}

	ids, err := shadow.SyncedIDs(report.FishPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read fish history", err)
	}
	report.SyncedEntries = len(ids)

	ts, ok, err := shadow.LastTimestamp(report.FishPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read fish history", err)
	}
	if ok {
		report.LastTimestamp = &ts
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Database:     %s (%d records)\n", report.DBPath, report.HistoryCount)
	fmt.Fprintf(w, "Fish sync:    %s\n", enabledWord(report.FishEnabled))
	fmt.Fprintf(w, "Fish history: %s (%d entries, %d synced)\n", report.FishPath, report.FishEntries, report.SyncedEntries)
	if report.LastTimestamp != nil {
		fmt.Fprintf(w, "Last entry:   %s\n", time.Unix(*report.LastTimestamp, 0).UTC().Format(time.RFC3339))
	}
	return nil
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
