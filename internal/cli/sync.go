package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dronakurl/atuin/internal/config"
	"github.com/Dronakurl/atuin/internal/shadow"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	All            bool
	ShouldFishSync bool
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the fish history file with the history database",
		Long: `Reconcile the fish history file with the history database.

Every recent record missing from the fish history file is appended to
it exactly once. Entries the file already has, whether written by this
tool or by fish itself, are left alone.

Example:
  atuin sync --all
  atuin sync --should-fish-sync && atuin sync --all`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "reconcile even when sync_all_on_cli is disabled")
	cmd.Flags().BoolVar(&opts.ShouldFishSync, "should-fish-sync", false, "probe: exit 0 when fish sync should run at shell startup")

	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	settings, err := loadSettings(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	// Probe for shell init scripts: no output, just the exit code.
	if opts.ShouldFishSync {
		if settings.FishSync.Enabled && settings.FishSync.SyncOnStartup {
			return nil
		}
		return NewExitError(ExitFailure, "fish sync on startup is disabled")
	}

	initLogging(opts.RootOptions, settings)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if !settings.FishSync.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Fish sync is disabled.")
		return nil
	}
	if !opts.All && !settings.FishSync.SyncAllOnCLI {
		fmt.Fprintln(cmd.OutOrStdout(), "Fish sync on the CLI is disabled. Use --all to reconcile anyway.")
		return nil
	}

	st, err := openStore(settings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(st)

	formatter.VerboseLog("Reconciling %s", config.ExpandTilde(settings.FishSync.HistoryPath))

	syncer := &shadow.Syncer{Settings: settings.FishSync}
	synced, err := syncer.Reconcile(commandContext(cmd), st)
	if err != nil {
		if opts.Format == "json" {
			_ = formatter.Error(ErrCodeSyncFailed, "fish sync failed", err.Error())
		}
		return WrapExitError(ExitFailure, "fish sync failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]int{"synced": synced})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d entries to fish history.\n", synced)
	return nil
}
