package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dronakurl/atuin/internal/history"
	"github.com/Dronakurl/atuin/internal/shadow"
	"github.com/Dronakurl/atuin/internal/store"
)

// NewHistoryCommand creates the history command group.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the shell history database",
	}

	cmd.AddCommand(newHistoryAddCommand(rootOpts))
	cmd.AddCommand(newHistoryListCommand(rootOpts))
	cmd.AddCommand(newHistorySearchCommand(rootOpts))
	cmd.AddCommand(newHistoryDeleteCommand(rootOpts))

	return cmd
}

// HistoryAddOptions holds flags for the history add command.
type HistoryAddOptions struct {
	*RootOptions
	Exit     int
	Duration int64
	Cwd      string
	Session  string
	Hostname string
}

func newHistoryAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add [flags] -- <command>...",
		Short: "Record a command in the history database",
		Long: `Record a command in the history database.

When fish sync is enabled the record is also appended to the fish
history file. A mirror failure is logged but never fails the write:
the database is the source of truth.

Example:
  atuin history add --exit 0 -- git status
  atuin history add --duration 2500000000 -- make test`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyAdd(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Exit, "exit", 0, "exit code of the command")
	cmd.Flags().Int64Var(&opts.Duration, "duration", 0, "duration of the command in nanoseconds")
	cmd.Flags().StringVar(&opts.Cwd, "cwd", "", "working directory (default: current directory)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (default: $ATUIN_SESSION)")
	cmd.Flags().StringVar(&opts.Hostname, "hostname", "", "hostname (default: system hostname)")

	return cmd
}

func historyAdd(opts *HistoryAddOptions, args []string, cmd *cobra.Command) error {
	settings, err := loadSettings(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	initLogging(opts.RootOptions, settings)

	cwd := opts.Cwd
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	session := opts.Session
	if session == "" {
		session = os.Getenv("ATUIN_SESSION")
	}
	hostname := opts.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}

	rec := history.New(strings.Join(args, " "), cwd, session, hostname)
	rec.Exit = opts.Exit
	rec.Duration = opts.Duration

	st, err := openStore(settings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(st)

	if err := st.Save(commandContext(cmd), rec); err != nil {
		return WrapExitError(ExitCommandError, "failed to save history record", err)
	}

	syncer := &shadow.Syncer{Settings: settings.FishSync}
	if err := syncer.SyncOne(rec); err != nil {
		slog.Warn("failed to sync entry to fish", "id", rec.ID, "error", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
	return nil
}

// HistoryListOptions holds flags for the history list command.
type HistoryListOptions struct {
	*RootOptions
	Session string
	Cwd     string
	Limit   int
}

func newHistoryListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List history records, oldest first",
		Long: `List history records, oldest first.

Example:
  atuin history list --limit 20
  atuin history list --session $ATUIN_SESSION --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "only records from this session")
	cmd.Flags().StringVar(&opts.Cwd, "cwd", "", "only records from this directory")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of records (0 = all)")

	return cmd
}

func historyList(opts *HistoryListOptions, cmd *cobra.Command) error {
	settings, err := loadSettings(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	initLogging(opts.RootOptions, settings)

	st, err := openStore(settings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(st)

	recs, err := st.List(commandContext(cmd), store.Filter{
		Session: opts.Session,
		Cwd:     opts.Cwd,
		Limit:   opts.Limit,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list history", err)
	}

	return printRecords(opts.RootOptions, cmd, recs)
}

// HistorySearchOptions holds flags for the history search command.
type HistorySearchOptions struct {
	*RootOptions
	Limit int
}

func newHistorySearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistorySearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <prefix>",
		Short: "Search history by command prefix, newest first",
		Long: `Search history by command prefix, newest first.

Example:
  atuin history search "git c"
  atuin history search make --limit 5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return historySearch(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum number of results (0 = all)")

	return cmd
}

func historySearch(opts *HistorySearchOptions, query string, cmd *cobra.Command) error {
	settings, err := loadSettings(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	initLogging(opts.RootOptions, settings)

	st, err := openStore(settings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(st)

	recs, err := st.Search(commandContext(cmd), query, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to search history", err)
	}

	return printRecords(opts.RootOptions, cmd, recs)
}

func newHistoryDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Tombstone a history record",
		Long: `Tombstone a history record.

The row is kept with a deletion timestamp rather than removed, so the
id stays claimed and a later import cannot resurrect the record.

Example:
  atuin history delete 0195f0f4-9d2c-7000-8000-0123456789ab`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyDelete(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func historyDelete(opts *RootOptions, id string, cmd *cobra.Command) error {
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

	if err := st.Delete(commandContext(cmd), id, time.Now().Unix()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewExitError(ExitFailure, fmt.Sprintf("no history record with id %s", id))
		}
		return WrapExitError(ExitCommandError, "failed to delete history record", err)
	}
	return nil
}

// printRecords renders records as timestamp-tab-command lines, or as a
// JSON array when --format json is set.
func printRecords(opts *RootOptions, cmd *cobra.Command, recs []history.Record) error {
	if opts.Format == "json" {
		formatter := &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		}
		return formatter.Success(recs)
	}

	for _, rec := range recs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.Timestamp.Format(time.RFC3339), rec.Command)
	}
	return nil
}
