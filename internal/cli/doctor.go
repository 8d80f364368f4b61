package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dronakurl/atuin/internal/config"
	"github.com/Dronakurl/atuin/internal/shadow"
)

// CheckResult is the outcome of a single doctor check.
type CheckResult struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration and environment",
		Long: `Check the configuration and environment.

Validates the config file against its schema, probes for the fish
shell, and verifies the history database opens. Exits non-zero when
any check fails.

Example:
  atuin doctor
  atuin doctor --config ./config.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(rootOpts, cmd)
		},
	}

	return cmd
}

func runDoctor(opts *RootOptions, cmd *cobra.Command) error {
	results := runChecks(opts)

	failed := 0
	for _, res := range results {
		if !res.OK {
			failed++
		}
	}

	if opts.Format == "json" {
		return outputDoctorJSON(cmd.OutOrStdout(), results, failed)
	}

	w := cmd.OutOrStdout()
	for _, res := range results {
		mark := paint(w, ansiGreen, "ok")
		if !res.OK {
			mark = paint(w, ansiRed, "FAIL")
		}
		if res.Message != "" {
			fmt.Fprintf(w, "%s\t%s: %s\n", mark, res.Name, res.Message)
		} else {
			fmt.Fprintf(w, "%s\t%s\n", mark, res.Name)
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d check(s) failed", failed))
	}
	return nil
}

// outputDoctorJSON emits the check results, wrapping failures in an
// error envelope so JSON consumers see the status without parsing the
// result list.
func outputDoctorJSON(w io.Writer, results []CheckResult, failed int) error {
	if failed == 0 {
		formatter := &OutputFormatter{Format: "json", Writer: w}
		return formatter.Success(results)
	}

	message := fmt.Sprintf("%d check(s) failed", failed)
	response := CLIResponse{
		Status: "error",
		Data:   results,
		Error: &CLIError{
			Code:    ErrCodeChecksFailed,
			Message: message,
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		return err
	}
	return NewExitError(ExitFailure, message)
}

// runChecks executes the doctor checks in order. A config that fails to
// load short-circuits the checks that need settings.
func runChecks(opts *RootOptions) []CheckResult {
	var results []CheckResult

	path := configPath(opts)
	settings, err := config.Load(path)
	if err != nil {
		results = append(results, CheckResult{Name: "config", Message: err.Error()})
		return results
	}
	results = append(results, CheckResult{Name: "config", OK: true, Message: path})

	problems, err := config.ValidateFile(path)
	switch {
	case err != nil:
		results = append(results, CheckResult{Name: "config schema", Message: err.Error()})
	case len(problems) > 0:
		results = append(results, CheckResult{Name: "config schema", Message: problems[0].String()})
	default:
		results = append(results, CheckResult{Name: "config schema", OK: true})
	}

	if shadow.FishInstalled() {
		results = append(results, CheckResult{Name: "fish shell", OK: true})
	} else {
		results = append(results, CheckResult{Name: "fish shell", Message: "fish not found in PATH"})
	}

	if st, err := openStore(settings); err != nil {
		results = append(results, CheckResult{Name: "database", Message: err.Error()})
	} else {
		closeStore(st)
		results = append(results, CheckResult{Name: "database", OK: true, Message: config.ExpandTilde(settings.DBPath)})
	}

	fishPath := config.ExpandTilde(settings.FishSync.HistoryPath)
	if _, err := os.Stat(fishPath); err == nil {
		results = append(results, CheckResult{Name: "fish history file", OK: true, Message: fishPath})
	} else if errors.Is(err, fs.ErrNotExist) {
		results = append(results, CheckResult{Name: "fish history file", OK: true, Message: "absent, created on first sync"})
	} else {
		results = append(results, CheckResult{Name: "fish history file", Message: err.Error()})
	}

	return results
}
