package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/syncmcp/internal/doctor"
	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/platform"
)

var (
	doctorJSON bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair fixable permission problems")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose tool configuration issues",
	Long: `Run diagnostic checks on the MCP config files of every supported tool and
on sync-mcp's own backup and history storage.

Checks which tools have a config, whether each file parses, whether its
servers can be launched, and whether files holding credentials are
readable by other users.

Output modes:
  (default)   Show errors and warnings
  -v          Show all checks including passed ones
  -q          No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  sync-mcp doctor
  sync-mcp doctor --fix
  sync-mcp doctor --json`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if doctorJSON && quiet {
			return errors.NewUserError(errors.New("flags --json and --quiet are mutually exclusive"), "")
		}
		return nil
	},
	RunE: runDoctor,
}

// errDoctorWarnings and errDoctorErrors carry the exit code only; the
// report has already been printed.
var (
	errDoctorWarnings = errors.New("doctor found warnings")
	errDoctorErrors   = errors.New("doctor found errors")
)

func runDoctor(c *cobra.Command, _ []string) error {
	cfg := currentConfig()
	dirs := []string{cfg.BackupDir()}
	if cfg.History.Enabled {
		dirs = append(dirs, filepath.Dir(cfg.HistoryPath()))
	}

	runner := doctor.NewRunner(doctor.DefaultChecks(doctor.Environment{
		Locator:  locator(),
		Registry: platform.DefaultRegistry(),
		Dirs:     dirs,
		LookPath: exec.LookPath,
	})...)

	report := runner.Run()
	w := c.OutOrStdout()

	if doctorFix {
		fixes := applyFixes(runner)
		if !doctorJSON {
			printFixes(w, fixes)
		}
		if len(fixes) > 0 {
			report = runner.Run()
		}
	}

	var err error
	switch {
	case doctorJSON:
		err = printDoctorJSON(w, report)
	case !quiet:
		printDoctorText(w, report, verbosity > 0)
	}
	if err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func applyFixes(r *doctor.Runner) []doctor.FixResult {
	var out []doctor.FixResult
	for _, check := range r.Checks() {
		if f, ok := check.(doctor.Fixer); ok && f.CanFix() {
			out = append(out, f.Fix()...)
		}
	}
	return out
}

func printFixes(w io.Writer, fixes []doctor.FixResult) {
	if quiet {
		return
	}
	for _, f := range fixes {
		if f.Fixed {
			fmt.Fprintf(w, "%s fixed %s: %s\n", successStyle.Sprint("✓"), f.Path, f.Description)
			continue
		}
		fmt.Fprintf(w, "%s could not fix %s: %v\n", warnStyle.Sprint("✗"), f.Path, f.Error)
	}
	if len(fixes) > 0 {
		fmt.Fprintln(w)
	}
}

func printDoctorJSON(w io.Writer, report *doctor.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(report), "encoding JSON")
}

func printDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		printFindings(w, result)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func printFindings(w io.Writer, result *doctor.CheckResult) {
	for _, f := range result.Findings {
		fmt.Fprintf(w, "    %s %s: %s\n", dimStyle.Sprint("-"), f.Subject, f.Message)
	}
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return successStyle.Sprint("✓")
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return warnStyle.Sprint("⚠")
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
