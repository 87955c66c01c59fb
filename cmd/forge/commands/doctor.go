package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forge-cli/forge/internal/doctor"
	forgeerrors "github.com/forge-cli/forge/internal/errors"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
	doctorConfig  string
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"attempt to repair fixable findings")
	doctorCmd.Flags().StringVar(&doctorConfig, "config", "",
		"inspect a specific configuration file")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the forge installation.

Verifies the configuration exists, parses, and is internally consistent,
that credentials still look valid, that the artifact is private to the
user, and that the forge directories are in place.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if doctorQuiet {
		count++
	}
	if doctorVerbose {
		count++
	}

	if count > 1 {
		return errors.New("flags --json, --quiet, and --verbose are mutually exclusive")
	}

	return nil
}

func runDoctor(c *cobra.Command, _ []string) error {
	runner := doctor.DefaultRunner(doctorConfig)
	report := runner.Run()

	if doctorFix {
		fixes := doctor.Fix(report)
		for _, f := range fixes {
			if f.Err != nil {
				fmt.Fprintf(c.OutOrStdout(), "could not fix %s: %v\n", f.Check, f.Err)
			} else if !doctorQuiet {
				fmt.Fprintf(c.OutOrStdout(), "fixed %s\n", f.Check)
			}
		}
		// Findings may have changed; report the state after repair.
		report = runner.Run()
	}

	if err := outputDoctorReport(c, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return forgeerrors.NewExitError(errDoctorErrors, forgeerrors.ExitSystem)
	}
	if report.HasWarnings() {
		return forgeerrors.NewExitError(errDoctorWarnings, forgeerrors.ExitUser)
	}
	return nil
}

func outputDoctorReport(c *cobra.Command, report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		enc := json.NewEncoder(c.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	}

	return outputDoctorText(c, report)
}

func outputDoctorText(c *cobra.Command, report *doctor.Report) error {
	// In normal mode, show only errors and warnings
	// In verbose mode, show all checks
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		if !showAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		fmt.Fprintf(c.OutOrStdout(), "%s [%s] %s: %s\n",
			statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && (result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning) {
			fmt.Fprintf(c.OutOrStdout(), "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(c.OutOrStdout())
	}

	fmt.Fprintf(c.OutOrStdout(), "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)

	return nil
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("warnings found")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("errors found")
