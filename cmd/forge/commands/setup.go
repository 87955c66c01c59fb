package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/forge-cli/forge/internal/auth"
	"github.com/forge-cli/forge/internal/backup"
	"github.com/forge-cli/forge/internal/cli"
	"github.com/forge-cli/forge/internal/config"
	forgeerrors "github.com/forge-cli/forge/internal/errors"
	"github.com/forge-cli/forge/internal/logging"
	"github.com/forge-cli/forge/internal/stage"
	"github.com/forge-cli/forge/internal/tui"
	"github.com/forge-cli/forge/internal/wizard"
)

var (
	setupPlain bool
	setupYes   bool
	setupFuzzy bool
	setupForce bool
)

func init() {
	setupCmd.Flags().BoolVar(&setupPlain, "plain", false,
		"use simple line-based prompts instead of the full-screen interface")
	setupCmd.Flags().BoolVarP(&setupYes, "yes", "y", false,
		"accept derived defaults without prompting (implies --plain)")
	setupCmd.Flags().BoolVar(&setupFuzzy, "fuzzy", false,
		"pick options with a fuzzy finder (implies --plain)")
	setupCmd.Flags().BoolVarP(&setupForce, "force", "f", false,
		"run even if a configuration already exists")
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Walk through the guided configuration wizard",
	Long: `Configure forge interactively: use case, provider credentials, model
routing, persistence, and environment.

Answers are validated as they are entered and later stages suggest
defaults derived from earlier answers. Use the review screen to change
any answer before saving; nothing is written until you confirm it.

The wizard refuses to run over an existing configuration unless --force
is given.`,
	Example: `  # Full-screen wizard
  forge setup

  # Line-based prompts, e.g. over SSH without a full terminal
  forge setup --plain

  # Reconfigure from scratch
  forge setup --force`,
	RunE: runSetup,
}

func runSetup(c *cobra.Command, _ []string) error {
	log := logging.FromContext(c.Context())

	if path, ok := config.Locate(); ok {
		if !setupForce {
			return forgeerrors.NewUserError(
				errors.Newf("configuration already exists at %s", path),
				"Run: forge setup --force",
			)
		}
		// Snapshot the existing artifact so a forced rerun is recoverable.
		manifest, err := backup.NewManager().Snapshot(path)
		if err != nil {
			return errors.Wrap(err, "snapshotting existing configuration")
		}
		log.Debug("snapshotted existing configuration",
			"path", path, "snapshot", manifest.ID)
	}

	store := config.NewFileStore("")
	session := wizard.NewSession(stage.New(auth.NewShapeVerifier()), store,
		wizard.WithLogger(log))

	cfg, err := runFrontEnd(c, session, log)
	if err != nil {
		if errors.Is(err, forgeerrors.ErrAborted) {
			fmt.Fprintln(c.OutOrStdout(), "Setup aborted, nothing was written.")
			return nil
		}
		return err
	}

	fmt.Fprintf(c.OutOrStdout(), "Configuration written to %s\n", store.Path(cfg))
	return nil
}

func runFrontEnd(c *cobra.Command, session *wizard.Session, log *slog.Logger) (*config.File, error) {
	ctx := c.Context()

	if setupYes || setupFuzzy {
		setupPlain = true
	}
	if !setupPlain && !logging.IsTTY(os.Stdout) {
		log.Debug("stdout is not a terminal, falling back to plain prompts")
		setupPlain = true
	}

	if setupPlain {
		runner := cli.NewRunner(session,
			cli.WithOutput(c.OutOrStdout()),
			cli.WithAcceptDefaults(setupYes),
			cli.WithFuzzy(setupFuzzy),
			cli.WithLogger(log),
		)
		return runner.Run(ctx)
	}
	return tui.Run(ctx, session)
}
