package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cockroachdb/errors"

	"github.com/forge-cli/forge/internal/backup"
	"github.com/forge-cli/forge/internal/config"
	"github.com/forge-cli/forge/internal/editor"
	forgeerrors "github.com/forge-cli/forge/internal/errors"
	"github.com/forge-cli/forge/internal/redact"
)

var configFormat string

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "",
		"re-encode the output (yaml, json, or toml; default: stored format)")
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the saved forge configuration",
	Long: `Print the saved configuration in its stored format, or re-encoded
with --format. The API token is masked; the stored file keeps the real
value.

Without a saved configuration this fails and points at 'forge setup'.`,
	Example: `  # Show the configuration
  forge config

  # Show where it is stored
  forge config path

  # Hand edit it (snapshots first)
  forge config edit

See Also: forge setup, forge doctor`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in your editor",
	Long: `Open the saved configuration in $EDITOR (falling back to $VISUAL,
nano, or vi). A snapshot of the file is taken first so a bad edit can
be recovered.

After the editor exits the file is re-read and checked; problems are
reported but the edit is kept as written.`,
	RunE: runConfigEdit,
}

func runConfigShow(c *cobra.Command, _ []string) error {
	path, ok := config.Locate()
	if !ok {
		return forgeerrors.NewUserError(
			errors.New("no configuration found"),
			"Run: forge setup",
		)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return forgeerrors.NewConfigError(err)
	}

	// Copy so masking never touches the loaded struct.
	masked := *cfg
	if masked.Auth.APIToken != "" {
		masked.Auth.APIToken = redact.MaskValue(masked.Auth.APIToken)
	}

	format := configFormat
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
		if format == "yml" {
			format = config.FormatYAML
		}
	}

	var data []byte
	switch format {
	case config.FormatYAML:
		data, err = yaml.Marshal(&masked)
	case config.FormatJSON:
		data, err = json.MarshalIndent(&masked, "", "  ")
		data = append(data, '\n')
	case config.FormatTOML:
		data, err = toml.Marshal(&masked)
	default:
		return forgeerrors.NewUserError(
			errors.Newf("unknown format %q", format),
			"Use one of: yaml, json, toml",
		)
	}
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	fmt.Fprint(c.OutOrStdout(), string(data))
	return nil
}

func runConfigEdit(c *cobra.Command, _ []string) error {
	path, ok := config.Locate()
	if !ok {
		return forgeerrors.NewUserError(
			errors.New("no configuration found"),
			"Run: forge setup",
		)
	}

	if _, err := backup.NewManager().Snapshot(path); err != nil {
		return errors.Wrap(err, "snapshotting configuration before edit")
	}

	if err := editor.Open(path); err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return forgeerrors.NewConfigError(
			errors.Wrap(err, "configuration no longer parses after edit"))
	}
	if problems := config.Validate(cfg); len(problems) > 0 {
		fmt.Fprintln(c.OutOrStdout(), "Saved, but the configuration has problems:")
		for _, p := range problems {
			fmt.Fprintf(c.OutOrStdout(), "  - %v\n", p)
		}
		fmt.Fprintln(c.OutOrStdout(), "Run 'forge doctor' for details.")
	}
	return nil
}

func runConfigPath(c *cobra.Command, _ []string) error {
	path, ok := config.Locate()
	if !ok {
		return forgeerrors.NewUserError(
			errors.New("no configuration found"),
			"Run: forge setup",
		)
	}
	fmt.Fprintln(c.OutOrStdout(), path)
	return nil
}
