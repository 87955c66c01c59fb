package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/forge-cli/forge/internal/auth"
	"github.com/forge-cli/forge/internal/config"
	"github.com/forge-cli/forge/internal/paths"
	"github.com/forge-cli/forge/internal/redact"
	"github.com/forge-cli/forge/pkg/fileutil"
)

// maxSecureFilePerm is the widest acceptable permission for the artifact.
// It may hold an API token, so group and world bits are a finding.
const maxSecureFilePerm os.FileMode = 0o600

// resolveArtifact returns the artifact path to inspect: the explicit path if
// given, otherwise the first artifact in the default directory.
func resolveArtifact(path string) (string, bool) {
	if path != "" {
		_, err := os.Stat(path)
		return path, err == nil
	}
	return config.Locate()
}

// readArtifact decodes the artifact by its file extension, without touching
// global loader state.
func readArtifact(path string) (*config.File, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, err
	}

	var cfg config.File
	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case config.FormatJSON:
		err = json.Unmarshal(data, &cfg)
	case config.FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ArtifactCheck verifies that a configuration artifact exists and parses.
type ArtifactCheck struct {
	path string
}

var _ Check = (*ArtifactCheck)(nil)

// NewArtifactCheck creates an artifact presence check. An empty path means
// the default location.
func NewArtifactCheck(path string) *ArtifactCheck {
	return &ArtifactCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *ArtifactCheck) Name() string {
	return "artifact"
}

// Category returns the grouping for this check.
func (c *ArtifactCheck) Category() string {
	return "config"
}

// Run executes the artifact diagnostic check.
func (c *ArtifactCheck) Run() *CheckResult {
	path, ok := resolveArtifact(c.path)
	if !ok {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "no configuration found",
			FixHint:  "Run: forge setup",
		}
	}

	cfg, err := readArtifact(path)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("configuration does not parse: %v", err),
			Details:  map[string]any{"path": path},
			FixHint:  "Run: forge setup",
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "configuration found and parses",
		Details: map[string]any{
			"path":    path,
			"version": cfg.Version,
		},
	}
}

// PermissionCheck verifies the artifact is private to the user.
type PermissionCheck struct {
	path string
}

var _ Check = (*PermissionCheck)(nil)

// NewPermissionCheck creates a file permission check.
func NewPermissionCheck(path string) *PermissionCheck {
	return &PermissionCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *PermissionCheck) Name() string {
	return "permissions"
}

// Category returns the grouping for this check.
func (c *PermissionCheck) Category() string {
	return "filesystem"
}

// Run executes the permission diagnostic check.
func (c *PermissionCheck) Run() *CheckResult {
	path, ok := resolveArtifact(c.path)
	if !ok {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "no configuration to inspect",
		}
	}

	if runtime.GOOS == "windows" {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "permission bits not applicable on this platform",
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("cannot stat configuration: %v", err),
			Details:  map[string]any{"path": path},
		}
	}

	perm := info.Mode().Perm()
	if perm&^maxSecureFilePerm != 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  fmt.Sprintf("configuration is readable by others (%04o)", perm),
			Details:  map[string]any{"path": path, "mode": fmt.Sprintf("%04o", perm)},
			Fixable:  true,
			FixHint:  "chmod 600 " + path,
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "configuration is private to the user",
		Details:  map[string]any{"path": path},
	}
}

// ConsistencyCheck re-runs the cross-stage validation on the stored
// artifact, catching files edited by hand since setup.
type ConsistencyCheck struct {
	path string
}

var _ Check = (*ConsistencyCheck)(nil)

// NewConsistencyCheck creates a consistency check.
func NewConsistencyCheck(path string) *ConsistencyCheck {
	return &ConsistencyCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *ConsistencyCheck) Name() string {
	return "consistency"
}

// Category returns the grouping for this check.
func (c *ConsistencyCheck) Category() string {
	return "config"
}

// Run executes the consistency diagnostic check.
func (c *ConsistencyCheck) Run() *CheckResult {
	path, ok := resolveArtifact(c.path)
	if !ok {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "no configuration to validate",
		}
	}

	cfg, err := readArtifact(path)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "skipped, configuration does not parse",
		}
	}

	problems := config.Validate(cfg)
	if len(problems) > 0 {
		details := map[string]any{"path": path}
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Error()
		}
		details["problems"] = msgs
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("configuration has %d consistency problem(s)", len(problems)),
			Details:  details,
			FixHint:  "Run: forge setup",
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "configuration is consistent",
	}
}

// CredentialCheck verifies the stored credential still has the expected
// shape for its provider. Offline only, no API call is made.
type CredentialCheck struct {
	path     string
	verifier auth.Verifier
}

var _ Check = (*CredentialCheck)(nil)

// NewCredentialCheck creates a credential shape check.
func NewCredentialCheck(path string) *CredentialCheck {
	return &CredentialCheck{path: path, verifier: auth.NewShapeVerifier()}
}

// Name returns the unique identifier for this check.
func (c *CredentialCheck) Name() string {
	return "credential"
}

// Category returns the grouping for this check.
func (c *CredentialCheck) Category() string {
	return "auth"
}

// Run executes the credential diagnostic check.
func (c *CredentialCheck) Run() *CheckResult {
	path, ok := resolveArtifact(c.path)
	if !ok {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "no configuration to inspect",
		}
	}

	cfg, err := readArtifact(path)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "skipped, configuration does not parse",
		}
	}

	if !auth.RequiresCredential(cfg.Auth.Provider) {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("provider %s needs no credential", cfg.Auth.Provider),
		}
	}

	if err := c.verifier.VerifyCredential(context.Background(), cfg.Auth.Provider, cfg.Auth.APIToken); err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("stored credential is not usable: %v", err),
			Details: map[string]any{
				"provider": cfg.Auth.Provider,
				"token":    redact.MaskValue(cfg.Auth.APIToken),
			},
			FixHint: "Run: forge setup",
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  fmt.Sprintf("credential for %s looks valid", cfg.Auth.Provider),
	}
}

// DirectoriesCheck verifies the forge directories exist and are writable.
type DirectoriesCheck struct{}

var _ Check = (*DirectoriesCheck)(nil)

// NewDirectoriesCheck creates a directories check.
func NewDirectoriesCheck() *DirectoriesCheck {
	return &DirectoriesCheck{}
}

// Name returns the unique identifier for this check.
func (c *DirectoriesCheck) Name() string {
	return "directories"
}

// Category returns the grouping for this check.
func (c *DirectoriesCheck) Category() string {
	return "filesystem"
}

// Run executes the directories diagnostic check.
func (c *DirectoriesCheck) Run() *CheckResult {
	dirs := map[string]string{
		"config": paths.ConfigDir(),
		"data":   paths.DataDir(),
	}

	missing := map[string]any{}
	for name, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			missing[name] = dir
		}
	}

	if len(missing) > 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  fmt.Sprintf("%d forge directorie(s) missing", len(missing)),
			Details:  missing,
			Fixable:  true,
			FixHint:  "Run: forge doctor --fix",
		}
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "forge directories are in place",
	}
}
