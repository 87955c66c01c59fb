package doctor

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/forge-cli/forge/internal/paths"
)

// FixResult describes one attempted repair.
type FixResult struct {
	// Check is the name of the check whose finding was addressed.
	Check string

	// Applied is true when the repair was performed.
	Applied bool

	// Err holds the failure when the repair could not be performed.
	Err error
}

// Fix attempts to repair every fixable finding in the report. Findings that
// need the wizard (missing or inconsistent configuration) are never touched
// here.
func Fix(report *Report) []FixResult {
	var results []FixResult
	for _, r := range report.Results {
		if !r.Fixable {
			continue
		}
		err := fixOne(r)
		results = append(results, FixResult{
			Check:   r.Name,
			Applied: err == nil,
			Err:     err,
		})
	}
	return results
}

func fixOne(r *CheckResult) error {
	switch r.Name {
	case "permissions":
		path, ok := r.Details["path"].(string)
		if !ok {
			return errors.New("finding carries no path")
		}
		return errors.Wrap(os.Chmod(path, maxSecureFilePerm), "tightening permissions")
	case "directories":
		for _, v := range r.Details {
			dir, ok := v.(string)
			if !ok {
				continue
			}
			if err := paths.EnsureDir(dir, 0); err != nil {
				return errors.Wrapf(err, "creating %s", dir)
			}
		}
		return nil
	default:
		return errors.Newf("no repair for check %s", r.Name)
	}
}
