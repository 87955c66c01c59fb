package prompt

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/forge-cli/forge/internal/field"
)

// FuzzyPick opens a fuzzy finder over an enum field's options and returns
// the chosen option token. Aborting the finder returns ErrCancelled.
//
// Only meaningful on a real terminal; callers fall back to Ask when stdin
// is not a TTY.
func FuzzyPick(spec *field.Spec) (string, error) {
	idx, err := fuzzyfinder.Find(
		spec.Options,
		func(i int) string {
			return spec.Options[i].Value
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			o := spec.Options[i]
			return fmt.Sprintf("%s\n\n%s", o.Value, o.Desc)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrCancelled
		}
		return "", errors.Wrap(err, "fuzzy selection failed")
	}

	return spec.Options[idx].Value, nil
}
