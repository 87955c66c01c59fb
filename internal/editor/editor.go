// Package editor launches the user's preferred text editor for hand editing
// the configuration artifact.
package editor

import (
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// Open launches the user's editor on the given file and blocks until the
// editor exits.
func Open(path string) error {
	editor := detectEditor()
	if editor == "" {
		return errors.New("no editor found, set $EDITOR or $VISUAL")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running %s", editor)
	}
	return nil
}

// detectEditor resolves the editor to use: $EDITOR, then $VISUAL, then the
// first of nano or vi found on PATH.
func detectEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	for _, candidate := range []string{"nano", "vi"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
