// Package hook installs and removes the commit-msg hook that routes
// messages through `linc check`.
package hook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// hookTypeCommitMsg is the git hook this tool manages.
const hookTypeCommitMsg = "commit-msg"

// marker identifies a hook script written by this tool. Install and
// Uninstall refuse to touch scripts without it unless forced.
const marker = "# installed by linc"

const script = `#!/bin/sh
` + marker + `
exec linc check --commit-msg-file "$1"
`

// Path returns the commit-msg hook path for the repository rooted at
// topLevel.
func Path(topLevel string) string {
	return filepath.Join(topLevel, ".git", "hooks", hookTypeCommitMsg)
}

// Installed reports whether our hook script is present.
func Installed(topLevel string) bool {
	data, err := os.ReadFile(Path(topLevel))
	if err != nil {
		return false
	}
	return strings.Contains(string(data), marker)
}

// Install writes the commit-msg hook. An existing hook written by
// another tool is left alone unless force is set.
func Install(topLevel string, force bool) (string, error) {
	path := Path(topLevel)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if !strings.Contains(string(data), marker) && !force {
			return "", fmt.Errorf("hook %s exists and was not installed by linc (use --force to replace)", path)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Nothing to preserve.
	default:
		return "", fmt.Errorf("reading hook %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating hooks dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return "", fmt.Errorf("writing hook %s: %w", path, err)
	}
	return path, nil
}

// Uninstall removes the hook if this tool installed it. Removing a
// foreign hook requires force.
func Uninstall(topLevel string, force bool) error {
	path := Path(topLevel)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading hook %s: %w", path, err)
	}
	if !strings.Contains(string(data), marker) && !force {
		return fmt.Errorf("hook %s was not installed by linc (use --force to remove)", path)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing hook %s: %w", path, err)
	}
	return nil
}

// StripComments removes comment lines and everything after the scissors
// line from a commit message file's content, the way git does before
// recording the message.
func StripComments(raw string) string {
	const scissors = "# ------------------------ >8 ------------------------"

	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == scissors {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
