package bump

import (
	"fmt"
	"os"
	"strings"
)

// VersionFile is one file whose version strings are rewritten on bump.
// With a Hint, only lines containing it are touched.
type VersionFile struct {
	Path string
	Hint string
}

// RewriteVersionFiles replaces current with next in every configured
// file and returns the paths that actually changed. Files are written
// back only when a replacement happened.
func RewriteVersionFiles(files []VersionFile, current, next string) ([]string, error) {
	if current == next {
		return nil, nil
	}

	var changed []string
	for _, vf := range files {
		data, err := os.ReadFile(vf.Path)
		if err != nil {
			return changed, fmt.Errorf("version file %s: %w", vf.Path, err)
		}

		out, n := rewrite(string(data), vf.Hint, current, next)
		if n == 0 {
			continue
		}

		info, err := os.Stat(vf.Path)
		if err != nil {
			return changed, fmt.Errorf("version file %s: %w", vf.Path, err)
		}
		if err := os.WriteFile(vf.Path, []byte(out), info.Mode().Perm()); err != nil {
			return changed, fmt.Errorf("version file %s: %w", vf.Path, err)
		}
		changed = append(changed, vf.Path)
	}
	return changed, nil
}

// rewrite replaces current with next on matching lines and reports how
// many lines changed.
func rewrite(content, hint, current, next string) (string, int) {
	lines := strings.Split(content, "\n")
	n := 0
	for i, line := range lines {
		if hint != "" && !strings.Contains(line, hint) {
			continue
		}
		if !strings.Contains(line, current) {
			continue
		}
		lines[i] = strings.ReplaceAll(line, current, next)
		n++
	}
	return strings.Join(lines, "\n"), n
}
