package lint

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/lincommit/linc/internal/message"
)

// FixPatch returns the auto-fix for raw as patch text suitable for
// review or for applying with a patch tool. Returns "" when the message
// needs no fix or cannot be fixed.
func FixPatch(g *message.Grammar, raw string) string {
	fixed, changed := Fix(g, raw)
	if !changed {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(raw, fixed, false)
	patches := dmp.PatchMake(raw, diffs)
	return dmp.PatchToText(patches)
}

// FixPatchAll renders one labelled patch per fixable message. Messages
// that need no fix are skipped. IDs label each patch block so a multi-commit
// report stays attributable.
func FixPatchAll(g *message.Grammar, ids, raws []string) string {
	var out strings.Builder
	for i, raw := range raws {
		text := FixPatch(g, raw)
		if text == "" {
			continue
		}
		id := ""
		if i < len(ids) {
			id = ids[i]
		}
		fmt.Fprintf(&out, "# fix for %s\n%s\n", id, text)
	}
	return out.String()
}
