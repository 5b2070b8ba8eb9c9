package convention

// builtinVerbs is the builtin past-tense vocabulary. Each verb maps to the
// version increment a commit using it implies.
var builtinVerbs = map[string]Increment{
	// Breaking changes
	"Changed": IncrementMajor,

	// New features and capabilities
	"Added":       IncrementMinor,
	"Created":     IncrementMinor,
	"Enhanced":    IncrementMinor,
	"Implemented": IncrementMinor,

	// Fixes and maintenance
	"Bumped":     IncrementPatch,
	"Configured": IncrementPatch,
	"Deprecated": IncrementPatch,
	"Disabled":   IncrementPatch,
	"Downgraded": IncrementPatch,
	"Enabled":    IncrementPatch,
	"Fixed":      IncrementPatch,
	"Improved":   IncrementPatch,
	"Integrated": IncrementPatch,
	"Merged":     IncrementPatch,
	"Migrated":   IncrementPatch,
	"Optimized":  IncrementPatch,
	"Refactored": IncrementPatch,
	"Released":   IncrementPatch,
	"Removed":    IncrementPatch,
	"Resolved":   IncrementPatch,
	"Reverted":   IncrementPatch,
	"Tested":     IncrementPatch,
	"Updated":    IncrementPatch,
	"Upgraded":   IncrementPatch,
	"Validated":  IncrementPatch,

	// No version impact
	"Commented":   IncrementNone,
	"Documented":  IncrementNone,
	"Formatted":   IncrementNone,
	"Reorganized": IncrementNone,
	"Replaced":    IncrementNone,
	"Styled":      IncrementNone,
}

// SectionTitle returns the prompt/changelog section heading for an increment.
func SectionTitle(inc Increment) string {
	switch inc {
	case IncrementMajor:
		return "── Breaking Changes (Major) ──"
	case IncrementMinor:
		return "── New Features (Minor) ──"
	case IncrementPatch:
		return "── Fixes & Maintenance (Patch) ──"
	default:
		return "── Other Changes ──"
	}
}

// ImpactDescription returns the one-line impact blurb shown beside a verb.
func ImpactDescription(inc Increment) string {
	switch inc {
	case IncrementMajor:
		return "Breaking change"
	case IncrementMinor:
		return "New feature/capability"
	case IncrementPatch:
		return "Bug fix/improvement"
	default:
		return "No version impact"
	}
}
