// Package bump derives semantic-version increments from commit messages
// and plans version bumps across commit ranges.
package bump

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/lincommit/linc/internal/convention"
	"github.com/lincommit/linc/internal/message"
)

// Source identifies what determined a commit's increment.
type Source string

const (
	// SourceOverride means a [bump:] directive set the increment.
	SourceOverride Source = "override"
	// SourceVerb means the increment was inferred from the commit verb.
	SourceVerb Source = "verb"
	// SourceNone means the commit matched neither and contributes nothing.
	SourceNone Source = "none"
)

// Resolve returns the increment a single message contributes. A manual
// [bump:] directive supersedes verb inference, including [bump:none],
// which silences the verb entirely. A commit with no directive and no
// recognised verb contributes IncrementNone.
func Resolve(cat *convention.Catalog, m message.Message) (convention.Increment, Source) {
	if m.HasOverride() {
		return m.Override, SourceOverride
	}
	if inc, ok := cat.Lookup(m.Verb); ok {
		return inc, SourceVerb
	}
	return convention.IncrementNone, SourceNone
}

// ResolveAll resolves every message and returns the highest increment.
// An empty set yields IncrementNone.
func ResolveAll(cat *convention.Catalog, msgs []message.Message) convention.Increment {
	incs := make([]convention.Increment, 0, len(msgs))
	for _, m := range msgs {
		inc, _ := Resolve(cat, m)
		incs = append(incs, inc)
	}
	return convention.MaxIncrement(incs)
}

// Next computes the version that applying inc to current yields. A leading
// "v" on current is tolerated and stripped; the result is always bare.
// IncrementNone returns current (normalised) unchanged.
func Next(current string, inc convention.Increment) (string, error) {
	v, err := semver.NewVersion(current)
	if err != nil {
		return "", fmt.Errorf("parsing version %q: %w", current, err)
	}

	var next semver.Version
	switch inc {
	case convention.IncrementMajor:
		next = v.IncMajor()
	case convention.IncrementMinor:
		next = v.IncMinor()
	case convention.IncrementPatch:
		next = v.IncPatch()
	case convention.IncrementNone:
		next = *v
	default:
		return "", fmt.Errorf("unknown increment %q", inc)
	}
	return next.String(), nil
}

// Change records what one commit contributed to a plan.
type Change struct {
	Hash      string               `json:"hash,omitempty"`
	Subject   string               `json:"subject"`
	Increment convention.Increment `json:"increment"`
	Source    Source               `json:"source"`
}

// Plan is a computed version bump: the increment across a commit range,
// the resulting version, and the per-commit contributions behind it.
type Plan struct {
	CurrentVersion string               `json:"current_version"`
	NewVersion     string               `json:"new_version"`
	Increment      convention.Increment `json:"increment"`
	TagName        string               `json:"tag_name,omitempty"`
	Message        string               `json:"message,omitempty"`
	Changes        []Change             `json:"changes"`
}

// Input is one commit considered for version calculation.
type Input struct {
	Hash    string
	Message string // full commit message
}

// Options configure plan construction.
type Options struct {
	// TagPrefix is prepended to the new version to form the tag name,
	// e.g. "v" yields "v1.3.0".
	TagPrefix string
	// MessageTemplate is the bump commit message. {current} and {new}
	// expand to the old and new versions.
	MessageTemplate string
}

// DefaultMessageTemplate is the bump commit message used when the
// configuration does not set one.
const DefaultMessageTemplate = "bump: version {current} → {new}"

// BuildPlan resolves every input against the grammar, reduces to the
// highest increment, and computes the new version. The plan is complete
// even when nothing bumps; callers decide how to treat IncrementNone.
func BuildPlan(g *message.Grammar, current string, opts Options, inputs []Input) (*Plan, error) {
	if opts.MessageTemplate == "" {
		opts.MessageTemplate = DefaultMessageTemplate
	}

	plan := &Plan{
		CurrentVersion: current,
		Increment:      convention.IncrementNone,
		Changes:        make([]Change, 0, len(inputs)),
	}

	for _, in := range inputs {
		m := g.Parse(in.Message)
		inc, src := Resolve(g.Catalog(), m)
		plan.Changes = append(plan.Changes, Change{
			Hash:      in.Hash,
			Subject:   m.Subject,
			Increment: inc,
			Source:    src,
		})
		if inc.Priority() > plan.Increment.Priority() {
			plan.Increment = inc
		}
	}

	next, err := Next(current, plan.Increment)
	if err != nil {
		return nil, err
	}
	plan.NewVersion = next

	if plan.Increment != convention.IncrementNone {
		plan.TagName = opts.TagPrefix + plan.NewVersion
		plan.Message = expandTemplate(opts.MessageTemplate, plan.CurrentVersion, plan.NewVersion)
	}

	return plan, nil
}

// expandTemplate substitutes {current} and {new} in template.
func expandTemplate(template, current, next string) string {
	out := strings.ReplaceAll(template, "{current}", current)
	return strings.ReplaceAll(out, "{new}", next)
}
