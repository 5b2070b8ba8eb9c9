package render

import (
	"fmt"
	"strings"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/changelog"
	"github.com/lincommit/linc/internal/convention"
	"github.com/lincommit/linc/internal/report"
)

// textRenderer produces the plain terminal output used by default.
type textRenderer struct{}

func (r *textRenderer) Report(rep *report.Report) ([]byte, error) {
	var b strings.Builder

	for _, res := range rep.Results {
		status := "ok  "
		if !res.Valid {
			status = "FAIL"
		}
		ref := res.Ref
		if ref == "" {
			ref = "-"
		}
		fmt.Fprintf(&b, "%s %s  %s\n", status, ref, res.Subject)
		if res.Valid {
			continue
		}
		fmt.Fprintf(&b, "     %s\n", res.Reason)
		if len(res.Suggestions) > 0 {
			fmt.Fprintf(&b, "     did you mean: %s?\n", strings.Join(res.Suggestions, ", "))
		}
	}

	s := rep.Summary
	fmt.Fprintf(&b, "\nchecked %d: %d valid, %d invalid", s.Total, s.Valid, s.Invalid)
	if s.Fixable > 0 {
		fmt.Fprintf(&b, " (%d fixable with --fix)", s.Fixable)
	}
	b.WriteString("\n")

	return []byte(b.String()), nil
}

func (r *textRenderer) Plan(p *bump.Plan) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "current version: %s\n", p.CurrentVersion)
	if p.Increment == convention.IncrementNone {
		b.WriteString("increment:       NONE (no version bump needed)\n")
	} else {
		fmt.Fprintf(&b, "new version:     %s\n", p.NewVersion)
		fmt.Fprintf(&b, "increment:       %s\n", p.Increment)
		if p.TagName != "" {
			fmt.Fprintf(&b, "tag:             %s\n", p.TagName)
		}
	}

	if len(p.Changes) > 0 {
		b.WriteString("\n")
		for _, ch := range p.Changes {
			hash := ch.Hash
			if len(hash) > 7 {
				hash = hash[:7]
			}
			fmt.Fprintf(&b, "  %-7s  %-5s (%s)  %s\n", hash, ch.Increment, ch.Source, ch.Subject)
		}
	}

	return []byte(b.String()), nil
}

func (r *textRenderer) Changelog(c *changelog.Changelog) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", c.Title())
	for _, sec := range c.Sections {
		fmt.Fprintf(&b, "\n%s\n\n", sec.Title)
		for _, e := range sec.Entries {
			fmt.Fprintf(&b, "  %s\n", e.String())
		}
	}

	return []byte(b.String()), nil
}
