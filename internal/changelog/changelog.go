// Package changelog groups commits into release-note sections keyed by
// the version increment each commit contributes.
package changelog

import (
	"fmt"
	"time"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/convention"
	"github.com/lincommit/linc/internal/message"
)

// Entry is one changelog line derived from a commit.
type Entry struct {
	IssueID   string               `json:"issue_id"`
	Text      string               `json:"text"` // verb + description as written
	Hash      string               `json:"hash,omitempty"`
	Increment convention.Increment `json:"increment"`
}

// String renders the entry in its canonical "[ISSUE-ID] text" form.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.IssueID, e.Text)
}

// Section is a heading plus the entries that share its increment.
type Section struct {
	Title     string               `json:"title"`
	Increment convention.Increment `json:"increment"`
	Entries   []Entry              `json:"entries"`
}

// Changelog is the grouped release notes for one version.
type Changelog struct {
	Version  string    `json:"version"` // "" means unreleased
	Date     string    `json:"date,omitempty"`
	Sections []Section `json:"sections"`
	Skipped  int       `json:"skipped,omitempty"` // commits that did not match the grammar
}

// Title returns the changelog heading: the version and date, or
// "Unreleased" when no version is set.
func (c *Changelog) Title() string {
	if c.Version == "" {
		return "Unreleased"
	}
	if c.Date == "" {
		return c.Version
	}
	return fmt.Sprintf("%s (%s)", c.Version, c.Date)
}

// Empty reports whether the changelog holds no entries at all.
func (c *Changelog) Empty() bool {
	for _, s := range c.Sections {
		if len(s.Entries) > 0 {
			return false
		}
	}
	return true
}

// sectionOrder fixes section ordering: breaking changes first, silent
// changes last.
var sectionOrder = []convention.Increment{
	convention.IncrementMajor,
	convention.IncrementMinor,
	convention.IncrementPatch,
	convention.IncrementNone,
}

// Build groups inputs into sections by each commit's resolved increment.
// Only commits whose subject opens with a valid issue ID followed by a
// catalog verb participate; the rest are counted in Skipped and omitted.
// Entry order inside a section follows input order, so callers control
// newest-first versus oldest-first.
func Build(g *message.Grammar, version string, date time.Time, inputs []bump.Input) *Changelog {
	c := &Changelog{Version: version}
	if !date.IsZero() {
		c.Date = date.Format("2006-01-02")
	}

	pattern := g.BumpPattern()
	byInc := make(map[convention.Increment][]Entry)
	for _, in := range inputs {
		m := g.Parse(in.Message)
		if !pattern.MatchString(m.Subject) {
			c.Skipped++
			continue
		}

		text := m.Verb
		if m.Description != "" {
			text += " " + m.Description
		}
		text = message.StripOverride(text)

		inc, _ := bump.Resolve(g.Catalog(), m)
		byInc[inc] = append(byInc[inc], Entry{
			IssueID:   m.IssueID,
			Text:      text,
			Hash:      in.Hash,
			Increment: inc,
		})
	}

	for _, inc := range sectionOrder {
		entries := byInc[inc]
		if len(entries) == 0 {
			continue
		}
		c.Sections = append(c.Sections, Section{
			Title:     convention.SectionTitle(inc),
			Increment: inc,
			Entries:   entries,
		})
	}

	return c
}
