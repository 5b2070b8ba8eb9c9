// Package lint validates commit messages against the Linear grammar and
// produces auto-fixes for the repairable failure classes.
package lint

import (
	"fmt"
	"strings"

	"github.com/lincommit/linc/internal/convention"
	"github.com/lincommit/linc/internal/message"
)

// Field names identify which grammar part a check rejected.
const (
	FieldMessage     = "message"
	FieldFormat      = "format"
	FieldIssueID     = "issue_id"
	FieldVerb        = "verb"
	FieldDescription = "description"
)

// Result is the outcome of validating a single commit message.
type Result struct {
	Valid       bool     `json:"valid"`
	Subject     string   `json:"subject,omitempty"`
	Field       string   `json:"field,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Validate runs the ordered grammar checks against raw. Checks run in
// grammar order and the first failure wins: emptiness, token shape,
// issue ID, verb, then description length. Only the subject line is
// examined; the body is free-form.
func Validate(g *message.Grammar, raw string) Result {
	m := g.Parse(raw)
	res := Result{Subject: m.Subject}

	if strings.TrimSpace(raw) == "" {
		res.Field = FieldMessage
		res.Reason = "Empty commit message"
		return res
	}

	if m.IssueID == "" || m.Verb == "" || m.Description == "" {
		res.Field = FieldFormat
		res.Reason = "Invalid format: expected '<ISSUE-ID> <Verb> <description>'"
		return res
	}

	if !g.MatchIssueID(m.IssueID) {
		res.Field = FieldIssueID
		res.Reason = fmt.Sprintf("Invalid issue ID format: '%s'", m.IssueID)
		if g.MatchIssueID(strings.ToUpper(m.IssueID)) {
			res.Suggestions = []string{strings.ToUpper(m.IssueID)}
		}
		return res
	}

	if _, ok := g.Catalog().Lookup(m.Verb); !ok {
		res.Field = FieldVerb
		res.Reason = fmt.Sprintf("Invalid verb: '%s' is not in the approved list", m.Verb)
		res.Suggestions = suggestVerbs(g.Catalog(), m.Verb)
		return res
	}

	if len(m.Description) < message.MinDescriptionLength {
		res.Field = FieldDescription
		res.Reason = fmt.Sprintf("Description too short (minimum %d characters)", message.MinDescriptionLength)
		return res
	}

	res.Valid = true
	return res
}

// suggestVerbs proposes replacements for an unrecognised verb: the
// canonical casing when only the case is wrong, otherwise catalog verbs
// sharing a prefix with it.
func suggestVerbs(c *convention.Catalog, verb string) []string {
	if canonical, ok := c.Canonical(verb); ok {
		return []string{canonical}
	}
	// Prefix matches against progressively shorter stems, e.g. "Fixes"
	// still suggests "Fixed".
	for stem := verb; len(stem) >= 3; stem = stem[:len(stem)-1] {
		if matches := c.Suggest(stem); len(matches) > 0 {
			return matches
		}
	}
	return nil
}

// Fix rewrites the repairable failure classes in raw: issue IDs whose only
// problem is casing, verbs with non-canonical casing, and extra whitespace
// between the grammar parts. It returns the rewritten message and whether
// anything changed. Unfixable messages come back unchanged.
func Fix(g *message.Grammar, raw string) (string, bool) {
	m := g.Parse(raw)
	if m.IssueID == "" || m.Verb == "" || m.Description == "" {
		return raw, false
	}

	issueID := m.IssueID
	if !g.MatchIssueID(issueID) {
		upper := strings.ToUpper(issueID)
		if g.MatchIssueID(upper) {
			issueID = upper
		}
	}

	verb := m.Verb
	if _, ok := g.Catalog().Lookup(verb); !ok {
		if canonical, ok := g.Catalog().Canonical(verb); ok {
			verb = canonical
		}
	}

	subject := fmt.Sprintf("%s %s %s", issueID, verb, m.Description)
	fixed := subject
	if m.Body != "" {
		fixed += "\n\n" + m.Body
	}

	orig := strings.TrimRight(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if fixed == orig {
		return raw, false
	}
	return fixed, true
}
