// Package message tokenizes commit messages against the Linear grammar
// and composes well-formed messages from their parts.
package message

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lincommit/linc/internal/convention"
)

// MinDescriptionLength is the minimum number of characters a commit
// description must contain.
const MinDescriptionLength = 3

// overridePattern matches a manual bump directive anywhere in a commit
// message, e.g. "[bump:minor]". Matching is case-insensitive.
var overridePattern = regexp.MustCompile(`(?i)\[bump:(major|minor|patch|none)\]`)

// Message is a commit message split into its grammar parts. Parse fills
// whatever it can recognise; empty fields mean the part was absent, not
// that the message is valid.
type Message struct {
	Raw         string
	Subject     string // first line
	Body        string // everything after the first line, blank separator trimmed
	IssueID     string // first whitespace-separated token
	Verb        string // second token
	Description string // remainder of the subject after the verb

	// Override is the increment requested by a [bump:] directive,
	// or "" when the message has none.
	Override convention.Increment
}

// HasOverride reports whether the message carries a manual bump directive.
func (m Message) HasOverride() bool {
	return m.Override != ""
}

// Grammar binds an issue-ID pattern to a verb catalog. The zero value is
// not usable; construct with NewGrammar or Default.
type Grammar struct {
	issuePattern string
	issueID      *regexp.Regexp
	catalog      *convention.Catalog
}

// NewGrammar compiles issuePattern and binds it to catalog. The pattern is
// anchored on both ends if it is not already.
func NewGrammar(issuePattern string, catalog *convention.Catalog) (*Grammar, error) {
	if issuePattern == "" {
		issuePattern = convention.DefaultIssuePattern
	}
	if catalog == nil {
		catalog = convention.Builtin()
	}

	// The non-capturing group keeps top-level alternations in the
	// configured pattern from escaping the anchors.
	inner := trimAnchors(issuePattern)
	issueID, err := regexp.Compile("^(?:" + inner + ")$")
	if err != nil {
		return nil, fmt.Errorf("compiling issue pattern %q: %w", issuePattern, err)
	}

	return &Grammar{
		issuePattern: issuePattern,
		issueID:      issueID,
		catalog:      catalog,
	}, nil
}

// Default returns a grammar with the builtin catalog and issue pattern.
func Default() *Grammar {
	g, err := NewGrammar(convention.DefaultIssuePattern, convention.Builtin())
	if err != nil {
		// The builtin pattern is a constant; it always compiles.
		panic(err)
	}
	return g
}

// Catalog returns the verb catalog bound to the grammar.
func (g *Grammar) Catalog() *convention.Catalog {
	return g.catalog
}

// IssuePattern returns the configured issue-ID pattern source text.
func (g *Grammar) IssuePattern() string {
	return g.issuePattern
}

// MatchIssueID reports whether id is a valid issue ID under the grammar.
func (g *Grammar) MatchIssueID(id string) bool {
	return g.issueID.MatchString(id)
}

// BumpPattern returns a pattern matching subjects that start with a valid
// issue ID followed by a catalog verb. It decides which commits appear in
// changelogs and release notes.
func (g *Grammar) BumpPattern() *regexp.Regexp {
	inner := trimAnchors(g.issuePattern)
	return regexp.MustCompile(`^(?:` + inner + `)\s+(` + g.catalog.VerbAlternation() + `)\b`)
}

// Parse splits raw into its grammar parts. It never fails: a message that
// does not follow the grammar simply yields empty or partial fields, and
// validation is left to the lint package.
func (g *Grammar) Parse(raw string) Message {
	m := Message{Raw: raw}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	subject, body, found := strings.Cut(text, "\n")
	m.Subject = strings.TrimSpace(subject)
	if found {
		m.Body = strings.TrimSpace(body)
	}

	if inc, ok := ExtractOverride(text); ok {
		m.Override = inc
	}

	// Tokenize the subject: issue ID, verb, then the free-form description.
	parts := strings.Fields(m.Subject)
	switch {
	case len(parts) >= 3:
		m.IssueID = parts[0]
		m.Verb = parts[1]
		rest := strings.TrimSpace(strings.TrimPrefix(m.Subject, parts[0]))
		m.Description = strings.TrimSpace(strings.TrimPrefix(rest, parts[1]))
	case len(parts) == 2:
		m.IssueID = parts[0]
		m.Verb = parts[1]
	case len(parts) == 1:
		m.IssueID = parts[0]
	}

	return m
}

// ExtractOverride scans text for a manual bump directive and returns the
// requested increment. The first directive wins when several are present.
func ExtractOverride(text string) (convention.Increment, bool) {
	match := overridePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return convention.Increment(strings.ToUpper(match[1])), true
}

// StripOverride removes bump directives from text, collapsing the
// whitespace they leave behind. Used when rendering user-facing output.
func StripOverride(text string) string {
	out := overridePattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(out), " ")
}

// Draft holds the parts of a commit message to compose.
type Draft struct {
	IssueID     string
	Verb        string
	Description string
	Body        string
	Override    convention.Increment // optional manual bump directive
}

// Build composes a commit message from d, normalising the issue ID to
// upper case and the verb to its catalog casing. It rejects drafts whose
// parts would not pass validation.
func (g *Grammar) Build(d Draft) (string, error) {
	issueID := strings.ToUpper(strings.TrimSpace(d.IssueID))
	if !g.MatchIssueID(issueID) {
		return "", fmt.Errorf("invalid issue ID %q: must match %s", d.IssueID, g.issuePattern)
	}

	verb, ok := g.catalog.Canonical(strings.TrimSpace(d.Verb))
	if !ok {
		return "", fmt.Errorf("invalid verb %q: not in the approved list", d.Verb)
	}

	desc := strings.TrimSpace(d.Description)
	if len(desc) < MinDescriptionLength {
		return "", fmt.Errorf("description too short (minimum %d characters)", MinDescriptionLength)
	}

	if d.Override != "" && !d.Override.IsValid() {
		return "", fmt.Errorf("invalid bump override %q", d.Override)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", issueID, verb, desc)

	body := strings.TrimSpace(d.Body)
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if d.Override != "" {
		fmt.Fprintf(&b, "\n\n[bump:%s]", strings.ToLower(string(d.Override)))
	}

	return b.String(), nil
}

// trimAnchors strips a leading "^" and an unescaped trailing "$" so a
// validation pattern can be embedded inside a larger expression.
func trimAnchors(pattern string) string {
	p := strings.TrimPrefix(pattern, "^")
	if strings.HasSuffix(p, "$") && !strings.HasSuffix(p, `\$`) {
		p = strings.TrimSuffix(p, "$")
	}
	return p
}
