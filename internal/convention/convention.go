// Package convention defines the Linear commit vocabulary: the controlled
// set of past-tense verbs, the version increment each verb implies, and the
// grouped choice lists the interactive prompt presents.
package convention

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Increment is the semantic-version impact of a single commit.
type Increment string

const (
	IncrementMajor Increment = "MAJOR"
	IncrementMinor Increment = "MINOR"
	IncrementPatch Increment = "PATCH"
	IncrementNone  Increment = "NONE"
)

// Priority returns the numeric ordering used for maximum-selection across a
// commit set. MAJOR(3) > MINOR(2) > PATCH(1) > NONE(0).
// Returns -1 for an unrecognised increment.
func (i Increment) Priority() int {
	switch i {
	case IncrementMajor:
		return 3
	case IncrementMinor:
		return 2
	case IncrementPatch:
		return 1
	case IncrementNone:
		return 0
	default:
		return -1
	}
}

// IsValid reports whether i is one of the four defined increments.
func (i Increment) IsValid() bool {
	return i.Priority() >= 0
}

// ParseIncrement converts a case-insensitive increment name to an Increment.
func ParseIncrement(s string) (Increment, error) {
	inc := Increment(strings.ToUpper(strings.TrimSpace(s)))
	if !inc.IsValid() {
		return "", fmt.Errorf("unknown increment %q: valid increments are MAJOR, MINOR, PATCH, NONE", s)
	}
	return inc, nil
}

// MaxIncrement returns the highest-priority increment in incs.
// An empty list, or a list of only unrecognised values, yields IncrementNone.
func MaxIncrement(incs []Increment) Increment {
	max := IncrementNone
	for _, inc := range incs {
		if inc.Priority() > max.Priority() {
			max = inc
		}
	}
	return max
}

// DefaultIssuePattern matches a Linear-style issue ID: a project prefix of
// two or more uppercase letters, a dash, and a numeric identifier.
const DefaultIssuePattern = `^[A-Z]{2,}-[0-9]+$`

// Catalog is the effective verb vocabulary: the builtin table merged with
// any custom verbs from project configuration. Custom entries win on
// conflict; the builtin table is never mutated.
type Catalog struct {
	verbs map[string]Increment
}

// Builtin returns a catalog holding only the builtin vocabulary.
func Builtin() *Catalog {
	c, _ := New(nil)
	return c
}

// New returns a catalog of the builtin vocabulary merged with custom.
// Every custom entry must name a non-empty verb and a valid increment.
func New(custom map[string]Increment) (*Catalog, error) {
	verbs := make(map[string]Increment, len(builtinVerbs)+len(custom))
	for verb, inc := range builtinVerbs {
		verbs[verb] = inc
	}
	for verb, inc := range custom {
		if strings.TrimSpace(verb) == "" {
			return nil, fmt.Errorf("custom verb name must not be empty")
		}
		if !inc.IsValid() {
			return nil, fmt.Errorf("invalid increment %q for verb %q: must be one of MAJOR, MINOR, PATCH, NONE", inc, verb)
		}
		verbs[verb] = inc
	}
	return &Catalog{verbs: verbs}, nil
}

// Lookup returns the increment for verb using exact, case-sensitive matching.
func (c *Catalog) Lookup(verb string) (Increment, bool) {
	inc, ok := c.verbs[verb]
	return inc, ok
}

// Canonical resolves verb case-insensitively and returns the canonical
// casing from the catalog. Used by auto-fix to repair e.g. "fixed" → "Fixed".
func (c *Catalog) Canonical(verb string) (string, bool) {
	if _, ok := c.verbs[verb]; ok {
		return verb, true
	}
	lower := strings.ToLower(verb)
	for v := range c.verbs {
		if strings.ToLower(v) == lower {
			return v, true
		}
	}
	return "", false
}

// Suggest returns catalog verbs whose lowercase form starts with the
// lowercase form of prefix, sorted alphabetically. An empty prefix
// suggests nothing.
func (c *Catalog) Suggest(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}
	var out []string
	for verb := range c.verbs {
		if strings.HasPrefix(strings.ToLower(verb), prefix) {
			out = append(out, verb)
		}
	}
	sort.Strings(out)
	return out
}

// Verbs returns every verb in the catalog, sorted alphabetically.
func (c *Catalog) Verbs() []string {
	out := make([]string, 0, len(c.verbs))
	for verb := range c.verbs {
		out = append(out, verb)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of verbs in the catalog.
func (c *Catalog) Len() int {
	return len(c.verbs)
}

// Choice is one selectable verb with its impact description.
type Choice struct {
	Verb        string
	Increment   Increment
	Description string
}

// ChoiceGroup is a section of verb choices sharing an increment.
type ChoiceGroup struct {
	Section   string
	Increment Increment
	Choices   []Choice
}

// groupOrder fixes the section ordering for prompts and changelogs.
var groupOrder = []Increment{IncrementMajor, IncrementMinor, IncrementPatch, IncrementNone}

// Groups returns the catalog organised into prompt sections, ordered
// MAJOR, MINOR, PATCH, NONE with verbs sorted inside each section.
// Empty sections are omitted.
func (c *Catalog) Groups() []ChoiceGroup {
	byInc := make(map[Increment][]string)
	for verb, inc := range c.verbs {
		byInc[inc] = append(byInc[inc], verb)
	}

	var groups []ChoiceGroup
	for _, inc := range groupOrder {
		verbs := byInc[inc]
		if len(verbs) == 0 {
			continue
		}
		sort.Strings(verbs)
		group := ChoiceGroup{
			Section:   SectionTitle(inc),
			Increment: inc,
			Choices:   make([]Choice, 0, len(verbs)),
		}
		for _, verb := range verbs {
			group.Choices = append(group.Choices, Choice{
				Verb:        verb,
				Increment:   inc,
				Description: ImpactDescription(inc),
			})
		}
		groups = append(groups, group)
	}
	return groups
}

// VerbAlternation returns the catalog verbs joined for regexp alternation,
// each quoted with regexp.QuoteMeta, sorted for stable output.
func (c *Catalog) VerbAlternation() string {
	verbs := c.Verbs()
	quoted := make([]string, len(verbs))
	for i, v := range verbs {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return strings.Join(quoted, "|")
}
