// Package report assembles validation results into the stable JSON
// structure emitted by `linc check`.
package report

import "github.com/lincommit/linc/internal/lint"

// Report is the top-level check output.
type Report struct {
	Tool    string   `json:"tool"`
	Version string   `json:"version"`
	Input   Input    `json:"input"`
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
}

// Input captures where the checked messages came from.
type Input struct {
	Source       string `json:"source"` // "message", "file", "range", "stdin"
	Path         string `json:"path,omitempty"`
	RevRange     string `json:"rev_range,omitempty"`
	IssuePattern string `json:"issue_pattern"`
}

// Summary holds the aggregate counts and verdict for a run.
type Summary struct {
	Verdict Verdict `json:"verdict"`
	Total   int     `json:"total"`
	Valid   int     `json:"valid"`
	Invalid int     `json:"invalid"`
	Fixable int     `json:"fixable"`
}

// Verdict is the overall outcome of a check run.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// Result is one validated message: its lint outcome plus the reference
// (commit hash or file path) it came from.
type Result struct {
	Ref     string `json:"ref,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
	lint.Result
}

// New returns an empty report for the given tool version and input.
func New(version string, input Input) *Report {
	return &Report{
		Tool:    "linc",
		Version: version,
		Input:   input,
		Summary: Summary{Verdict: VerdictPass},
		Results: []Result{},
	}
}

// Add records one result and updates the summary. The verdict flips to
// FAIL on the first invalid result and never flips back.
func (r *Report) Add(ref string, res lint.Result, fixable bool) {
	r.Results = append(r.Results, Result{Ref: ref, Fixable: fixable, Result: res})
	r.Summary.Total++
	if res.Valid {
		r.Summary.Valid++
		return
	}
	r.Summary.Invalid++
	r.Summary.Verdict = VerdictFail
	if fixable {
		r.Summary.Fixable++
	}
}

// Failed reports whether any result was invalid.
func (r *Report) Failed() bool {
	return r.Summary.Verdict == VerdictFail
}
