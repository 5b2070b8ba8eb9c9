package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/changelog"
	"github.com/lincommit/linc/internal/lint"
	"github.com/lincommit/linc/internal/message"
	"github.com/lincommit/linc/internal/report"
)

func sampleReport() *report.Report {
	r := report.New("1.0.0", report.Input{
		Source:       "range",
		RevRange:     "v1.2.3..HEAD",
		IssuePattern: `^[A-Z]{2,}-[0-9]+$`,
	})
	r.Add("a1b2c3d", lint.Result{Valid: true, Subject: "ENG-1 Fixed login bug"}, false)
	r.Add("e4f5a6b", lint.Result{
		Valid:       false,
		Subject:     "eng-2 fixed another bug",
		Field:       lint.FieldIssueID,
		Reason:      "Invalid issue ID format: 'eng-2'",
		Suggestions: []string{"ENG-2"},
	}, true)
	return r
}

func samplePlan() *bump.Plan {
	g := message.Default()
	plan, err := bump.BuildPlan(g, "1.2.3", bump.Options{TagPrefix: "v"}, []bump.Input{
		{Hash: "a1b2c3d4e5", Message: "ENG-1 Added rate limiter"},
		{Hash: "f6a7b8c9d0", Message: "ENG-2 Fixed login bug"},
	})
	if err != nil {
		panic(err)
	}
	return plan
}

func sampleChangelog() *changelog.Changelog {
	g := message.Default()
	return changelog.Build(g, "1.3.0", time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), []bump.Input{
		{Hash: "a1b2c3d", Message: "ENG-1 Added rate limiter"},
		{Hash: "e4f5a6b", Message: "ENG-2 Fixed login bug"},
	})
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	if _, err := NewRenderer("xml"); err == nil {
		t.Error("expected error for unknown format, got nil")
	}
}

func TestNewRenderer_JSONReport(t *testing.T) {
	r, err := NewRenderer("json")
	if err != nil {
		t.Fatalf("NewRenderer json: %v", err)
	}
	out, err := r.Report(sampleReport())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	var decoded report.Report
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out)
	}
	if decoded.Summary.Verdict != report.VerdictFail {
		t.Errorf("verdict mismatch: got %q", decoded.Summary.Verdict)
	}
	if len(decoded.Results) != 2 {
		t.Errorf("results = %d, want 2", len(decoded.Results))
	}
}

func TestNewRenderer_JSONArtifactsAreValid(t *testing.T) {
	r, err := NewRenderer("json")
	if err != nil {
		t.Fatal(err)
	}

	if out, err := r.Plan(samplePlan()); err != nil || !json.Valid(out) {
		t.Errorf("plan JSON invalid (err %v): %s", err, out)
	}
	if out, err := r.Changelog(sampleChangelog()); err != nil || !json.Valid(out) {
		t.Errorf("changelog JSON invalid (err %v): %s", err, out)
	}
}

func TestNewRenderer_MarkdownReport(t *testing.T) {
	r, err := NewRenderer("md")
	if err != nil {
		t.Fatalf("NewRenderer md: %v", err)
	}
	out, err := r.Report(sampleReport())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "# linc check") {
		t.Errorf("markdown missing header: %q", s)
	}
	if !strings.Contains(s, "FAIL") {
		t.Errorf("markdown missing verdict: %q", s)
	}
	if !strings.Contains(s, "Invalid issue ID format: 'eng-2'") {
		t.Errorf("markdown missing reason: %q", s)
	}
	if !strings.Contains(s, "ENG-2") {
		t.Errorf("markdown missing suggestion: %q", s)
	}
	// Valid results stay out of the violation detail.
	if strings.Contains(s, "### a1b2c3d") {
		t.Errorf("markdown should not detail valid results: %q", s)
	}
}

func TestNewRenderer_MarkdownChangelog(t *testing.T) {
	r, err := NewRenderer("md")
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Changelog(sampleChangelog())
	if err != nil {
		t.Fatalf("Changelog: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "## 1.3.0 (2026-08-25)") {
		t.Errorf("changelog missing release header: %q", s)
	}
	if !strings.Contains(s, "### ── New Features (Minor) ──") {
		t.Errorf("changelog missing section: %q", s)
	}
	if !strings.Contains(s, "- [ENG-1] Added rate limiter") {
		t.Errorf("changelog missing entry: %q", s)
	}
}

func TestNewRenderer_MarkdownPlan(t *testing.T) {
	r, err := NewRenderer("md")
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Plan(samplePlan())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "**New:** 1.3.0") {
		t.Errorf("plan missing new version: %q", s)
	}
	if !strings.Contains(s, "| a1b2c3d4e5 | ENG-1 Added rate limiter | MINOR | verb |") {
		t.Errorf("plan missing change row: %q", s)
	}
}

func TestNewRenderer_TextReport(t *testing.T) {
	r, err := NewRenderer("text")
	if err != nil {
		t.Fatalf("NewRenderer text: %v", err)
	}
	out, err := r.Report(sampleReport())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "ok   a1b2c3d") {
		t.Errorf("text missing ok line: %q", s)
	}
	if !strings.Contains(s, "FAIL e4f5a6b") {
		t.Errorf("text missing fail line: %q", s)
	}
	if !strings.Contains(s, "did you mean: ENG-2?") {
		t.Errorf("text missing suggestion: %q", s)
	}
	if !strings.Contains(s, "checked 2: 1 valid, 1 invalid (1 fixable with --fix)") {
		t.Errorf("text missing summary: %q", s)
	}
}

func TestNewRenderer_TextPlanNoBump(t *testing.T) {
	g := message.Default()
	plan, err := bump.BuildPlan(g, "1.2.3", bump.Options{TagPrefix: "v"}, []bump.Input{
		{Hash: "abc1234", Message: "ENG-1 Documented internals"},
	})
	if err != nil {
		t.Fatal(err)
	}

	r, _ := NewRenderer("text")
	out, err := r.Plan(plan)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !strings.Contains(string(out), "no version bump needed") {
		t.Errorf("text plan missing no-bump notice: %q", out)
	}
}

func TestNewRenderer_TextChangelog(t *testing.T) {
	r, _ := NewRenderer("text")
	out, err := r.Changelog(sampleChangelog())
	if err != nil {
		t.Fatalf("Changelog: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "1.3.0 (2026-08-25)") {
		t.Errorf("text changelog missing title: %q", s)
	}
	if !strings.Contains(s, "── Fixes & Maintenance (Patch) ──") {
		t.Errorf("text changelog missing section: %q", s)
	}
	if !strings.Contains(s, "[ENG-2] Fixed login bug") {
		t.Errorf("text changelog missing entry: %q", s)
	}
}
