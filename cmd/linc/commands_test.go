package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/convention"
)

const tagListKey = "for-each-ref refs/tags --sort=-v:refname --format=%(refname:strip=2)"

// writeBumpFixture lays out a fake repository directory: a VERSION file,
// a config naming it, and canned git responses for a v1.2.3 history.
func writeBumpFixture(t *testing.T, fake *fakeGit) (top, cfgPath string) {
	t.Helper()
	top = t.TempDir()

	if err := os.WriteFile(filepath.Join(top, "VERSION"), []byte("1.2.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath = filepath.Join(top, ".linc.yaml")
	cfgYAML := "tag_prefix: \"v\"\nversion_files:\n  - VERSION\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	fake.outputs[tagListKey] = "v1.2.3\n"
	fake.outputs["log -z --format=%H\x1f%s\x1f%b v1.2.3..HEAD"] = strings.Join([]string{
		logEntry("aaa1111111", "ENG-2 Added rate limiter", ""),
		logEntry("bbb2222222", "OPS-9 Fixed flaky retry loop", ""),
	}, entrySep)
	fake.outputs["rev-parse --show-toplevel"] = top + "\n"
	return top, cfgPath
}

func readPlan(t *testing.T, path string) bump.Plan {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading plan: %v", err)
	}
	var plan bump.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		t.Fatalf("plan is not valid JSON: %v\n%s", err, data)
	}
	return plan
}

// --- bump ---

func TestRunBump_DryRun(t *testing.T) {
	fake := setupFakeGit(t)
	_, cfgPath := writeBumpFixture(t, fake)

	opts := testOptions()
	opts.configPath = cfgPath

	flags := bumpFlags{
		dryRun: true,
		format: "json",
		out:    filepath.Join(t.TempDir(), "plan.json"),
	}
	if err := runBump(context.Background(), opts, flags); err != nil {
		t.Fatalf("runBump: %v", err)
	}

	plan := readPlan(t, flags.out)
	if plan.CurrentVersion != "1.2.3" || plan.NewVersion != "1.3.0" {
		t.Errorf("versions = %s -> %s", plan.CurrentVersion, plan.NewVersion)
	}
	if plan.Increment != convention.IncrementMinor {
		t.Errorf("increment = %s, want MINOR", plan.Increment)
	}
	if plan.TagName != "v1.3.0" {
		t.Errorf("tag = %q, want v1.3.0", plan.TagName)
	}
	if len(plan.Changes) != 2 {
		t.Errorf("changes = %d, want 2", len(plan.Changes))
	}

	// Dry run must not touch the repository.
	if fake.called("tag") || fake.called("commit") || fake.called("add") {
		t.Errorf("dry run ran mutating git commands: %v", fake.calls)
	}
}

func TestRunBump_AppliesVersionFilesTagAndChangelog(t *testing.T) {
	fake := setupFakeGit(t)
	top, cfgPath := writeBumpFixture(t, fake)

	opts := testOptions()
	opts.configPath = cfgPath

	flags := bumpFlags{
		format:       "json",
		out:          filepath.Join(t.TempDir(), "plan.json"),
		changelogOut: filepath.Join(t.TempDir(), "CHANGELOG.md"),
	}
	if err := runBump(context.Background(), opts, flags); err != nil {
		t.Fatalf("runBump: %v", err)
	}

	versionPath := filepath.Join(top, "VERSION")
	data, err := os.ReadFile(versionPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1.3.0\n" {
		t.Errorf("VERSION = %q, want 1.3.0", data)
	}

	if !fake.called("add -- " + versionPath) {
		t.Errorf("version file not staged: %v", fake.calls)
	}
	if !fake.called("commit -m bump: version 1.2.3 → 1.3.0") {
		t.Errorf("bump commit missing: %v", fake.calls)
	}
	if !fake.called("tag -a v1.3.0 -m") {
		t.Errorf("tag missing: %v", fake.calls)
	}

	cl, err := os.ReadFile(flags.changelogOut)
	if err != nil {
		t.Fatalf("changelog not written: %v", err)
	}
	s := string(cl)
	if !strings.Contains(s, "## 1.3.0") {
		t.Errorf("changelog missing version header:\n%s", s)
	}
	if !strings.Contains(s, "- [ENG-2] Added rate limiter") {
		t.Errorf("changelog missing entry:\n%s", s)
	}
}

func TestRunBump_NoneIncrement_NoSideEffects(t *testing.T) {
	fake := setupFakeGit(t)
	_, cfgPath := writeBumpFixture(t, fake)
	fake.outputs["log -z --format=%H\x1f%s\x1f%b v1.2.3..HEAD"] =
		logEntry("ccc3333333", "DOC-1 Documented setup steps", "")

	opts := testOptions()
	opts.configPath = cfgPath

	flags := bumpFlags{
		format: "json",
		out:    filepath.Join(t.TempDir(), "plan.json"),
	}
	if err := runBump(context.Background(), opts, flags); err != nil {
		t.Fatalf("runBump: %v", err)
	}

	plan := readPlan(t, flags.out)
	if plan.Increment != convention.IncrementNone {
		t.Errorf("increment = %s, want NONE", plan.Increment)
	}
	if plan.TagName != "" {
		t.Errorf("tag = %q, want empty for NONE", plan.TagName)
	}
	if fake.called("tag") || fake.called("commit") || fake.called("add") {
		t.Errorf("NONE increment ran mutating git commands: %v", fake.calls)
	}
}

func TestRunBump_NoTags_StartsFromZero(t *testing.T) {
	fake := setupFakeGit(t)
	_, cfgPath := writeBumpFixture(t, fake)
	fake.outputs[tagListKey] = "\n"
	fake.outputs["log -z --format=%H\x1f%s\x1f%b HEAD"] =
		logEntry("ddd4444444", "ENG-1 Added initial schema", "")

	opts := testOptions()
	opts.configPath = cfgPath

	flags := bumpFlags{
		dryRun: true,
		format: "json",
		out:    filepath.Join(t.TempDir(), "plan.json"),
	}
	if err := runBump(context.Background(), opts, flags); err != nil {
		t.Fatalf("runBump: %v", err)
	}

	plan := readPlan(t, flags.out)
	if plan.CurrentVersion != "0.0.0" || plan.NewVersion != "0.1.0" {
		t.Errorf("versions = %s -> %s, want 0.0.0 -> 0.1.0", plan.CurrentVersion, plan.NewVersion)
	}
}

func TestRunBump_OverrideBeatsVerb(t *testing.T) {
	fake := setupFakeGit(t)
	_, cfgPath := writeBumpFixture(t, fake)
	fake.outputs["log -z --format=%H\x1f%s\x1f%b v1.2.3..HEAD"] =
		logEntry("eee5555555", "ENG-3 Updated config handling", "Format changed.\n\n[bump:major]")

	opts := testOptions()
	opts.configPath = cfgPath

	flags := bumpFlags{
		dryRun: true,
		format: "json",
		out:    filepath.Join(t.TempDir(), "plan.json"),
	}
	if err := runBump(context.Background(), opts, flags); err != nil {
		t.Fatalf("runBump: %v", err)
	}

	plan := readPlan(t, flags.out)
	if plan.NewVersion != "2.0.0" {
		t.Errorf("new version = %s, want 2.0.0", plan.NewVersion)
	}
	if len(plan.Changes) != 1 || plan.Changes[0].Source != bump.SourceOverride {
		t.Errorf("changes = %+v", plan.Changes)
	}
}

// --- changelog ---

func TestRunChangelog_SinceLatestTag(t *testing.T) {
	fake := setupFakeGit(t)
	_, cfgPath := writeBumpFixture(t, fake)

	opts := testOptions()
	opts.configPath = cfgPath

	flags := changelogFlags{
		format: "md",
		out:    filepath.Join(t.TempDir(), "out.md"),
	}
	if err := runChangelog(context.Background(), opts, flags); err != nil {
		t.Fatalf("runChangelog: %v", err)
	}

	data, err := os.ReadFile(flags.out)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, "## Unreleased") {
		t.Errorf("missing Unreleased header:\n%s", s)
	}
	if !strings.Contains(s, "- [ENG-2] Added rate limiter") || !strings.Contains(s, "- [OPS-9] Fixed flaky retry loop") {
		t.Errorf("missing entries:\n%s", s)
	}
}

func TestRunChangelog_ReleaseAndRevRange(t *testing.T) {
	fake := setupFakeGit(t)
	_, cfgPath := writeBumpFixture(t, fake)
	fake.outputs["log -z --format=%H\x1f%s\x1f%b v1.0.0..v1.2.3"] =
		logEntry("fff6666666", "ENG-4 Changed auth token format", "")

	opts := testOptions()
	opts.configPath = cfgPath

	flags := changelogFlags{
		revRange: "v1.0.0..v1.2.3",
		release:  "1.2.3",
		format:   "md",
		out:      filepath.Join(t.TempDir(), "out.md"),
	}
	if err := runChangelog(context.Background(), opts, flags); err != nil {
		t.Fatalf("runChangelog: %v", err)
	}

	data, err := os.ReadFile(flags.out)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, "## 1.2.3 (") {
		t.Errorf("missing release header:\n%s", s)
	}
	if !strings.Contains(s, "Breaking Changes") {
		t.Errorf("missing breaking section:\n%s", s)
	}
}

// --- commit ---

func TestRunCommit_DryRun_NoGitCalls(t *testing.T) {
	fake := setupFakeGit(t)

	flags := commitFlags{
		issue:       "ENG-1",
		verb:        "Fixed",
		description: "login bug",
		dryRun:      true,
	}
	if err := runCommit(context.Background(), testOptions(), flags); err != nil {
		t.Fatalf("runCommit --dry-run: %v", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("dry run called git: %v", fake.calls)
	}
}

func TestRunCommit_RecordsCommit(t *testing.T) {
	fake := setupFakeGit(t)
	fake.outputs["diff --cached --name-only"] = "main.go\n"

	flags := commitFlags{
		issue:       "eng-1",
		verb:        "fixed",
		description: "login bug",
		bumpType:    "minor",
	}
	if err := runCommit(context.Background(), testOptions(), flags); err != nil {
		t.Fatalf("runCommit: %v", err)
	}

	var commitCall string
	for _, call := range fake.calls {
		if strings.HasPrefix(call, "commit -m ") {
			commitCall = call
		}
	}
	if commitCall == "" {
		t.Fatalf("no commit recorded: %v", fake.calls)
	}
	// Casing is normalised and the override is appended to the body.
	if !strings.HasPrefix(commitCall, "commit -m ENG-1 Fixed login bug") {
		t.Errorf("commit call = %q", commitCall)
	}
	if !strings.Contains(commitCall, "[bump:minor]") {
		t.Errorf("override missing from message: %q", commitCall)
	}
}

func TestRunCommit_NoStagedChanges_ExitsCode3(t *testing.T) {
	fake := setupFakeGit(t)
	fake.outputs["diff --cached --name-only"] = "\n"

	flags := commitFlags{
		issue:       "ENG-1",
		verb:        "Fixed",
		description: "login bug",
	}
	wantExitCode(t, runCommit(context.Background(), testOptions(), flags), 3)
}

func TestRunCommit_InvalidVerb_ExitsCode1(t *testing.T) {
	flags := commitFlags{
		issue:       "ENG-1",
		verb:        "Fixes",
		description: "login bug",
		dryRun:      true,
	}
	wantExitCode(t, runCommit(context.Background(), testOptions(), flags), 1)
}

func TestRunCommit_PartialFlags_ExitsCode2(t *testing.T) {
	flags := commitFlags{issue: "ENG-1", dryRun: true}
	wantExitCode(t, runCommit(context.Background(), testOptions(), flags), 2)
}

func TestRunCommit_BadBumpFlag_ExitsCode2(t *testing.T) {
	flags := commitFlags{
		issue:       "ENG-1",
		verb:        "Fixed",
		description: "login bug",
		bumpType:    "huge",
		dryRun:      true,
	}
	wantExitCode(t, runCommit(context.Background(), testOptions(), flags), 2)
}

// --- init ---

func TestRunInit_WritesStarterConfig(t *testing.T) {
	fake := setupFakeGit(t)
	top := t.TempDir()
	fake.outputs["rev-parse --show-toplevel"] = top + "\n"

	if err := runInit(context.Background(), testOptions()); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(top, ".linc.yaml"))
	if err != nil {
		t.Fatalf("starter config not written: %v", err)
	}
	if !strings.Contains(string(data), "tag_prefix") {
		t.Errorf("starter config = %q", data)
	}

	// A second init refuses to overwrite.
	wantExitCode(t, runInit(context.Background(), testOptions()), 2)
}

// --- hook ---

func TestRunHook_InstallAndUninstall(t *testing.T) {
	fake := setupFakeGit(t)
	top := t.TempDir()
	if err := os.MkdirAll(filepath.Join(top, ".git", "hooks"), 0o755); err != nil {
		t.Fatal(err)
	}
	fake.outputs["rev-parse --show-toplevel"] = top + "\n"

	if err := runHookInstall(context.Background(), testOptions(), false); err != nil {
		t.Fatalf("install: %v", err)
	}
	hookPath := filepath.Join(top, ".git", "hooks", "commit-msg")
	data, err := os.ReadFile(hookPath)
	if err != nil {
		t.Fatalf("hook not written: %v", err)
	}
	if !strings.Contains(string(data), "linc check --commit-msg-file") {
		t.Errorf("hook script = %q", data)
	}

	if err := runHookUninstall(context.Background(), testOptions(), false); err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if _, err := os.Stat(hookPath); !os.IsNotExist(err) {
		t.Errorf("hook still present after uninstall")
	}
}

func TestRunHook_ForeignHookNeedsForce(t *testing.T) {
	fake := setupFakeGit(t)
	top := t.TempDir()
	hooksDir := filepath.Join(top, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	fake.outputs["rev-parse --show-toplevel"] = top + "\n"

	foreign := filepath.Join(hooksDir, "commit-msg")
	if err := os.WriteFile(foreign, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	wantExitCode(t, runHookInstall(context.Background(), testOptions(), false), 2)

	if err := runHookInstall(context.Background(), testOptions(), true); err != nil {
		t.Fatalf("install --force: %v", err)
	}
}
