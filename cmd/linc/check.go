package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lincommit/linc/internal/hook"
	"github.com/lincommit/linc/internal/lint"
	"github.com/lincommit/linc/internal/render"
	"github.com/lincommit/linc/internal/report"
)

// checkFlags holds the parsed flags for the check command.
type checkFlags struct {
	message  string
	msgFile  string
	revRange string
	fix      bool
	patchOut string
	format   string
	out      string
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var flags checkFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate commit messages against the convention",
		Long: "Check validates messages of the form '<ISSUE-ID> <Verb> <description>'.\n" +
			"It reads from --message, --commit-msg-file, --rev-range, or stdin, and\n" +
			"exits 1 when any message fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.message, "message", "m", "", "Validate this message text")
	f.StringVar(&flags.msgFile, "commit-msg-file", "", "Validate the message in this file (commit-msg hook entry point)")
	f.StringVar(&flags.revRange, "rev-range", "", "Validate every commit in this revision range, e.g. v1.2.0..HEAD")
	f.BoolVar(&flags.fix, "fix", false, "Rewrite --commit-msg-file in place with casing and spacing repaired")
	f.StringVar(&flags.patchOut, "patch-out", "", "Write repairs in diff-match-patch format to this file")
	f.StringVar(&flags.format, "format", "text", "Output format: text, json, or md")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	return cmd
}

func runCheck(ctx context.Context, opts *rootOptions, flags checkFlags) error {
	log := opts.log.WithField("cmd", "check")

	// --- Step 1: Validate flags ---
	sources := 0
	for _, set := range []bool{flags.message != "", flags.msgFile != "", flags.revRange != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return codeError(exitUsage, "use only one of --message, --commit-msg-file, --rev-range")
	}
	if flags.fix && flags.msgFile == "" {
		return codeError(exitUsage, "--fix requires --commit-msg-file")
	}

	// --- Step 2: Load configuration and grammar ---
	cfg, g, err := loadGrammar(opts)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}

	// --- Step 3: Collect messages from the selected source ---
	input := report.Input{IssuePattern: cfg.IssuePattern}
	var refs, raws []string
	switch {
	case flags.message != "":
		input.Source = "message"
		refs, raws = []string{""}, []string{flags.message}
	case flags.msgFile != "":
		input.Source = "file"
		input.Path = flags.msgFile
		data, err := os.ReadFile(flags.msgFile)
		if err != nil {
			return codeError(exitEnv, "reading %s: %s", flags.msgFile, err)
		}
		refs, raws = []string{flags.msgFile}, []string{hook.StripComments(string(data))}
	case flags.revRange != "":
		input.Source = "range"
		input.RevRange = flags.revRange
		repo, err := openRepo(ctx, opts)
		if err != nil {
			return codeError(exitEnv, "%s", err)
		}
		commits, err := repo.CommitsInRange(ctx, flags.revRange)
		if err != nil {
			return codeError(exitEnv, "listing commits: %s", err)
		}
		for _, c := range commits {
			refs = append(refs, c.ShortHash())
			raws = append(raws, c.Message())
		}
	default:
		input.Source = "stdin"
		data, err := io.ReadAll(stdin)
		if err != nil {
			return codeError(exitEnv, "reading stdin: %s", err)
		}
		refs, raws = []string{""}, []string{string(data)}
	}
	log.WithField("count", len(raws)).Debug("collected messages")

	// --- Step 4: Write repair patches (built from the pre-fix text) ---
	if flags.patchOut != "" {
		patchText := lint.FixPatchAll(g, refs, raws)
		if err := os.WriteFile(flags.patchOut, []byte(patchText), 0o644); err != nil {
			// Patches are advisory; the check itself still runs.
			log.WithError(err).Warn("patch write failed")
		}
	}

	// --- Step 5: Apply --fix before validating ---
	if flags.fix {
		if fixed, changed := lint.Fix(g, raws[0]); changed {
			if err := os.WriteFile(flags.msgFile, []byte(fixed+"\n"), 0o644); err != nil {
				return codeError(exitEnv, "rewriting %s: %s", flags.msgFile, err)
			}
			log.WithField("path", flags.msgFile).Debug("rewrote message file")
			raws[0] = fixed
		}
	}

	// --- Step 6: Validate every message ---
	rep := report.New(version, input)
	for i, raw := range raws {
		res := lint.Validate(g, raw)
		fixable := false
		if !res.Valid {
			if fixed, changed := lint.Fix(g, raw); changed {
				fixable = lint.Validate(g, fixed).Valid
			}
		}
		rep.Add(refs[i], res, fixable)
	}

	// --- Step 7: Render and write output ---
	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}
	outputBytes, err := renderer.Report(rep)
	if err != nil {
		return codeError(exitEnv, "rendering output: %s", err)
	}
	if err := writeOutput(flags.out, outputBytes); err != nil {
		return codeError(exitEnv, "writing output: %s", err)
	}

	// --- Step 8: Exit 1 when anything failed ---
	if rep.Failed() {
		return codeError(exitViolation, "%d of %d message(s) failed validation",
			rep.Summary.Invalid, rep.Summary.Total)
	}
	return nil
}
