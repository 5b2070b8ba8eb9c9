package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/changelog"
	"github.com/lincommit/linc/internal/convention"
	gitpkg "github.com/lincommit/linc/internal/git"
	"github.com/lincommit/linc/internal/render"
)

// bumpFlags holds the parsed flags for the bump command.
type bumpFlags struct {
	revRange     string
	dryRun       bool
	changelogOut string
	format       string
	out          string
}

func newBumpCmd(opts *rootOptions) *cobra.Command {
	var flags bumpFlags
	cmd := &cobra.Command{
		Use:   "bump",
		Short: "Compute and apply the next version from commit history",
		Long: "Bump resolves the highest increment across the commits since the last\n" +
			"release tag, rewrites the configured version files, commits them, and\n" +
			"creates the annotated release tag.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBump(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.revRange, "rev-range", "", "Resolve this revision range instead of tag..HEAD")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Print the plan without touching the repository")
	f.StringVar(&flags.changelogOut, "changelog-out", "", "Additionally write the release changelog (markdown) to this file")
	f.StringVar(&flags.format, "format", "text", "Output format: text, json, or md")
	f.StringVar(&flags.out, "out", "", "Write the plan to file instead of stdout")
	return cmd
}

func runBump(ctx context.Context, opts *rootOptions, flags bumpFlags) error {
	log := opts.log.WithField("cmd", "bump")

	// --- Step 1: Load configuration and grammar ---
	cfg, g, err := loadGrammar(opts)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}

	// --- Step 2: Open the repository ---
	repo, err := openRepo(ctx, opts)
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}

	// --- Step 3: Determine the current version from the latest tag ---
	current := "0.0.0"
	tag, err := repo.LatestTag(ctx, cfg.TagPrefix)
	switch {
	case err == nil:
		current = strings.TrimPrefix(tag, cfg.TagPrefix)
	case errors.Is(err, gitpkg.ErrNoTag):
		log.WithField("prefix", cfg.TagPrefix).Debug("no release tag found, starting from 0.0.0")
		tag = ""
	default:
		return codeError(exitEnv, "finding latest tag: %s", err)
	}

	// --- Step 4: Collect the commits under consideration ---
	var commits []gitpkg.Commit
	if flags.revRange != "" {
		commits, err = repo.CommitsInRange(ctx, flags.revRange)
	} else {
		commits, err = repo.CommitsSince(ctx, tag)
	}
	if err != nil {
		return codeError(exitEnv, "listing commits: %s", err)
	}
	log.WithField("count", len(commits)).Debug("collected commits")

	inputs := make([]bump.Input, 0, len(commits))
	for _, c := range commits {
		inputs = append(inputs, bump.Input{Hash: c.Hash, Message: c.Message()})
	}

	// --- Step 5: Build the plan ---
	plan, err := bump.BuildPlan(g, current, bump.Options{
		TagPrefix:       cfg.TagPrefix,
		MessageTemplate: cfg.BumpMessage,
	}, inputs)
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}

	// --- Step 6: Render the plan ---
	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}
	outputBytes, err := renderer.Plan(plan)
	if err != nil {
		return codeError(exitEnv, "rendering output: %s", err)
	}
	if err := writeOutput(flags.out, outputBytes); err != nil {
		return codeError(exitEnv, "writing output: %s", err)
	}

	// --- Step 7: Stop when there is nothing to release ---
	if plan.Increment == convention.IncrementNone {
		return nil
	}
	if flags.dryRun {
		return nil
	}

	// --- Step 8: Rewrite version files and commit them ---
	top, err := repo.TopLevel(ctx)
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}
	files := cfg.ParsedVersionFiles()
	for i := range files {
		if !filepath.IsAbs(files[i].Path) {
			files[i].Path = filepath.Join(top, files[i].Path)
		}
	}
	changedFiles, err := bump.RewriteVersionFiles(files, current, plan.NewVersion)
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}
	if len(changedFiles) > 0 {
		if err := repo.Commit(ctx, plan.Message, changedFiles); err != nil {
			return codeError(exitEnv, "committing version files: %s", err)
		}
		log.WithField("files", len(changedFiles)).Debug("committed version files")
	}

	// --- Step 9: Tag the release ---
	if err := repo.CreateAnnotatedTag(ctx, plan.TagName, plan.Message); err != nil {
		return codeError(exitEnv, "creating tag %s: %s", plan.TagName, err)
	}

	// --- Step 10: Write the release changelog ---
	if flags.changelogOut != "" {
		cl := changelog.Build(g, plan.NewVersion, time.Now(), inputs)
		md, err := render.NewRenderer("md")
		if err != nil {
			return codeError(exitUsage, "%s", err)
		}
		clBytes, err := md.Changelog(cl)
		if err != nil {
			return codeError(exitEnv, "rendering changelog: %s", err)
		}
		if err := os.WriteFile(flags.changelogOut, clBytes, 0o644); err != nil {
			return codeError(exitEnv, "writing changelog: %s", err)
		}
	}

	if flags.format == "text" && flags.out == "" {
		fmt.Printf("tagged %s\n", plan.TagName)
	}
	return nil
}
