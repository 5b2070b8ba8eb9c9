package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/changelog"
	gitpkg "github.com/lincommit/linc/internal/git"
	"github.com/lincommit/linc/internal/render"
)

// changelogFlags holds the parsed flags for the changelog command.
type changelogFlags struct {
	revRange string
	release  string
	format   string
	out      string
}

func newChangelogCmd(opts *rootOptions) *cobra.Command {
	var flags changelogFlags
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Render release notes grouped by version impact",
		Long: "Changelog groups the commits since the last release tag (or in\n" +
			"--rev-range) into Breaking Changes, New Features, Fixes & Maintenance,\n" +
			"and Other Changes sections.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangelog(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.revRange, "rev-range", "", "Render this revision range instead of tag..HEAD")
	f.StringVar(&flags.release, "release", "", "Title the changelog with this version instead of Unreleased")
	f.StringVar(&flags.format, "format", "md", "Output format: md, json, or text")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	return cmd
}

func runChangelog(ctx context.Context, opts *rootOptions, flags changelogFlags) error {
	log := opts.log.WithField("cmd", "changelog")

	// --- Step 1: Load configuration and grammar ---
	cfg, g, err := loadGrammar(opts)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}

	// --- Step 2: Collect the commits ---
	repo, err := openRepo(ctx, opts)
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}

	var commits []gitpkg.Commit
	if flags.revRange != "" {
		commits, err = repo.CommitsInRange(ctx, flags.revRange)
	} else {
		tag, tagErr := repo.LatestTag(ctx, cfg.TagPrefix)
		if tagErr != nil && !errors.Is(tagErr, gitpkg.ErrNoTag) {
			return codeError(exitEnv, "finding latest tag: %s", tagErr)
		}
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

	// --- Step 3: Build and render ---
	cl := changelog.Build(g, flags.release, time.Now(), inputs)
	if cl.Skipped > 0 {
		log.WithField("skipped", cl.Skipped).Debug("commits outside the convention omitted")
	}

	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}
	outputBytes, err := renderer.Changelog(cl)
	if err != nil {
		return codeError(exitEnv, "rendering output: %s", err)
	}
	if err := writeOutput(flags.out, outputBytes); err != nil {
		return codeError(exitEnv, "writing output: %s", err)
	}
	return nil
}
