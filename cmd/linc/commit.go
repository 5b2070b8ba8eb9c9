package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lincommit/linc/internal/convention"
	"github.com/lincommit/linc/internal/message"
	"github.com/lincommit/linc/internal/prompt"
)

// commitFlags holds the parsed flags for the commit command.
type commitFlags struct {
	issue       string
	verb        string
	description string
	body        string
	bumpType    string
	dryRun      bool
}

func newCommitCmd(opts *rootOptions) *cobra.Command {
	var flags commitFlags
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Compose a convention-shaped commit interactively",
		Long: "Commit walks through issue ID, verb, and description, validates the\n" +
			"result, and records it against the staged changes. Passing --issue,\n" +
			"--verb, and --description together skips the wizard.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.issue, "issue", "", "Issue ID, e.g. ENG-123 (non-interactive mode)")
	f.StringVar(&flags.verb, "verb", "", "Change verb, e.g. Fixed (non-interactive mode)")
	f.StringVar(&flags.description, "description", "", "Change description (non-interactive mode)")
	f.StringVar(&flags.body, "body", "", "Message body (non-interactive mode)")
	f.StringVar(&flags.bumpType, "bump", "", "Append a [bump:TYPE] override: major, minor, patch, or none")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Print the composed message without committing")
	return cmd
}

func runCommit(ctx context.Context, opts *rootOptions, flags commitFlags) error {
	log := opts.log.WithField("cmd", "commit")

	// --- Step 1: Load configuration and grammar ---
	_, g, err := loadGrammar(opts)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}

	var override convention.Increment
	if flags.bumpType != "" {
		override, err = convention.ParseIncrement(flags.bumpType)
		if err != nil {
			return codeError(exitUsage, "--bump: %s", err)
		}
	}

	// --- Step 2: Compose the draft, by flags or by wizard ---
	var draft message.Draft
	given := 0
	for _, set := range []bool{flags.issue != "", flags.verb != "", flags.description != ""} {
		if set {
			given++
		}
	}
	switch given {
	case 3:
		draft = message.Draft{
			IssueID:     flags.issue,
			Verb:        flags.verb,
			Description: flags.description,
			Body:        flags.body,
		}
	case 0:
		draft, err = prompt.Run(g)
		if errors.Is(err, prompt.ErrAborted) {
			return codeError(exitViolation, "aborted")
		}
		if err != nil {
			return codeError(exitEnv, "%s", err)
		}
	default:
		return codeError(exitUsage, "non-interactive commit needs --issue, --verb, and --description")
	}
	draft.Override = override

	// --- Step 3: Build and validate the message ---
	msg, err := g.Build(draft)
	if err != nil {
		return codeError(exitViolation, "%s", err)
	}
	subject, _, _ := strings.Cut(msg, "\n")
	log.WithField("subject", subject).Debug("composed message")

	if flags.dryRun {
		fmt.Println(msg)
		return nil
	}

	// --- Step 4: Record the commit against the staged changes ---
	repo, err := openRepo(ctx, opts)
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}
	staged, err := repo.HasStagedChanges(ctx)
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}
	if !staged {
		return codeError(exitEnv, "no staged changes to commit")
	}
	if err := repo.Commit(ctx, msg, nil); err != nil {
		return codeError(exitEnv, "%s", err)
	}

	fmt.Printf("committed: %s\n", subject)
	return nil
}
