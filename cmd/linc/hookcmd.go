package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lincommit/linc/internal/hook"
)

func newHookCmd(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the commit-msg hook",
	}
	cmd.PersistentFlags().BoolVar(&force, "force", false, "Replace or remove a hook linc did not install")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Install the commit-msg hook that runs linc check",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHookInstall(cmd.Context(), opts, force)
			},
		},
		&cobra.Command{
			Use:   "uninstall",
			Short: "Remove the installed commit-msg hook",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHookUninstall(cmd.Context(), opts, force)
			},
		},
	)
	return cmd
}

func runHookInstall(ctx context.Context, opts *rootOptions, force bool) error {
	top, err := repoTopLevel(ctx, opts)
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}
	path, err := hook.Install(top, force)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}
	fmt.Printf("installed %s\n", path)
	return nil
}

func runHookUninstall(ctx context.Context, opts *rootOptions, force bool) error {
	top, err := repoTopLevel(ctx, opts)
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}
	if err := hook.Uninstall(top, force); err != nil {
		return codeError(exitUsage, "%s", err)
	}
	fmt.Printf("removed %s\n", hook.Path(top))
	return nil
}

func repoTopLevel(ctx context.Context, opts *rootOptions) (string, error) {
	repo, err := openRepo(ctx, opts)
	if err != nil {
		return "", err
	}
	return repo.TopLevel(ctx)
}
