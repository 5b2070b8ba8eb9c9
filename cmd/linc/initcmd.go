package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lincommit/linc/internal/config"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter .linc.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), opts)
		},
	}
}

func runInit(ctx context.Context, opts *rootOptions) error {
	dir, err := os.Getwd()
	if err != nil {
		return codeError(exitEnv, "%s", err)
	}
	// Prefer the repository root so the file is found from any subdirectory.
	if repo, repoErr := openRepo(ctx, opts); repoErr == nil {
		if top, topErr := repo.TopLevel(ctx); topErr == nil {
			dir = top
		}
	}

	path, err := config.Init(dir)
	if err != nil {
		return codeError(exitUsage, "%s", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
