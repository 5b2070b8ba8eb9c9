package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lincommit/linc/internal/config"
	"github.com/lincommit/linc/internal/git"
	"github.com/lincommit/linc/internal/message"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// Exit codes carried through the cobra error path.
const (
	exitViolation = 1 // a message failed validation
	exitUsage     = 2 // bad flags or configuration
	exitEnv       = 3 // git or filesystem failure
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// rootOptions holds the persistent flags and logger shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
	log        *logrus.Logger
}

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// newGitClient is swapped in tests to inject a fake command executor.
var newGitClient = func(dir string, log logrus.FieldLogger) *git.Client {
	return git.New(dir, nil, log)
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitUsage)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{log: logrus.New()}

	root := &cobra.Command{
		Use:   "linc",
		Short: "Lint Linear-style commit messages and automate version bumps",
		Long: "linc enforces the '<ISSUE-ID> <Verb> <description>' commit convention:\n" +
			"it validates messages, derives semantic-version increments from the verb\n" +
			"table or [bump:] overrides, and renders changelogs grouped by impact.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log.SetOutput(os.Stderr)
			opts.log.SetLevel(logrus.WarnLevel)
			if opts.verbose {
				opts.log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to .linc.yaml (default: nearest above the working directory)")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging to stderr")

	root.AddCommand(
		newCheckCmd(opts),
		newBumpCmd(opts),
		newChangelogCmd(opts),
		newCommitCmd(opts),
		newInitCmd(opts),
		newHookCmd(opts),
		newSchemaCmd(),
		newExampleCmd(),
		newInfoCmd(),
	)
	return root
}

// loadConfig resolves the effective configuration: the explicit --config
// path when set, otherwise the nearest .linc.yaml above the working
// directory, otherwise the builtin defaults.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.Load(opts.configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.LoadFromDir(wd)
}

// loadGrammar loads the configuration and compiles its grammar.
func loadGrammar(opts *rootOptions) (*config.Config, *message.Grammar, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	g, err := cfg.Grammar()
	if err != nil {
		return nil, nil, err
	}
	return cfg, g, nil
}

// openRepo returns a git client for the working directory, failing when
// it is not inside a repository.
func openRepo(ctx context.Context, opts *rootOptions) (*git.Client, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	c := newGitClient(wd, opts.log)
	if !c.IsRepository(ctx) {
		return nil, fmt.Errorf("%s is not inside a git repository", wd)
	}
	return c, nil
}

// writeOutput writes rendered bytes to the out file, or to stdout with a
// trailing newline for terminal friendliness.
func writeOutput(out string, data []byte) error {
	if out != "" {
		return os.WriteFile(out, data, 0o644)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
