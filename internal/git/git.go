package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Commit is one commit read from the log.
type Commit struct {
	Hash    string
	Subject string
	Body    string
}

// Message returns the full commit message: subject plus body.
func (c Commit) Message() string {
	if c.Body == "" {
		return c.Subject
	}
	return c.Subject + "\n\n" + c.Body
}

// ShortHash returns the abbreviated hash used in listings.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Client runs git operations against one repository directory.
type Client struct {
	dir  string
	exec CommandExecutor
	log  logrus.FieldLogger
}

// New returns a client for the repository at dir. A nil executor gets the
// default ExecExecutor; a nil logger gets the standard logger.
func New(dir string, executor CommandExecutor, log logrus.FieldLogger) *Client {
	if executor == nil {
		executor = NewExecExecutor()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{dir: dir, exec: executor, log: log}
}

// IsRepository reports whether the client's directory is inside a git
// work tree.
func (c *Client) IsRepository(ctx context.Context) bool {
	_, err := c.output(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// TopLevel returns the root of the work tree.
func (c *Client) TopLevel(ctx context.Context) (string, error) {
	out, err := c.output(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// LatestTag returns the highest version-sorted tag starting with prefix,
// or ErrNoTag when none exists. Tags are compared with git's version sort
// so "v1.10.0" outranks "v1.9.0".
func (c *Client) LatestTag(ctx context.Context, prefix string) (string, error) {
	out, err := c.output(ctx, "for-each-ref", "refs/tags",
		"--sort=-v:refname", "--format=%(refname:strip=2)")
	if err != nil {
		return "", err
	}
	for _, tag := range strings.Split(out, "\n") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if strings.HasPrefix(tag, prefix) {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w: prefix %q", ErrNoTag, prefix)
}

// logFieldSep and logEntrySep delimit fields and entries in log output.
// NUL-delimited entries survive multi-line bodies.
const (
	logFieldSep = "\x1f"
	logEntrySep = "\x00"
)

// CommitsInRange returns the commits in rev (a revision range such as
// "v1.2.3..HEAD"), newest first. An empty rev returns the full history
// of HEAD.
func (c *Client) CommitsInRange(ctx context.Context, rev string) ([]Commit, error) {
	args := []string{"log", "-z", "--format=%H" + logFieldSep + "%s" + logFieldSep + "%b"}
	if rev != "" {
		args = append(args, rev)
	} else {
		args = append(args, "HEAD")
	}

	out, err := c.output(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parseLog(out), nil
}

// CommitsSince returns the commits after rev up to HEAD, newest first.
// An empty rev returns the full history.
func (c *Client) CommitsSince(ctx context.Context, rev string) ([]Commit, error) {
	if rev == "" {
		return c.CommitsInRange(ctx, "")
	}
	return c.CommitsInRange(ctx, rev+"..HEAD")
}

// parseLog splits NUL-delimited "hash<US>subject<US>body" entries.
func parseLog(out string) []Commit {
	var commits []Commit
	for _, entry := range strings.Split(out, logEntrySep) {
		entry = strings.TrimLeft(entry, "\n")
		if strings.TrimSpace(entry) == "" {
			continue
		}
		fields := strings.SplitN(entry, logFieldSep, 3)
		if len(fields) != 3 {
			continue
		}
		commits = append(commits, Commit{
			Hash:    strings.TrimSpace(fields[0]),
			Subject: strings.TrimSpace(fields[1]),
			Body:    strings.TrimSpace(fields[2]),
		})
	}
	return commits
}

// Commit stages paths (when given) and records a commit with message.
func (c *Client) Commit(ctx context.Context, message string, paths []string) error {
	if len(paths) > 0 {
		addArgs := append([]string{"add", "--"}, paths...)
		if err := c.run(ctx, addArgs...); err != nil {
			return err
		}
	}
	return c.run(ctx, "commit", "-m", message)
}

// CreateAnnotatedTag creates annotated tag name with the given message.
func (c *Client) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	return c.run(ctx, "tag", "-a", name, "-m", message)
}

// HasStagedChanges reports whether the index differs from HEAD.
func (c *Client) HasStagedChanges(ctx context.Context) (bool, error) {
	out, err := c.output(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (c *Client) run(ctx context.Context, args ...string) error {
	c.log.WithField("args", strings.Join(args, " ")).Debug("running git")
	return c.exec.Execute(ctx, c.command(ctx, args...))
}

func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	c.log.WithField("args", strings.Join(args, " ")).Debug("running git")
	return c.exec.ExecuteWithOutput(ctx, c.command(ctx, args...))
}

func (c *Client) command(ctx context.Context, args ...string) *exec.Cmd {
	full := append([]string{"-C", c.dir}, args...)
	return exec.CommandContext(ctx, "git", full...)
}
