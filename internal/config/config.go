// Package config loads project configuration from .linc.yaml: the issue
// pattern, custom verbs, and release settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lincommit/linc/internal/bump"
	"github.com/lincommit/linc/internal/convention"
	"github.com/lincommit/linc/internal/message"
)

// FileName is the project configuration file looked up at the repo root
// and its ancestors.
const FileName = ".linc.yaml"

const starterYAML = `# linc project configuration
# Commit validation and version bumping for Linear-style messages.

# Regex for issue IDs. The default accepts IDs like ENG-123:
# two or more uppercase letters, a dash, and a number.
#issue_pattern: "^[A-Z]{2,}-[0-9]+$"

# Extra verbs merged over the builtin vocabulary. Custom entries win on
# conflict. Increments: MAJOR, MINOR, PATCH, NONE.
#custom_verbs:
#  Deployed: PATCH
#  Rewrote: MAJOR

# Prefix for release tags.
tag_prefix: "v"

# Commit subject used for the release commit. {current} and {new} expand
# to the old and new versions.
#bump_message: "bump: version {current} → {new}"

# Files whose version strings are rewritten on bump. Entries are "path"
# or "path:hint"; with a hint only lines containing it are touched.
#version_files:
#  - VERSION
#  - internal/version/version.go:Version =
`

// Config models .linc.yaml.
type Config struct {
	IssuePattern string            `yaml:"issue_pattern"`
	CustomVerbs  map[string]string `yaml:"custom_verbs"`
	TagPrefix    string            `yaml:"tag_prefix"`
	BumpMessage  string            `yaml:"bump_message"`
	VersionFiles []string          `yaml:"version_files"`
}

// Default returns the builtin configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &parsed, nil
}

// Find walks from dir toward the filesystem root and returns the nearest
// .linc.yaml. ok is false when no ancestor has one.
func Find(dir string) (path string, ok bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadFromDir loads the nearest configuration above dir, or the defaults
// when no file exists.
func LoadFromDir(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Init writes the commented starter file into dir. It refuses to
// overwrite an existing configuration.
func Init(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := os.WriteFile(path, []byte(starterYAML), 0o644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

func (c *Config) applyDefaults() {
	if c.IssuePattern == "" {
		c.IssuePattern = convention.DefaultIssuePattern
	}
	if c.TagPrefix == "" {
		c.TagPrefix = "v"
	}
	// BumpMessage stays empty; bump.BuildPlan fills its own default.
}

func (c *Config) normalize() {
	c.IssuePattern = strings.TrimSpace(c.IssuePattern)
	c.TagPrefix = strings.TrimSpace(c.TagPrefix)
	c.BumpMessage = strings.TrimSpace(c.BumpMessage)

	if len(c.CustomVerbs) > 0 {
		verbs := make(map[string]string, len(c.CustomVerbs))
		for verb, inc := range c.CustomVerbs {
			verbs[strings.TrimSpace(verb)] = strings.TrimSpace(inc)
		}
		c.CustomVerbs = verbs
	}

	for i, entry := range c.VersionFiles {
		c.VersionFiles[i] = strings.TrimSpace(entry)
	}
}

func (c *Config) validate() error {
	if _, err := message.NewGrammar(c.IssuePattern, nil); err != nil {
		return fmt.Errorf("issue_pattern: %w", err)
	}
	for verb, inc := range c.CustomVerbs {
		if verb == "" {
			return fmt.Errorf("custom_verbs: verb name must not be empty")
		}
		if _, err := convention.ParseIncrement(inc); err != nil {
			return fmt.Errorf("custom_verbs: %q: %w", verb, err)
		}
	}
	for _, entry := range c.VersionFiles {
		if entry == "" || strings.HasPrefix(entry, ":") {
			return fmt.Errorf("version_files: entry %q has no path", entry)
		}
	}
	return nil
}

// Catalog builds the effective verb catalog: builtin vocabulary merged
// with the configured custom verbs.
func (c *Config) Catalog() (*convention.Catalog, error) {
	if len(c.CustomVerbs) == 0 {
		return convention.Builtin(), nil
	}
	custom := make(map[string]convention.Increment, len(c.CustomVerbs))
	for verb, inc := range c.CustomVerbs {
		parsed, err := convention.ParseIncrement(inc)
		if err != nil {
			return nil, fmt.Errorf("config: custom_verbs %q: %w", verb, err)
		}
		custom[verb] = parsed
	}
	return convention.New(custom)
}

// Grammar builds the message grammar from the configured issue pattern
// and catalog.
func (c *Config) Grammar() (*message.Grammar, error) {
	catalog, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	return message.NewGrammar(c.IssuePattern, catalog)
}

// ParsedVersionFiles converts the version_files entries into their path
// and optional hint parts.
func (c *Config) ParsedVersionFiles() []bump.VersionFile {
	files := make([]bump.VersionFile, 0, len(c.VersionFiles))
	for _, entry := range c.VersionFiles {
		path, hint, _ := strings.Cut(entry, ":")
		files = append(files, bump.VersionFile{Path: path, Hint: hint})
	}
	return files
}
