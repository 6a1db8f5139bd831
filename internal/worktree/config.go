package worktree

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Config holds the per-repository settings for the worktree manager. It is
// persisted as a YAML file in the config directory, one file per repository.
type Config struct {
	// DefaultBase is the ref new worktrees branch from.
	DefaultBase string `yaml:"default_base"`

	// BranchPrefix is prepended to worktree names to form branch names.
	BranchPrefix string `yaml:"branch_prefix"`

	// WorktreeDir is where worktree checkouts are created. Defaults to the
	// parent directory of the repository.
	WorktreeDir string `yaml:"worktree_dir"`

	repoRoot string
	path     string
}

// envSettings are environment overrides, applied after the config file.
type envSettings struct {
	ConfigDir   string `env:"WT_CONFIG,default="`
	DefaultBase string `env:"WT_DEFAULT_BASE,default="`
}

// LoadConfig reads (or initializes) the configuration for the repository
// rooted at repoRoot.
func LoadConfig(repoRoot string) (*Config, error) {
	var env envSettings
	if err := envdecode.Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding environment: %w", err)
	}

	dir := env.ConfigDir
	if dir == "" {
		userDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locating config directory: %w", err)
		}
		dir = filepath.Join(userDir, "wt")
	}

	cfg := &Config{
		DefaultBase:  "origin/main",
		BranchPrefix: "feature/",
		WorktreeDir:  filepath.Dir(repoRoot),
		repoRoot:     repoRoot,
		path:         filepath.Join(dir, configFileName(repoRoot)),
	}

	raw, err := os.ReadFile(cfg.path)
	switch {
	case os.IsNotExist(err):
		// First run for this repository; defaults apply.
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", cfg.path, err)
		}
	}

	if env.DefaultBase != "" {
		cfg.DefaultBase = env.DefaultBase
	}
	return cfg, nil
}

// Save writes the configuration file, creating the config directory as
// needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0644)
}

// RepoRoot returns the repository this configuration belongs to.
func (c *Config) RepoRoot() string { return c.repoRoot }

// RepoName returns the repository directory name, used as the worktree path
// prefix.
func (c *Config) RepoName() string { return filepath.Base(c.repoRoot) }

// configFileName keys the config file by repository name plus a short hash
// of the full path, so same-named repositories in different locations do
// not share settings.
func configFileName(repoRoot string) string {
	h := fnv.New32a()
	h.Write([]byte(repoRoot))
	return fmt.Sprintf("%s-%08x.yaml", filepath.Base(repoRoot), h.Sum32())
}
