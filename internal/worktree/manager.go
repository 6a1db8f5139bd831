package worktree

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Manager implements worktree operations for one repository, following the
// naming conventions from the configuration: a worktree named "feat" lives
// at <worktree_dir>/<repo>-feat on branch <branch_prefix>feat.
type Manager struct {
	git *Git
	cfg *Config
	log *zap.Logger
}

// NewManager builds a manager for the configured repository. A nil logger
// disables logging.
func NewManager(cfg *Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		git: NewGit(cfg.RepoRoot()),
		cfg: cfg,
		log: logger,
	}
}

// CreateOptions controls Create.
type CreateOptions struct {
	Base     string // ref to branch from; empty means the configured default
	Detached bool   // detached checkout, no branch
}

// DeleteOptions controls Delete.
type DeleteOptions struct {
	Force      bool // remove even with uncommitted changes
	KeepBranch bool // keep the branch after removing the worktree
}

// Status summarizes the dirtiness of one worktree.
type Status struct {
	UncommittedCount int
	UncommittedFiles string
}

// List returns the repository's worktrees with their conventional names.
func (m *Manager) List(ctx context.Context) ([]Info, error) {
	infos, err := m.git.Worktrees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range infos {
		infos[i].Name = m.nameFor(infos[i])
	}
	return infos, nil
}

// Default returns the main worktree (the repository checkout itself).
func (m *Manager) Default(ctx context.Context) (*Info, error) {
	infos, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, gitErrorf("repository has no worktrees")
	}
	return &infos[0], nil
}

// Find locates a worktree by its conventional name or by its full branch
// name. Returns nil when no worktree matches.
func (m *Manager) Find(ctx context.Context, name string) (*Info, error) {
	infos, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range infos {
		if infos[i].Name == name || (infos[i].Branch != "" && infos[i].Branch == name) {
			return &infos[i], nil
		}
	}
	return nil, nil
}

// Create makes a new worktree named name. The branch <prefix><name> is
// reused if it already exists, otherwise created from the base ref.
// Returns the worktree path.
func (m *Manager) Create(ctx context.Context, name string, opts CreateOptions) (string, error) {
	existing, err := m.Find(ctx, name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", gitErrorf("worktree '%s' already exists at %s", name, existing.Path)
	}

	path := m.worktreePath(name)
	if _, err := os.Stat(path); err == nil {
		return "", gitErrorf("worktree path already exists: %s", path)
	}

	base := opts.Base
	if base == "" {
		base = m.cfg.DefaultBase
	}

	branch := m.cfg.BranchPrefix + name
	switch {
	case opts.Detached:
		err = m.git.AddWorktree(ctx, path, "", base, false, true)
	case m.git.BranchExists(ctx, branch):
		err = m.git.AddWorktree(ctx, path, branch, "", false, false)
	default:
		err = m.git.AddWorktree(ctx, path, branch, base, true, false)
	}
	if err != nil {
		return "", err
	}

	m.log.Debug("created worktree",
		zap.String("name", name),
		zap.String("path", path),
		zap.String("branch", branch),
		zap.Bool("detached", opts.Detached))
	return path, nil
}

// Checkout creates a worktree for an existing branch. The worktree name is
// derived from the branch's last path segment unless overridden.
func (m *Manager) Checkout(ctx context.Context, branch, name string) (string, error) {
	if !m.git.BranchExists(ctx, branch) {
		return "", gitErrorf("branch '%s' does not exist", branch)
	}

	infos, err := m.git.Worktrees(ctx)
	if err != nil {
		return "", err
	}
	for _, info := range infos {
		if info.Branch == branch {
			return "", gitErrorf("branch '%s' already has a worktree at %s", branch, info.Path)
		}
	}

	if name == "" {
		name = deriveNameFromBranch(branch)
	}
	path := m.worktreePath(name)
	if _, err := os.Stat(path); err == nil {
		return "", gitErrorf("worktree path already exists: %s", path)
	}

	if err := m.git.AddWorktree(ctx, path, branch, "", false, false); err != nil {
		return "", err
	}

	m.log.Debug("checked out branch into worktree",
		zap.String("branch", branch),
		zap.String("name", name),
		zap.String("path", path))
	return path, nil
}

// Delete removes a worktree and, unless kept, its branch.
func (m *Manager) Delete(ctx context.Context, name string, opts DeleteOptions) error {
	info, err := m.Find(ctx, name)
	if err != nil {
		return err
	}
	if info == nil {
		return gitErrorf("worktree '%s' not found", name)
	}
	if m.isDefault(*info) {
		return gitErrorf("cannot delete the default worktree")
	}

	if !opts.Force {
		status, err := m.Status(ctx, *info)
		if err != nil {
			return err
		}
		if status.UncommittedCount > 0 {
			return gitErrorf("worktree '%s' has %d uncommitted changes, use --force to delete anyway",
				name, status.UncommittedCount)
		}
	}

	if err := m.git.RemoveWorktree(ctx, info.Path, opts.Force); err != nil {
		return err
	}
	if !opts.KeepBranch && info.Branch != "" {
		if err := m.git.DeleteBranch(ctx, info.Branch, true); err != nil {
			return err
		}
	}

	m.log.Debug("deleted worktree",
		zap.String("name", name),
		zap.String("path", info.Path),
		zap.Bool("kept_branch", opts.KeepBranch))
	return nil
}

// CleanMerged removes worktrees whose branches are fully merged into the
// configured default base. In dry-run mode it only reports the candidates.
// Returns the names of the worktrees removed (or that would be removed).
func (m *Manager) CleanMerged(ctx context.Context, dryRun, force bool) ([]string, error) {
	merged, err := m.git.MergedBranches(ctx, m.cfg.DefaultBase)
	if err != nil {
		return nil, err
	}
	mergedSet := make(map[string]bool, len(merged))
	for _, b := range merged {
		mergedSet[b] = true
	}

	infos, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, info := range infos {
		if m.isDefault(info) || info.Branch == "" || !mergedSet[info.Branch] {
			continue
		}
		if !dryRun {
			if err := m.Delete(ctx, info.Name, DeleteOptions{Force: force}); err != nil {
				return removed, err
			}
		}
		removed = append(removed, info.Name)
	}
	return removed, nil
}

// Status reports uncommitted changes in a worktree.
func (m *Manager) Status(ctx context.Context, info Info) (Status, error) {
	out, err := m.git.StatusPorcelain(ctx, info.Path)
	if err != nil {
		return Status{}, err
	}
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return Status{}, nil
	}
	lines := strings.Split(out, "\n")
	return Status{
		UncommittedCount: len(lines),
		UncommittedFiles: out,
	}, nil
}

func (m *Manager) worktreePath(name string) string {
	return filepath.Join(m.cfg.WorktreeDir, m.cfg.RepoName()+"-"+name)
}

func (m *Manager) isDefault(info Info) bool {
	return filepath.Clean(info.Path) == filepath.Clean(m.cfg.RepoRoot()) ||
		filepath.Base(info.Path) == m.cfg.RepoName()
}

// nameFor derives the conventional worktree name: the branch for the main
// worktree, otherwise the path basename with the repository prefix
// stripped.
func (m *Manager) nameFor(info Info) string {
	if m.isDefault(info) {
		if info.Branch != "" {
			return info.Branch
		}
		return m.cfg.RepoName()
	}
	base := filepath.Base(info.Path)
	return strings.TrimPrefix(base, m.cfg.RepoName()+"-")
}

// deriveNameFromBranch maps a branch name to a worktree name by taking the
// last slash-separated segment, so "fix/login-bug" becomes "login-bug".
func deriveNameFromBranch(branch string) string {
	parts := strings.Split(branch, "/")
	return parts[len(parts)-1]
}
