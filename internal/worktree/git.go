// Package worktree manages git worktrees for a repository, applying naming
// conventions for worktree paths and feature branches. All git interaction
// shells out to the git binary.
package worktree

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// GitError reports a failed git invocation or an invalid worktree request.
type GitError struct {
	Msg string
	Err error
}

func (e *GitError) Error() string { return e.Msg }

func (e *GitError) Unwrap() error { return e.Err }

func gitErrorf(format string, args ...any) *GitError {
	return &GitError{Msg: fmt.Sprintf(format, args...)}
}

// Git runs git commands inside one repository with a bounded timeout per
// invocation.
type Git struct {
	Dir     string
	Timeout time.Duration
}

// NewGit returns a runner for the repository at dir.
func NewGit(dir string) *Git {
	return &Git{Dir: dir, Timeout: 30 * time.Second}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	timeout := g.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", &GitError{
			Msg: fmt.Sprintf("git %s: %s", strings.Join(args, " "), msg),
			Err: err,
		}
	}
	return stdout.String(), nil
}

// TopLevel returns the repository root for the runner's directory.
func (g *Git) TopLevel(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BranchExists reports whether a local branch exists.
func (g *Git) BranchExists(ctx context.Context, branch string) bool {
	_, err := g.run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// CreateBranch creates a local branch at base without checking it out.
func (g *Git) CreateBranch(ctx context.Context, branch, base string) error {
	_, err := g.run(ctx, "branch", branch, base)
	return err
}

// DeleteBranch removes a local branch; force uses -D.
func (g *Git) DeleteBranch(ctx context.Context, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := g.run(ctx, "branch", flag, branch)
	return err
}

// AddWorktree registers a worktree at path. With branch == "" and detached
// set, the worktree is created detached at ref. With newBranch set, the
// branch is created at ref as part of the add.
func (g *Git) AddWorktree(ctx context.Context, path, branch, ref string, newBranch, detached bool) error {
	args := []string{"worktree", "add"}
	switch {
	case detached:
		args = append(args, "--detach", path, ref)
	case newBranch:
		args = append(args, "-b", branch, path, ref)
	default:
		args = append(args, path, branch)
	}
	_, err := g.run(ctx, args...)
	return err
}

// RemoveWorktree unregisters the worktree at path.
func (g *Git) RemoveWorktree(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	_, err := g.run(ctx, args...)
	return err
}

// StatusPorcelain returns `git status --porcelain` output for dir.
func (g *Git) StatusPorcelain(ctx context.Context, dir string) (string, error) {
	sub := &Git{Dir: dir, Timeout: g.Timeout}
	return sub.run(ctx, "status", "--porcelain")
}

// MergedBranches lists local branches fully merged into base.
func (g *Git) MergedBranches(ctx context.Context, base string) ([]string, error) {
	out, err := g.run(ctx, "branch", "--merged", base, "--format", "%(refname:short)")
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// Info describes one registered worktree.
type Info struct {
	Name     string
	Path     string
	Branch   string
	Head     string
	Detached bool
}

// Worktrees lists the repository's registered worktrees in registration
// order (the main worktree first).
func (g *Git) Worktrees(ctx context.Context) ([]Info, error) {
	out, err := g.run(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseWorktreeList(out), nil
}

// parseWorktreeList decodes `git worktree list --porcelain` output: blocks
// of attribute lines separated by blank lines, each starting with the
// worktree path.
func parseWorktreeList(out string) []Info {
	var (
		infos   []Info
		current *Info
	)
	flush := func() {
		if current != nil {
			infos = append(infos, *current)
			current = nil
		}
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &Info{Path: strings.TrimPrefix(line, "worktree ")}
		case current == nil:
			// Attribute before any worktree line; ignore.
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "detached":
			current.Detached = true
		}
	}
	flush()
	return infos
}
