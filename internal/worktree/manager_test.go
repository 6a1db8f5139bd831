package worktree

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// newTestRepo builds a real git repository with one commit on main and
// returns a manager configured against it. Skips when git is unavailable.
func newTestRepo(t *testing.T) (*Manager, string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	root := filepath.Join(t.TempDir(), "test-repo")
	require.NoError(t, os.MkdirAll(root, 0755))

	initCmd := exec.Command("git", "init", "-b", "main")
	initCmd.Dir = root
	if _, err := initCmd.CombinedOutput(); err != nil {
		// Older git without -b support.
		mustGit(t, root, "init")
		mustGit(t, root, "symbolic-ref", "HEAD", "refs/heads/main")
	}
	mustGit(t, root, "config", "user.email", "wt@example.com")
	mustGit(t, root, "config", "user.name", "wt tests")
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# test\n"), 0644))
	mustGit(t, root, "add", ".")
	mustGit(t, root, "commit", "-m", "initial commit")

	t.Setenv("WT_CONFIG", t.TempDir())

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	cfg.DefaultBase = "main" // no remotes in test repos
	require.NoError(t, cfg.Save())

	return NewManager(cfg, zap.NewNop()), root
}

func TestManager_List(t *testing.T) {
	m, root := newTestRepo(t)

	infos, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "main", infos[0].Name)
	assert.Equal(t, filepath.Base(root), filepath.Base(infos[0].Path))
}

func TestManager_Default(t *testing.T) {
	m, _ := newTestRepo(t)

	def, err := m.Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", def.Name)
}

func TestManager_Create(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	path, err := m.Create(ctx, "feat", CreateOptions{})
	require.NoError(t, err)

	assert.DirExists(t, path)
	assert.Equal(t, "test-repo-feat", filepath.Base(path))
	assert.True(t, m.git.BranchExists(ctx, "feature/feat"))
}

func TestManager_CreateWithBase(t *testing.T) {
	m, _ := newTestRepo(t)

	path, err := m.Create(context.Background(), "feat", CreateOptions{Base: "main"})
	require.NoError(t, err)
	assert.DirExists(t, path)
}

func TestManager_CreateDetached(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	path, err := m.Create(ctx, "exp", CreateOptions{Detached: true})
	require.NoError(t, err)
	assert.DirExists(t, path)
	assert.False(t, m.git.BranchExists(ctx, "feature/exp"))
}

func TestManager_CreateDuplicate(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := m.Create(ctx, "feat", CreateOptions{})
	require.NoError(t, err)

	_, err = m.Create(ctx, "feat", CreateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestManager_Find(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	wt, err := m.Find(ctx, "main")
	require.NoError(t, err)
	require.NotNil(t, wt)
	assert.Equal(t, "main", wt.Branch)

	_, err = m.Create(ctx, "feat", CreateOptions{})
	require.NoError(t, err)

	byName, err := m.Find(ctx, "feat")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "feature/feat", byName.Branch)

	byBranch, err := m.Find(ctx, "feature/feat")
	require.NoError(t, err)
	require.NotNil(t, byBranch)
	assert.Equal(t, byName.Path, byBranch.Path)

	missing, err := m.Find(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestManager_Delete(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := m.Create(ctx, "feat", CreateOptions{})
	require.NoError(t, err)
	require.True(t, m.git.BranchExists(ctx, "feature/feat"))

	require.NoError(t, m.Delete(ctx, "feat", DeleteOptions{Force: true}))
	assert.False(t, m.git.BranchExists(ctx, "feature/feat"))
}

func TestManager_DeleteKeepBranch(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := m.Create(ctx, "feat", CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "feat", DeleteOptions{Force: true, KeepBranch: true}))
	assert.True(t, m.git.BranchExists(ctx, "feature/feat"))
}

func TestManager_CreateReusesExistingBranch(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := m.Create(ctx, "feat", CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, "feat", DeleteOptions{Force: true, KeepBranch: true}))
	require.True(t, m.git.BranchExists(ctx, "feature/feat"))

	path, err := m.Create(ctx, "feat", CreateOptions{})
	require.NoError(t, err)
	assert.DirExists(t, path)

	wt, err := m.Find(ctx, "feat")
	require.NoError(t, err)
	require.NotNil(t, wt)
	assert.Equal(t, "feature/feat", wt.Branch)
}

func TestManager_DeleteNonexistent(t *testing.T) {
	m, _ := newTestRepo(t)

	err := m.Delete(context.Background(), "nonexistent", DeleteOptions{Force: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestManager_DeleteDirtyWithoutForce(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	path, err := m.Create(ctx, "feat", CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(path, "dirty.txt"), []byte("x"), 0644))

	err = m.Delete(ctx, "feat", DeleteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uncommitted")
}

func TestManager_Status(t *testing.T) {
	m, root := newTestRepo(t)
	ctx := context.Background()

	t.Run("clean", func(t *testing.T) {
		infos, err := m.List(ctx)
		require.NoError(t, err)
		status, err := m.Status(ctx, infos[0])
		require.NoError(t, err)
		assert.Equal(t, 0, status.UncommittedCount)
		assert.Equal(t, "", status.UncommittedFiles)
	})

	t.Run("uncommitted changes", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "test.txt"), []byte("test"), 0644))
		infos, err := m.List(ctx)
		require.NoError(t, err)
		status, err := m.Status(ctx, infos[0])
		require.NoError(t, err)
		assert.Greater(t, status.UncommittedCount, 0)
		assert.Contains(t, status.UncommittedFiles, "test.txt")
	})
}

func TestManager_CleanMerged(t *testing.T) {
	t.Run("nothing to clean", func(t *testing.T) {
		m, _ := newTestRepo(t)
		removed, err := m.CleanMerged(context.Background(), false, true)
		require.NoError(t, err)
		assert.Empty(t, removed)
	})

	t.Run("dry run removes nothing", func(t *testing.T) {
		m, _ := newTestRepo(t)
		ctx := context.Background()
		_, err := m.Create(ctx, "feat", CreateOptions{})
		require.NoError(t, err)

		removed, err := m.CleanMerged(ctx, true, true)
		require.NoError(t, err)
		assert.Contains(t, removed, "feat") // at the base tip, so merged

		wt, err := m.Find(ctx, "feat")
		require.NoError(t, err)
		assert.NotNil(t, wt, "dry run must not remove worktrees")
	})
}

func TestManager_Checkout(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, m.git.CreateBranch(ctx, "fix/login-bug", "HEAD"))

	path, err := m.Checkout(ctx, "fix/login-bug", "")
	require.NoError(t, err)
	assert.DirExists(t, path)

	wt, err := m.Find(ctx, "login-bug")
	require.NoError(t, err)
	require.NotNil(t, wt)
	assert.Equal(t, "fix/login-bug", wt.Branch)

	byBranch, err := m.Find(ctx, "fix/login-bug")
	require.NoError(t, err)
	require.NotNil(t, byBranch)
	assert.Equal(t, wt.Path, byBranch.Path)

	infos, err := m.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "login-bug")
}

func TestManager_CheckoutCustomName(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, m.git.CreateBranch(ctx, "fix/login-bug", "HEAD"))

	path, err := m.Checkout(ctx, "fix/login-bug", "review-login")
	require.NoError(t, err)
	assert.DirExists(t, path)

	wt, err := m.Find(ctx, "review-login")
	require.NoError(t, err)
	require.NotNil(t, wt)
	assert.Equal(t, "fix/login-bug", wt.Branch)
}

func TestManager_CheckoutErrors(t *testing.T) {
	m, _ := newTestRepo(t)
	ctx := context.Background()

	t.Run("nonexistent branch", func(t *testing.T) {
		_, err := m.Checkout(ctx, "nonexistent/branch", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("branch already has a worktree", func(t *testing.T) {
		require.NoError(t, m.git.CreateBranch(ctx, "fix/login-bug", "HEAD"))
		_, err := m.Checkout(ctx, "fix/login-bug", "")
		require.NoError(t, err)

		_, err = m.Checkout(ctx, "fix/login-bug", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already has a worktree")
	})

	t.Run("derived name conflict", func(t *testing.T) {
		require.NoError(t, m.git.CreateBranch(ctx, "fix/bug", "HEAD"))
		require.NoError(t, m.git.CreateBranch(ctx, "hotfix/bug", "HEAD"))

		_, err := m.Checkout(ctx, "fix/bug", "")
		require.NoError(t, err)

		_, err = m.Checkout(ctx, "hotfix/bug", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}
