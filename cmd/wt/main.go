package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"opskit/internal/worktree"
)

var (
	// Global flags
	verbose bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wt",
	Short: "Git worktree manager",
	Long: `wt manages git worktrees with naming conventions: a worktree named
"feat" lives next to the repository as <repo>-feat on branch feature/feat.

The default base ref, branch prefix, and worktree directory are configured
per repository in a YAML file under the config directory (WT_CONFIG
overrides the location, WT_DEFAULT_BASE the base ref).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newManager locates the enclosing repository and builds a manager with its
// configuration.
func newManager(ctx context.Context) (*worktree.Manager, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := worktree.NewGit(cwd).TopLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("not inside a git repository: %w", err)
	}
	cfg, err := worktree.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	return worktree.NewManager(cfg, logger), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(cleanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
