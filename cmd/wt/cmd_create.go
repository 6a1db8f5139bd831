package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"opskit/internal/worktree"
)

var (
	createBase     string
	createDetached bool

	checkoutName string
)

var createCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new worktree with a feature branch",
	Long: `Creates a worktree at <worktree_dir>/<repo>-NAME on branch
<branch_prefix>NAME. The branch is created from the default base ref (or
--base) unless it already exists, in which case it is checked out as-is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		path, err := mgr.Create(cmd.Context(), args[0], worktree.CreateOptions{
			Base:     createBase,
			Detached: createDetached,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created worktree '%s' at %s\n", args[0], path)
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout BRANCH",
	Short: "Create a worktree for an existing branch",
	Long: `Creates a worktree checking out an existing branch. The worktree name
is the branch's last path segment ("fix/login-bug" becomes "login-bug")
unless overridden with --name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		path, err := mgr.Checkout(cmd.Context(), args[0], checkoutName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Checked out '%s' at %s\n", args[0], path)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createBase, "base", "b", "", "Base ref for the new branch (default: configured default_base)")
	createCmd.Flags().BoolVar(&createDetached, "detached", false, "Create a detached worktree without a branch")

	checkoutCmd.Flags().StringVarP(&checkoutName, "name", "n", "", "Worktree name (default: derived from the branch)")
}
