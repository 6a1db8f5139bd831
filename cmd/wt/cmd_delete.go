package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"opskit/internal/worktree"
)

var (
	deleteForce      bool
	deleteKeepBranch bool

	cleanDryRun bool
	cleanForce  bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a worktree and its branch",
	Long: `Removes the named worktree and deletes its branch unless
--keep-branch is given. Worktrees with uncommitted changes require --force.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		err = mgr.Delete(cmd.Context(), args[0], worktree.DeleteOptions{
			Force:      deleteForce,
			KeepBranch: deleteKeepBranch,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted worktree '%s'\n", args[0])
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove worktrees whose branches are merged",
	Long: `Removes every worktree whose branch is fully merged into the
configured default base. With --dry-run the candidates are only listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		removed, err := mgr.CleanMerged(cmd.Context(), cleanDryRun, cleanForce)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(removed) == 0 {
			fmt.Fprintln(out, "Nothing to clean")
			return nil
		}
		verb := "Removed"
		if cleanDryRun {
			verb = "Would remove"
		}
		for _, name := range removed {
			fmt.Fprintf(out, "%s worktree '%s'\n", verb, name)
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete even with uncommitted changes")
	deleteCmd.Flags().BoolVar(&deleteKeepBranch, "keep-branch", false, "Keep the branch after removing the worktree")

	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "List candidates without removing them")
	cleanCmd.Flags().BoolVarP(&cleanForce, "force", "f", false, "Remove even with uncommitted changes")
}
