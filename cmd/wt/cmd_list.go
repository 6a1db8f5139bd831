package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List worktrees with their status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mgr, err := newManager(ctx)
		if err != nil {
			return err
		}
		infos, err := mgr.List(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, info := range infos {
			branch := info.Branch
			if info.Detached {
				branch = "(detached)"
			}

			status, err := mgr.Status(ctx, info)
			if err != nil {
				return err
			}
			dirty := "clean"
			if status.UncommittedCount > 0 {
				dirty = fmt.Sprintf("%d uncommitted", status.UncommittedCount)
			}

			fmt.Fprintf(out, "%-20s %-30s %-10s %s\n", info.Name, branch, dirty, info.Path)
		}
		return nil
	},
}
