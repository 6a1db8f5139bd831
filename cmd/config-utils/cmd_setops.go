package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"opskit/internal/confmap"
)

var setOps = []struct {
	use   string
	op    confmap.Operation
	short string
}{
	{"union", confmap.OpUnion, "Union of two YAML documents"},
	{"intersect", confmap.OpIntersect, "Intersection of two YAML documents"},
	{"diff", confmap.OpDiff, "Entries of FILE1 absent from FILE2"},
	{"rdiff", confmap.OpRDiff, "Entries of FILE2 absent from FILE1"},
	{"symdiff", confmap.OpSymDiff, "Entries in exactly one of the two documents"},
}

// setOpCommands builds one cobra command per set operation. All five share
// the same flags and differ only in the operation they run.
func setOpCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(setOps))
	for _, def := range setOps {
		op := def.op
		var (
			compare string
			depth   int
		)
		cmd := &cobra.Command{
			Use:   def.use + " FILE1 FILE2",
			Short: def.short,
			Long: def.short + `.

Both files must be YAML mappings. Documents are flattened to dotted keys up
to --depth levels (0 = fully flat) before comparison. With --compare kv an
entry matches only when both key and value agree; with --compare keys the
key alone decides membership. Values in the result come from FILE1 where
present (FILE2 for rdiff).`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSetOp(cmd, op, args[0], args[1], compare, depth)
			},
		}
		cmd.Flags().StringVarP(&compare, "compare", "c", "kv", "Comparison mode: kv or keys")
		cmd.Flags().IntVarP(&depth, "depth", "d", 1, "Flattening depth (0 = unlimited)")
		cmds = append(cmds, cmd)
	}
	return cmds
}

func runSetOp(cmd *cobra.Command, op confmap.Operation, path1, path2, compare string, depth int) error {
	var mode confmap.CompareMode
	switch compare {
	case "kv":
		mode = confmap.CompareKeyValue
	case "keys":
		mode = confmap.CompareKeys
	default:
		return fmt.Errorf("invalid compare mode %q (expected kv or keys)", compare)
	}

	left, err := confmap.LoadFile(path1)
	if err != nil {
		return err
	}
	right, err := confmap.LoadFile(path2)
	if err != nil {
		return err
	}

	logger.Debug("running set operation",
		zap.String("op", string(op)),
		zap.String("compare", compare),
		zap.Int("depth", depth),
		zap.Int("left_keys", len(left)),
		zap.Int("right_keys", len(right)))

	result := confmap.Perform(left, right, op, mode, depth)
	return confmap.Dump(cmd.OutOrStdout(), result)
}
