package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"opskit/internal/locust"
)

var (
	// Global flags
	verbose  bool
	format   string
	colorize bool
	verdict  bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "locust-compare BASE CURRENT",
	Short: "Compare two Locust load-test runs",
	Long: `locust-compare reads two Locust run results and reports per-metric
deltas for the aggregated totals, each endpoint, and any per-feature HTML
reports found next to the CSVs.

BASE and CURRENT may each be a run directory (containing report.csv), a CSV
file, or a zip archive of a run directory.`,
	Args:         cobra.ExactArgs(2),
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
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	defer locust.Cleanup()

	var f locust.Format
	switch format {
	case "text":
		f = locust.FormatText
	case "json":
		f = locust.FormatJSON
	case "markdown":
		f = locust.FormatMarkdown
	default:
		return fmt.Errorf("invalid format %q (expected text, json, or markdown)", format)
	}

	logger.Debug("comparing runs",
		zap.String("base", args[0]),
		zap.String("current", args[1]),
		zap.String("format", format))

	comparison, err := locust.Compare(args[0], args[1])
	if err != nil {
		return err
	}

	return locust.Render(cmd.OutOrStdout(), comparison, locust.RenderOptions{
		Format:      f,
		Colorize:    colorize,
		ShowVerdict: verdict,
	})
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, or markdown")
	rootCmd.Flags().BoolVar(&colorize, "color", false, "Colorize text output")
	rootCmd.Flags().BoolVar(&verdict, "verdict", true, "Include verdict column in markdown output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
