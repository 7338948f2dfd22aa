package cmd

import (
	"github.com/huangsam/sloc/core"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd summarizes a project and lists its biggest files.
var metricsCmd = &cobra.Command{
	Use:   "metrics [project-path]",
	Short: "Summarize a project with totals per language and its biggest files",
	Long: `Compute code metrics for a project: line totals per language,
file counts and the largest files by line count.

Results are cached per project fingerprint. An unchanged project is
answered from the cache until the entry is older than --cache-ttl.

Examples:
  # Metrics for the current directory
  sloc metrics

  # Top 5 files as JSON
  sloc metrics ./myproject --top 5 --output json

  # Bypass the persistent cache
  sloc metrics --cache-backend none`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute metrics", err)
		}
	},
}
