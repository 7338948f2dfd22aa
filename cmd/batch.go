package cmd

import (
	"github.com/huangsam/sloc/core"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/spf13/cobra"
)

// batchCmd reports several projects and their totals.
var batchCmd = &cobra.Command{
	Use:   "batch <project-path>...",
	Short: "Report several projects and consolidate totals per language",
	Long: `Run the report for every project path, then add up the lines of
each language across projects. A language only appears in the totals
if at least one project has code for it.

Examples:
  # Compare two services
  sloc batch ./api ./worker

  # Totals as CSV
  sloc batch ~/src/* --output csv --output-file totals.csv`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: batchSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBatch(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run batch", err)
		}
	},
}
