package cmd

import (
	"github.com/huangsam/sloc/core"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd counts lines per language for a single project.
var reportCmd = &cobra.Command{
	Use:   "report [project-path]",
	Short: "Count total, source and comment lines per language",
	Long: `Walk a project and classify every line of every matching file.

Each registered language is scanned in parallel. Files are matched by
extension, filtered by the exclude globs, and counted as total, source
and comment lines. Languages without code are omitted from the output.

Files that cannot be read are skipped and counted in the summary.

Examples:
  # Report on the current directory
  sloc report

  # Only Go and Shell, ignoring vendored code
  sloc report ./myproject --languages Go,Shell --exclude "vendor/**"

  # Markdown lines suitable for a README
  sloc report --output markdown --owner huangsam --repo sloc`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}
