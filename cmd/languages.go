package cmd

import (
	"github.com/huangsam/sloc/core"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/spf13/cobra"
)

// languagesCmd prints the effective language registry.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the registered languages",
	Long: `Show every language sloc knows about: its extensions, default
exclude globs and how its comments are recognized.

Use --registry-file to check the result of a custom registry.

Examples:
  sloc languages
  sloc languages --registry-file languages.yaml --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLanguages(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list languages", err)
		}
	},
}
