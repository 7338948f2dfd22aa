// Package cmd defines the command-line interface for sloc.
package cmd

import (
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent file workers per language")
	rootCmd.PersistentFlags().Int("language-fanout", contract.DefaultLanguageFanout, "Number of languages scanned at the same time")
	rootCmd.PersistentFlags().String("timeout", "", "Abort the scan after this duration (e.g. 30s, 5m)")
	rootCmd.PersistentFlags().StringP("languages", "L", "", "Comma-separated list of languages to scan (default: all registered)")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of glob patterns to ignore (e.g. vendor/**)")
	rootCmd.PersistentFlags().String("registry-file", "", "Path to a YAML file that extends or overrides the language registry")
	rootCmd.PersistentFlags().String("tokenizer", string(schema.BuiltinTokenizer), "Comment tokenizer: builtin or scc")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or markdown or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "Maximum age of a cached metrics entry")
	rootCmd.PersistentFlags().String("url", "", "Project URL shown in reports")
	rootCmd.PersistentFlags().String("owner", "", "Project owner shown in reports")
	rootCmd.PersistentFlags().String("repo", "", "Project name (default: directory name)")
	rootCmd.PersistentFlags().String("branch", "", "Branch recorded with the metrics")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of metricsCmd to Viper
	metricsCmd.Flags().IntP("top", "n", schema.DefaultTopFiles, "Number of biggest files to list")
	if err := viper.BindPFlags(metricsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding metrics flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
