package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/internal/iocache"
	"github.com/huangsam/sloc/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheConfig loads the minimal configuration needed for cache operations.
// It does not open the store, so clear and migrate work on a fresh database.
func cacheConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetupWrapper loads the cache config and opens the store.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := cacheConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheConfigWrapper loads the cache config without touching the store.
func cacheConfigWrapper(_ *cobra.Command, _ []string) error {
	return cacheConfig()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup used by scan commands. No project path is validated.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the code metrics cache",
	Long: `Manage the cache that lets 'sloc metrics' skip rescanning unchanged projects.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Move the cache schema to a given version

Examples:
  # Check cache status
  sloc cache status

  # Clear the cache
  sloc cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached code metrics",
	Long: `Delete all cached code metrics from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache and migration tables

Examples:
  # Clear SQLite cache (default)
  sloc cache clear

  # Clear MySQL cache (set connection string via env variable)
  SLOC_CACHE_BACKEND=mysql SLOC_CACHE_DB_CONNECT="..." sloc cache clear`,
	PreRunE: cacheConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, schema version, entry count, entry timestamps
and table size of the code metrics cache.

Examples:
  sloc cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetMetricsStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cacheMigrateCmd runs database migrations for the cache store.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run cache schema migrations (upgrades/downgrades)",
	Long: `Manage the schema version of the code metrics cache.

The cache is migrated to the latest version whenever it is opened, so
this is mainly useful for rolling back or inspecting a database.

Examples:
  # Migrate to latest version (default)
  sloc cache migrate

  # Rollback to the initial state
  sloc cache migrate --target-version 0`,
	PreRunE: cacheConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateCache(cfg.CacheBackend, cfg.CacheDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
