package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/huangsam/sloc/internal/languages"
	"github.com/huangsam/sloc/schema"
)

// Default values for configuration.
const (
	DefaultLanguageFanout = 4
	MaxLanguageFanout     = 64
	MaxWorkers            = 1000
	DefaultCacheTTL       = 7 * 24 * time.Hour
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a scan.
// This struct is the "final, validated" config.
type Config struct {
	ProjectPath  string
	ProjectPaths []string // batch mode only
	Identity     schema.ProjectIdentity

	Workers        int
	LanguageFanout int
	Timeout        time.Duration // 0 means no deadline

	Registry     *languages.Registry
	RegistryFile string
	Requests     []schema.LanguageRequest
	Excludes     []string
	Tokenizer    schema.TokenizerBackend

	TopN       int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	ProjectPathStr  string
	ProjectPathStrs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Workers        int    `mapstructure:"workers"`
	LanguageFanout int    `mapstructure:"language-fanout"`
	Timeout        string `mapstructure:"timeout"`
	Languages      string `mapstructure:"languages"`
	Exclude        string `mapstructure:"exclude"`
	RegistryFile   string `mapstructure:"registry-file"`
	Tokenizer      string `mapstructure:"tokenizer"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`

	// --- Fields from metricsCmd.Flags() ---
	Top    int    `mapstructure:"top"`
	URL    string `mapstructure:"url"`
	Owner  string `mapstructure:"owner"`
	Repo   string `mapstructure:"repo"`
	Branch string `mapstructure:"branch"`
}

// Clone returns a deep copy of the Config struct. The registry is shared since it is read-only.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ProjectPaths = slices.Clone(c.ProjectPaths)
	clone.Excludes = slices.Clone(c.Excludes)
	if c.Requests != nil {
		clone.Requests = make([]schema.LanguageRequest, len(c.Requests))
		for i, r := range c.Requests {
			clone.Requests[i] = schema.LanguageRequest{Language: r.Language, ExcludeGlobs: slices.Clone(r.ExcludeGlobs)}
		}
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := processLanguages(cfg, input); err != nil {
		return err
	}
	if err := resolveProjectPaths(cfg, input); err != nil {
		return err
	}
	processIdentity(cfg, input)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.RegistryFile = input.RegistryFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	if input.LanguageFanout <= 0 || input.LanguageFanout > MaxLanguageFanout {
		return fmt.Errorf("language-fanout must be greater than 0 and cannot exceed %d (received %d)", MaxLanguageFanout, input.LanguageFanout)
	}
	cfg.LanguageFanout = input.LanguageFanout

	if input.Top <= 0 || input.Top > schema.MaxTopFiles {
		return fmt.Errorf("top must be greater than 0 and cannot exceed %d (received %d)", schema.MaxTopFiles, input.Top)
	}
	cfg.TopN = input.Top

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, markdown", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	cfg.Tokenizer = schema.TokenizerBackend(strings.ToLower(input.Tokenizer))
	if _, ok := schema.ValidTokenizerBackends[cfg.Tokenizer]; !ok {
		return fmt.Errorf("invalid tokenizer '%s'. must be builtin, scc", input.Tokenizer)
	}

	return nil
}

// processDurations parses the timeout and cache TTL values.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.Timeout = 0
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout value %q: %w", input.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("timeout cannot be negative (received %s)", input.Timeout)
		}
		cfg.Timeout = d
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		d, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl value %q: %w", input.CacheTTL, err)
		}
		if d <= 0 {
			return fmt.Errorf("cache-ttl must be positive (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = d
	}
	return nil
}

// processLanguages loads the registry and resolves the requested languages into
// explicit requests, so no entry point relies on an implicit default list.
func processLanguages(cfg *Config, input *ConfigRawInput) error {
	reg, err := languages.LoadRegistry(input.RegistryFile)
	if err != nil {
		return err
	}
	cfg.Registry = reg

	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed == "" {
				continue
			}
			if !doublestar.ValidatePattern(trimmed) {
				return fmt.Errorf("invalid --exclude pattern: %w: %q", schema.ErrInvalidGlob, trimmed)
			}
			cfg.Excludes = append(cfg.Excludes, trimmed)
		}
	}

	reqs, err := reg.ParseRequests(input.Languages, cfg.Excludes)
	if err != nil {
		return fmt.Errorf("invalid --languages value: %w", err)
	}
	cfg.Requests = reqs
	return nil
}

// resolveProjectPaths makes every project path absolute and checks it is a directory.
func resolveProjectPaths(cfg *Config, input *ConfigRawInput) error {
	path := input.ProjectPathStr
	if path == "" {
		path = "."
	}
	abs, err := resolveDir(path)
	if err != nil {
		return err
	}
	cfg.ProjectPath = abs

	cfg.ProjectPaths = nil
	for _, p := range input.ProjectPathStrs {
		abs, err := resolveDir(p)
		if err != nil {
			return err
		}
		cfg.ProjectPaths = append(cfg.ProjectPaths, abs)
	}
	return nil
}

func resolveDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access project path %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project path %s is not a directory", path)
	}
	return abs, nil
}

// processIdentity fills the project identity; the repo name defaults to the directory name.
func processIdentity(cfg *Config, input *ConfigRawInput) {
	cfg.Identity = schema.ProjectIdentity{
		URL:    strings.TrimSpace(input.URL),
		Owner:  strings.TrimSpace(input.Owner),
		Repo:   strings.TrimSpace(input.Repo),
		Branch: strings.TrimSpace(input.Branch),
	}
	if cfg.Identity.Repo == "" {
		cfg.Identity.Repo = filepath.Base(cfg.ProjectPath)
	}
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
