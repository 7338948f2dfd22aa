// Package core has the scanning engine: per-language reports, aggregation and code metrics.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/sloc/internal/classify"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/internal/languages"
	"github.com/huangsam/sloc/internal/outwriter"
	"github.com/huangsam/sloc/internal/project"
	"github.com/huangsam/sloc/internal/tokenize"
	"github.com/huangsam/sloc/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// NewClassifierSet resolves a classifier for every language of the configured registry.
// A registry extension the tokenizer cannot handle fails here, before any file is read.
func NewClassifierSet(cfg *contract.Config) (*classify.Set, error) {
	tok, err := tokenize.New(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}
	return classify.NewSet(RegistryOf(cfg), tok)
}

// RequestsOf returns the configured requests, or one request per registry language.
func RequestsOf(cfg *contract.Config) []schema.LanguageRequest {
	if len(cfg.Requests) > 0 {
		return cfg.Requests
	}
	return RegistryOf(cfg).DefaultRequests()
}

// RegistryOf returns the configured registry, or the built-in one.
func RegistryOf(cfg *contract.Config) *languages.Registry {
	if cfg.Registry != nil {
		return cfg.Registry
	}
	return languages.Default()
}

// ExecuteReport scans the project and prints the per-language report.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	ctx, cancel := withScanTimeout(ctx, cfg.Timeout)
	defer cancel()

	set, err := NewClassifierSet(cfg)
	if err != nil {
		return err
	}
	p := project.NewLocal(cfg.ProjectPath, cfg.Identity)
	report, err := ReportForLanguages(ctx, p, set, RequestsOf(cfg), OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	reportSkipped(ctx, report.SkippedFiles)
	return outwriter.WriteLanguagesReport(report, cfg, time.Since(start))
}

// ExecuteMetrics scans the project, reusing cached results when the project is unchanged,
// and prints the code metrics. It serves as the main entry point for the 'metrics' command.
func ExecuteMetrics(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	ctx, cancel := withScanTimeout(ctx, cfg.Timeout)
	defer cancel()

	set, err := NewClassifierSet(cfg)
	if err != nil {
		return err
	}
	cache, err := NewMetricsCache(mgr, cfg.Tokenizer, cfg.CacheTTL)
	if err != nil {
		return err
	}
	p := project.NewLocal(cfg.ProjectPath, cfg.Identity)
	metrics, hit, err := cache.CodeMetrics(ctx, p, set, RequestsOf(cfg), OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	return outwriter.WriteCodeMetrics(metrics, cfg, time.Since(start), hit)
}

// ExecuteBatch reports every project path and then the totals across them.
// It serves as the main entry point for the 'batch' command.
func ExecuteBatch(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	if len(cfg.ProjectPaths) == 0 {
		return fmt.Errorf("batch needs at least one project path")
	}
	ctx, cancel := withScanTimeout(ctx, cfg.Timeout)
	defer cancel()

	set, err := NewClassifierSet(cfg)
	if err != nil {
		return err
	}
	requests := RequestsOf(cfg)
	opts := OptionsFromConfig(cfg)

	results := make([]outwriter.ProjectReport, 0, len(cfg.ProjectPaths))
	reports := make([]schema.LanguagesReport, 0, len(cfg.ProjectPaths))
	for _, path := range cfg.ProjectPaths {
		identity := schema.ProjectIdentity{Repo: filepath.Base(path)}
		report, err := ReportForLanguages(ctx, project.NewLocal(path, identity), set, requests, opts)
		if err != nil {
			return fmt.Errorf("project %s: %w", path, err)
		}
		reportSkipped(ctx, report.SkippedFiles)
		results = append(results, outwriter.ProjectReport{Path: path, Report: report})
		reports = append(reports, report)
	}

	totals := ConsolidateAcrossProjects(reports)
	return outwriter.WriteBatchTotals(results, totals, cfg, time.Since(start))
}

// ExecuteLanguages prints the effective language registry.
// It serves as the main entry point for the 'languages' command.
func ExecuteLanguages(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	if _, err := NewClassifierSet(cfg); err != nil {
		return err
	}
	return outwriter.WriteLanguages(RegistryOf(cfg).Infos(), cfg)
}

// reportSkipped tells the user how many files could not be read.
func reportSkipped(ctx context.Context, skipped int) {
	if skipped == 0 || isQuiet(ctx) {
		return
	}
	fmt.Fprintf(os.Stderr, "Skipped %d unreadable file(s)\n", skipped)
}
