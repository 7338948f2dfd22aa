package core

import (
	"context"
	"fmt"

	"github.com/huangsam/sloc/core/algo"
	"github.com/huangsam/sloc/internal/classify"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

// CalculateCodeMetrics scans p and flattens the result into a CodeMetrics summary.
// Languages holds one entry per request, including languages with no lines.
func CalculateCodeMetrics(ctx context.Context, p contract.Project, set *classify.Set, requests []schema.LanguageRequest, opts Options) (schema.CodeMetrics, error) {
	opts = opts.normalized()

	report, err := ReportForLanguages(ctx, p, set, requests, opts)
	if err != nil {
		return schema.CodeMetrics{}, err
	}

	totalFiles, err := p.TotalFileCount(ctx)
	if err != nil {
		return schema.CodeMetrics{}, fmt.Errorf("counting project files: %w", err)
	}

	return buildCodeMetrics(p.Identity(), report, totalFiles, opts), nil
}

// buildCodeMetrics derives the flat summary from a finished report.
func buildCodeMetrics(identity schema.ProjectIdentity, report schema.LanguagesReport, totalFiles int, opts Options) schema.CodeMetrics {
	metrics := schema.CodeMetrics{
		Project:    identity,
		Timestamp:  opts.Now(),
		Languages:  make([]schema.CodeStats, 0, len(report.LanguageReports)),
		TotalFiles: totalFiles,
	}
	for _, lr := range report.LanguageReports {
		metrics.Languages = append(metrics.Languages, lr.Stats())
	}

	files, lines := 0, 0
	var all []schema.FileReport
	for _, lr := range report.RelevantLanguageReports() {
		files += len(lr.FileReports)
		lines += lr.Stats().Total
		all = append(all, lr.FileReports...)
	}
	metrics.Files = files
	metrics.Lines = lines
	metrics.BiggestFiles = algo.RankBiggestFiles(all, opts.TopN)
	return metrics
}
