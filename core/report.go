package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/huangsam/sloc/internal/classify"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/internal/project"
	"github.com/huangsam/sloc/schema"
)

// fileOutcome is what a worker produces for one matched file.
type fileOutcome struct {
	report  schema.FileReport
	skipped bool
}

// ReportForLanguage scans p for the files of one language and classifies each of them.
// Unreadable files are skipped and counted. Classifier errors, enumeration errors and
// cancellation fail the whole report.
func ReportForLanguage(ctx context.Context, p contract.Project, set *classify.Set, req schema.LanguageRequest, workers int) (schema.LanguageReport, int, error) {
	lang, _ := req.Resolve()
	if !set.Has(lang) {
		return schema.LanguageReport{}, 0, fmt.Errorf("%w: %s", schema.ErrUnknownLanguage, lang.Name)
	}

	sel, err := project.NewSelector(req)
	if err != nil {
		return schema.LanguageReport{}, 0, err
	}

	var files []string
	for path, err := range project.Scan(ctx, p, sel) {
		if err != nil {
			return schema.LanguageReport{}, 0, fmt.Errorf("scanning %s files: %w", lang.Name, err)
		}
		files = append(files, path)
	}

	outcomes, err := analyzeFiles(ctx, p, set, lang, files, workers)
	if err != nil {
		return schema.LanguageReport{}, 0, err
	}

	report := schema.LanguageReport{Language: lang, FileReports: make([]schema.FileReport, 0, len(files))}
	skipped := 0
	for _, o := range outcomes {
		if o.skipped {
			skipped++
			continue
		}
		report.FileReports = append(report.FileReports, o.report)
	}
	return report, skipped, nil
}

// analyzeFiles reads and classifies files with a pool of workers.
// Outcomes are stored by index so they keep the scan order.
func analyzeFiles(ctx context.Context, p contract.Project, set *classify.Set, lang schema.Language, files []string, workers int) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(files))
	if len(files) == 0 {
		return outcomes, ctx.Err()
	}
	workers = max(1, min(workers, len(files)))

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	fileCh := make(chan int, len(files))
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for i := range fileCh {
				if ctx.Err() != nil {
					continue
				}
				outcome, err := analyzeFile(ctx, p, set, lang, files[i])
				if err != nil {
					cancel(err)
					continue
				}
				outcomes[i] = outcome
			}
		})
	}

	for i := range files {
		fileCh <- i
	}
	close(fileCh)
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// analyzeFile reads and classifies a single file.
func analyzeFile(ctx context.Context, p contract.Project, set *classify.Set, lang schema.Language, path string) (fileOutcome, error) {
	content, err := p.ReadFile(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return fileOutcome{}, ctx.Err()
		}
		if !isQuiet(ctx) {
			contract.LogWarn(fmt.Sprintf("Skipping unreadable file %s", path), err)
		}
		return fileOutcome{skipped: true}, nil
	}
	stats, err := set.Classify(lang, content)
	if err != nil {
		return fileOutcome{}, fmt.Errorf("%s: %w", path, err)
	}
	return fileOutcome{report: schema.FileReport{Path: path, Stats: stats}}, nil
}
