package core

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/huangsam/sloc/internal/classify"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

// Options tunes a multi-language scan.
type Options struct {
	Workers        int // file workers per language
	LanguageFanout int // languages scanned at the same time
	TopN           int // biggest files kept in CodeMetrics

	Now func() time.Time // CodeMetrics timestamp source
}

func (o Options) normalized() Options {
	if o.Workers <= 0 {
		o.Workers = contract.DefaultWorkers
	}
	if o.LanguageFanout <= 0 {
		o.LanguageFanout = contract.DefaultLanguageFanout
	}
	o.LanguageFanout = min(o.LanguageFanout, contract.MaxLanguageFanout)
	if o.TopN <= 0 || o.TopN > schema.MaxTopFiles {
		o.TopN = schema.MaxTopFiles
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// OptionsFromConfig maps the validated config onto scan options.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{Workers: cfg.Workers, LanguageFanout: cfg.LanguageFanout, TopN: cfg.TopN}
}

// ReportForLanguages builds one report per request concurrently, at most LanguageFanout at
// a time. Reports keep the order of requests. The first failing language cancels the
// others and fails the whole scan.
func ReportForLanguages(ctx context.Context, p contract.Project, set *classify.Set, requests []schema.LanguageRequest, opts Options) (schema.LanguagesReport, error) {
	opts = opts.normalized()

	reports := make([]schema.LanguageReport, len(requests))
	skipped := make([]int, len(requests))

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	sem := make(chan struct{}, opts.LanguageFanout)
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Go(func() {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			report, n, err := ReportForLanguage(ctx, p, set, req, opts.Workers)
			if err != nil {
				cancel(fmt.Errorf("language %s: %w", req.Language.Name, err))
				return
			}
			reports[i] = report
			skipped[i] = n
		})
	}
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		return schema.LanguagesReport{}, err
	}

	result := schema.LanguagesReport{LanguageReports: reports}
	for _, n := range skipped {
		result.SkippedFiles += n
	}
	return result, nil
}

// ConsolidateAcrossProjects sums each language over several project reports. Languages come
// from the first report; only languages with lines are kept, biggest first.
func ConsolidateAcrossProjects(reports []schema.LanguagesReport) []schema.LanguageTotals {
	if len(reports) == 0 {
		return []schema.LanguageTotals{}
	}

	var all []schema.CodeStats
	for _, r := range reports {
		for _, lr := range r.LanguageReports {
			all = append(all, lr.Stats())
		}
	}

	totals := []schema.LanguageTotals{}
	for _, lang := range reports[0].LanguagesScanned() {
		stats := schema.Consolidate(lang, all)
		if stats.Total <= 0 {
			continue
		}
		projects := 0
		for _, r := range reports {
			if lr, ok := r.Find(lang); ok && lr.Stats().Total > 0 {
				projects++
			}
		}
		totals = append(totals, schema.LanguageTotals{Language: lang, Stats: stats, Projects: projects})
	}

	slices.SortStableFunc(totals, func(a, b schema.LanguageTotals) int {
		return b.Stats.Total - a.Stats.Total
	})
	return totals
}
