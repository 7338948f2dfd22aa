package core

import (
	"context"
	"testing"

	"github.com/huangsam/sloc/internal/languages"
	"github.com/huangsam/sloc/internal/project"
	"github.com/huangsam/sloc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportForLanguagesPreservesRequestOrder(t *testing.T) {
	set := defaultSet(t)
	requests := []schema.LanguageRequest{
		{Language: languages.YAML},
		{Language: languages.Go},
		{Language: languages.Rust},
		{Language: languages.Shell},
		{Language: languages.Java},
		{Language: languages.Python},
	}

	for _, fanout := range []int{1, 2, 64} {
		opts := testOptions()
		opts.LanguageFanout = fanout
		report, err := ReportForLanguages(context.Background(), sampleProject(), set, requests, opts)
		require.NoError(t, err)
		require.Len(t, report.LanguageReports, len(requests))
		for i, req := range requests {
			assert.Equal(t, req.Language.Name, report.LanguageReports[i].Language.Name)
		}
	}
}

func TestReportForLanguagesViews(t *testing.T) {
	set := defaultSet(t)
	requests := []schema.LanguageRequest{{Language: languages.Rust}, {Language: languages.Go}, {Language: languages.Go}}

	report, err := ReportForLanguages(context.Background(), sampleProject(), set, requests, testOptions())
	require.NoError(t, err)

	scanned := report.LanguagesScanned()
	require.Len(t, scanned, 2)
	assert.Equal(t, "Rust", scanned[0].Name)
	assert.Equal(t, "Go", scanned[1].Name)

	relevant := report.RelevantLanguageReports()
	require.Len(t, relevant, 2)
	assert.Equal(t, "Go", relevant[0].Language.Name)
}

func TestReportForLanguagesSkippedFiles(t *testing.T) {
	p := sampleProject()
	p.MarkUnreadable("main.go")
	p.MarkUnreadable("scripts/build.sh")

	requests := []schema.LanguageRequest{{Language: languages.Go}, {Language: languages.Shell}}
	report, err := ReportForLanguages(WithQuiet(context.Background()), p, defaultSet(t), requests, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, report.SkippedFiles)
}

func TestReportForLanguagesFailsOnFirstFatalError(t *testing.T) {
	requests := []schema.LanguageRequest{
		{Language: languages.Go},
		{Language: schema.Language{Name: "Haskell", Extensions: []string{"hs"}}},
		{Language: languages.Shell},
	}
	_, err := ReportForLanguages(context.Background(), sampleProject(), defaultSet(t), requests, testOptions())
	require.ErrorIs(t, err, schema.ErrUnknownLanguage)
	assert.Contains(t, err.Error(), "Haskell")
}

func TestReportForLanguagesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReportForLanguages(ctx, sampleProject(), defaultSet(t), languages.Default().DefaultRequests(), testOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReportForLanguagesEmptyRequests(t *testing.T) {
	report, err := ReportForLanguages(context.Background(), sampleProject(), defaultSet(t), nil, testOptions())
	require.NoError(t, err)
	assert.Empty(t, report.LanguageReports)
	assert.Empty(t, report.RelevantLanguageReports())
}

func TestConsolidateAcrossProjects(t *testing.T) {
	set := defaultSet(t)
	requests := []schema.LanguageRequest{{Language: languages.Go}, {Language: languages.Shell}, {Language: languages.Rust}}
	ctx := context.Background()

	first, err := ReportForLanguages(ctx, sampleProject(), set, requests, testOptions())
	require.NoError(t, err)
	second, err := ReportForLanguages(ctx, project.NewMemory(schema.ProjectIdentity{}, map[string]string{
		"x.go": "package x\n\nfunc x() {}\nfunc y() {}\n",
	}), set, requests, testOptions())
	require.NoError(t, err)

	totals := ConsolidateAcrossProjects([]schema.LanguagesReport{first, second})
	require.Len(t, totals, 2, "Rust has no lines anywhere")

	goTotals := totals[0]
	assert.Equal(t, "Go", goTotals.Language.Name)
	assert.Equal(t, first.LanguageReports[0].Stats().Total+second.LanguageReports[0].Stats().Total, goTotals.Stats.Total)
	assert.Equal(t, 2, goTotals.Projects)

	shTotals := totals[1]
	assert.Equal(t, "Shell", shTotals.Language.Name)
	assert.Equal(t, 1, shTotals.Projects)

	assert.Empty(t, ConsolidateAcrossProjects(nil))
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{}.normalized()
	assert.Positive(t, o.Workers)
	assert.Equal(t, 4, o.LanguageFanout)
	assert.Equal(t, schema.MaxTopFiles, o.TopN)
	assert.NotNil(t, o.Now)

	o = Options{LanguageFanout: 1000, TopN: 500}.normalized()
	assert.Equal(t, 64, o.LanguageFanout)
	assert.Equal(t, schema.MaxTopFiles, o.TopN)
}
