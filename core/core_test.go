package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/sloc/internal/classify"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/internal/languages"
	"github.com/huangsam/sloc/internal/project"
	"github.com/huangsam/sloc/internal/tokenize"
	"github.com/huangsam/sloc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{Workers: 2, LanguageFanout: 2, TopN: 20, Now: func() time.Time { return fixedNow }}
}

func defaultSet(t *testing.T) *classify.Set {
	t.Helper()
	set, err := classify.NewSet(languages.Default(), tokenize.NewBuiltin(nil))
	require.NoError(t, err)
	return set
}

// sampleProject has Go, Shell and YAML files plus a vendored Go tree.
func sampleProject() *project.Memory {
	return project.NewMemory(schema.ProjectIdentity{Owner: "acme", Repo: "demo"}, map[string]string{
		"main.go":                 "package main\n\n// entry\nfunc main() {}\n",
		"a/thing.go":              "package a\n",
		"a/vendor/x/thing.go":     "package x\nvar a = 1\nvar b = 2\n",
		"scripts/build.sh":        "ls\n#comment\nmkdir foo",
		"scripts/lint.bash":       "echo lint\n",
		"deploy/app.yaml":         "# config\nname: demo\n",
		"README.md":               "# demo\n",
		"src/Main.java":           "class Main {\n  /* block */\n}\n",
		"ignored/binary.png":      "\x89PNG",
		"tools/generator/main.py": "\"\"\"doc\"\"\"\nprint(1)\n",
	})
}

func TestReportForLanguage(t *testing.T) {
	ctx := context.Background()
	set := defaultSet(t)

	t.Run("vendor exclusion", func(t *testing.T) {
		report, skipped, err := ReportForLanguage(ctx, sampleProject(), set, schema.LanguageRequest{Language: languages.Go}, 2)
		require.NoError(t, err)
		assert.Equal(t, 0, skipped)

		var paths []string
		for _, fr := range report.FileReports {
			paths = append(paths, fr.Path)
			assert.Equal(t, "Go", fr.Stats.Language.Name)
		}
		assert.Equal(t, []string{"a/thing.go", "main.go"}, paths)
		assert.Equal(t, 5, report.Stats().Total)
	})

	t.Run("multi extension", func(t *testing.T) {
		report, _, err := ReportForLanguage(ctx, sampleProject(), set, schema.LanguageRequest{Language: languages.Shell}, 1)
		require.NoError(t, err)
		require.Len(t, report.FileReports, 2)
		assert.Equal(t, "scripts/build.sh", report.FileReports[0].Path)
		assert.Equal(t, "scripts/lint.bash", report.FileReports[1].Path)

		build := report.FileReports[0].Stats
		assert.Equal(t, 3, build.Total)
		assert.Equal(t, 1, build.Single)
		assert.Equal(t, 1, build.Comment)
		assert.Equal(t, 0, build.Block)
	})

	t.Run("request excludes", func(t *testing.T) {
		req := schema.LanguageRequest{Language: languages.Go, ExcludeGlobs: []string{"a/**"}}
		report, _, err := ReportForLanguage(ctx, sampleProject(), set, req, 4)
		require.NoError(t, err)
		require.Len(t, report.FileReports, 1)
		assert.Equal(t, "main.go", report.FileReports[0].Path)
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		report, skipped, err := ReportForLanguage(ctx, sampleProject(), set, schema.LanguageRequest{Language: languages.Rust}, 2)
		require.NoError(t, err)
		assert.Equal(t, 0, skipped)
		assert.Empty(t, report.FileReports)
		assert.Equal(t, schema.CodeStats{Language: languages.Rust}, report.Stats())
	})

	t.Run("unreadable files are skipped", func(t *testing.T) {
		p := sampleProject()
		p.MarkUnreadable("main.go")
		report, skipped, err := ReportForLanguage(WithQuiet(ctx), p, set, schema.LanguageRequest{Language: languages.Go}, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
		require.Len(t, report.FileReports, 1)
		assert.Equal(t, "a/thing.go", report.FileReports[0].Path)
	})

	t.Run("unknown language is fatal", func(t *testing.T) {
		lang := schema.Language{Name: "Haskell", Extensions: []string{"hs"}}
		_, _, err := ReportForLanguage(ctx, sampleProject(), set, schema.LanguageRequest{Language: lang}, 2)
		assert.ErrorIs(t, err, schema.ErrUnknownLanguage)
	})

	t.Run("classifier error is fatal", func(t *testing.T) {
		boom := errors.New("tokenizer broke")
		broken, err := classify.NewSet(languages.Default(), failingTokenizer{err: boom})
		require.NoError(t, err)
		_, _, err = ReportForLanguage(ctx, sampleProject(), broken, schema.LanguageRequest{Language: languages.Go}, 2)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := ReportForLanguage(cctx, sampleProject(), set, schema.LanguageRequest{Language: languages.Go}, 2)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// failingTokenizer supports everything and fails every count.
type failingTokenizer struct {
	err error
}

func (f failingTokenizer) Name() schema.TokenizerBackend { return "failing" }

func (f failingTokenizer) Supports(string) bool { return true }

func (f failingTokenizer) Count(string, string) (schema.CodeStats, error) {
	return schema.CodeStats{}, f.err
}

func TestExecuteReportAndMetrics(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "a.go"), []byte("package pkg\n// doc\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "run.sh"), []byte("#!/bin/sh\necho hi"), 0o644))

	outDir := t.TempDir()
	cfg := &contract.Config{
		ProjectPath:    root,
		Identity:       schema.ProjectIdentity{Repo: "tmp"},
		Workers:        2,
		LanguageFanout: 2,
		Registry:       languages.Default(),
		Tokenizer:      schema.BuiltinTokenizer,
		TopN:           5,
		Output:         schema.JSONOut,
		CacheTTL:       time.Hour,
	}

	ctx := context.Background()

	cfg.OutputFile = filepath.Join(outDir, "report.json")
	require.NoError(t, ExecuteReport(ctx, cfg, nil))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"relevant_languages"`)

	cfg.OutputFile = filepath.Join(outDir, "metrics.json")
	require.NoError(t, ExecuteMetrics(ctx, cfg, nil))
	data, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "CodeMetrics"`)
	assert.Contains(t, string(data), `"pkg/a.go"`)

	cfg.OutputFile = filepath.Join(outDir, "languages.json")
	require.NoError(t, ExecuteLanguages(ctx, cfg, nil))
	data, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Shell"`)
}

func TestExecuteBatch(t *testing.T) {
	mk := func(content string) string {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(content), 0o644))
		return dir
	}
	cfg := &contract.Config{
		ProjectPaths:   []string{mk("package a\n"), mk("package b\n\nfunc b() {}\n")},
		Workers:        1,
		LanguageFanout: 1,
		Tokenizer:      schema.BuiltinTokenizer,
		Output:         schema.CSVOut,
		OutputFile:     filepath.Join(t.TempDir(), "batch.csv"),
	}
	require.NoError(t, ExecuteBatch(context.Background(), cfg, nil))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TOTAL,Go,")

	cfg.ProjectPaths = nil
	assert.Error(t, ExecuteBatch(context.Background(), cfg, nil))
}

func TestNewClassifierSet(t *testing.T) {
	_, err := NewClassifierSet(&contract.Config{Tokenizer: schema.TokenizerBackend("nope")})
	assert.Error(t, err)

	set, err := NewClassifierSet(&contract.Config{Tokenizer: schema.BuiltinTokenizer})
	require.NoError(t, err)
	assert.True(t, set.Has(languages.YAML))
}

func TestRequestsOf(t *testing.T) {
	all := RequestsOf(&contract.Config{})
	assert.Len(t, all, len(languages.AllLanguages()))

	only := []schema.LanguageRequest{{Language: languages.Go}}
	assert.Equal(t, only, RequestsOf(&contract.Config{Requests: only}))
}
