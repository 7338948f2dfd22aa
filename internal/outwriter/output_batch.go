package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/internal/parquet"
	"github.com/huangsam/sloc/schema"
)

// WriteBatchTotals outputs every project report followed by the totals across projects.
func WriteBatchTotals(results []ProjectReport, totals []schema.LanguageTotals, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchJSON(w, results, totals)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchCSV(w, results, totals)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchMarkdown(w, results, totals)
		}, "Wrote Markdown")
	case schema.ParquetOut:
		now := time.Now().UTC()
		var rows []parquet.LanguageStatsRow
		for _, r := range results {
			rows = append(rows, parquet.ConvertLanguagesReport(schema.ProjectIdentity{Repo: r.Path}, r.Report, now)...)
		}
		rows = append(rows, parquet.ConvertLanguageTotals(totals, now)...)
		if err := parquet.WriteLanguageStatsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, results, totals, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

func writeBatchJSON(w io.Writer, results []ProjectReport, totals []schema.LanguageTotals) error {
	type jsonProject struct {
		Path   string                 `json:"path"`
		Report schema.LanguagesReport `json:"report"`
	}
	projects := make([]jsonProject, len(results))
	for i, r := range results {
		projects[i] = jsonProject{Path: r.Path, Report: r.Report}
	}
	return writeJSON(w, struct {
		Projects []jsonProject           `json:"projects"`
		Totals   []schema.LanguageTotals `json:"totals"`
	}{projects, totals})
}

// writeBatchCSV writes per-project rows, then TOTAL rows with the number of projects.
func writeBatchCSV(w io.Writer, results []ProjectReport, totals []schema.LanguageTotals) error {
	header := append([]string{"project"}, reportHeader...)
	header = append(header, "projects")
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			if err := writeReportRows(cw, r.Report, []string{r.Path}, []string{""}); err != nil {
				return err
			}
		}
		var all int
		for _, t := range totals {
			all += t.Stats.Total
		}
		for _, t := range totals {
			rec := []string{
				parquet.TotalProject,
				t.Language.Name,
				t.Language.CanonicalExtension(),
				"",
				strconv.Itoa(t.Stats.Total),
				strconv.Itoa(t.Stats.Source),
				strconv.Itoa(t.Stats.Comment),
				strconv.Itoa(t.Stats.Single),
				strconv.Itoa(t.Stats.Block),
				strconv.FormatFloat(shareOf(t.Stats.Total, all), 'f', 2, 64),
				strconv.Itoa(t.Projects),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeBatchMarkdown(w io.Writer, results []ProjectReport, totals []schema.LanguageTotals) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "Project `%s`\n", r.Path); err != nil {
			return err
		}
		for _, lr := range r.Report.RelevantLanguageReports() {
			if _, err := fmt.Fprintln(w, formatLanguageLine(lr)); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(w, "Totals across %d projects\n", len(results)); err != nil {
		return err
	}
	for _, t := range totals {
		if _, err := fmt.Fprintf(w, "*%s*: %s loc, %s in comments, %d projects\n",
			t.Language.Name, humanize.Comma(int64(t.Stats.Total)), humanize.Comma(int64(t.Stats.Comment)), t.Projects); err != nil {
			return err
		}
	}
	return nil
}

func writeBatchTable(w io.Writer, results []ProjectReport, totals []schema.LanguageTotals, cfg *contract.Config, duration time.Duration) error {
	skipped := 0
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "Project %s\n", r.Path); err != nil {
			return err
		}
		if err := renderLanguageTable(w, r.Report.RelevantLanguageReports(), cfg); err != nil {
			return err
		}
		skipped += r.Report.SkippedFiles
	}

	if _, err := fmt.Fprintf(w, "Totals across %d projects\n", len(results)); err != nil {
		return err
	}
	all := 0
	for _, t := range totals {
		all += t.Stats.Total
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		share := shareOf(t.Stats.Total, all)
		rows = append(rows, []string{
			t.Language.Name,
			strconv.Itoa(t.Projects),
			strconv.Itoa(t.Stats.Total),
			strconv.Itoa(t.Stats.Source),
			strconv.Itoa(t.Stats.Comment),
			formatShare(share),
			labelFor(share, cfg),
		})
	}
	if err := renderTable(w, []string{"Language", "Projects", "Total", "Source", "Comment", "Share", "Label"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Batch completed in %v with %d workers. Skipped files: %d\n", duration, cfg.Workers, skipped)
	return err
}
