package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/internal/parquet"
	"github.com/huangsam/sloc/schema"
)

// WriteLanguagesReport outputs a per-project report, dispatching based on the output format configured.
func WriteLanguagesReport(report schema.LanguagesReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportMarkdown(w, cfg.Identity, report)
		}, "Wrote Markdown")
	case schema.ParquetOut:
		rows := parquet.ConvertLanguagesReport(cfg.Identity, report, time.Now().UTC())
		if err := parquet.WriteLanguageStatsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, report, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// reportHeader is shared by the report and batch CSV outputs.
var reportHeader = []string{"language", "extension", "files", "total", "source", "comment", "single", "block", "share"}

// writeReportCSV writes one row per relevant language.
func writeReportCSV(w io.Writer, report schema.LanguagesReport) error {
	return writeCSVWithHeader(w, reportHeader, func(cw *csv.Writer) error {
		return writeReportRows(cw, report, nil, nil)
	})
}

// writeReportRows writes the relevant languages of report between prefix and suffix columns.
func writeReportRows(cw *csv.Writer, report schema.LanguagesReport, prefix, suffix []string) error {
	relevant := report.RelevantLanguageReports()
	lines, _ := relevantTotal(relevant)
	for _, lr := range relevant {
		s := lr.Stats()
		rec := append(append([]string{}, prefix...),
			lr.Language.Name,
			lr.Language.CanonicalExtension(),
			strconv.Itoa(len(lr.FileReports)),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Source),
			strconv.Itoa(s.Comment),
			strconv.Itoa(s.Single),
			strconv.Itoa(s.Block),
			strconv.FormatFloat(shareOf(s.Total, lines), 'f', 2, 64),
		)
		rec = append(rec, suffix...)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeReportMarkdown writes the project line followed by one line per relevant language.
func writeReportMarkdown(w io.Writer, identity schema.ProjectIdentity, report schema.LanguagesReport) error {
	if _, err := fmt.Fprintln(w, formatProjectLine(identity)); err != nil {
		return err
	}
	for _, lr := range report.RelevantLanguageReports() {
		if _, err := fmt.Fprintln(w, formatLanguageLine(lr)); err != nil {
			return err
		}
	}
	return nil
}

// formatProjectLine renders "Project `owner:repo`: url", omitting the parts that are unknown.
func formatProjectLine(identity schema.ProjectIdentity) string {
	name := identity.Repo
	if identity.Owner != "" {
		name = identity.Owner + ":" + identity.Repo
	}
	line := fmt.Sprintf("Project `%s`", name)
	if identity.URL != "" {
		line += ": " + identity.URL
	}
	return line
}

// formatLanguageLine renders "*Go*: 1,234 loc, 56 in comments, 7 `.go` files".
func formatLanguageLine(lr schema.LanguageReport) string {
	s := lr.Stats()
	return fmt.Sprintf("*%s*: %s loc, %s in comments, %s `.%s` files",
		lr.Language.Name,
		humanize.Comma(int64(s.Total)),
		humanize.Comma(int64(s.Comment)),
		humanize.Comma(int64(len(lr.FileReports))),
		lr.Language.CanonicalExtension(),
	)
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(w io.Writer, report schema.LanguagesReport, cfg *contract.Config, duration time.Duration) error {
	relevant := report.RelevantLanguageReports()
	if err := renderLanguageTable(w, relevant, cfg); err != nil {
		return err
	}
	lines, files := relevantTotal(relevant)
	if _, err := fmt.Fprintf(w, "Scanned %d languages, %d with code (%s lines in %s files)\n",
		len(report.LanguagesScanned()), len(relevant), humanize.Comma(int64(lines)), humanize.Comma(int64(files))); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Scan completed in %v with %d workers. Skipped files: %d\n", duration, cfg.Workers, report.SkippedFiles)
	return err
}

// renderLanguageTable renders the language rows shared by the report and batch tables.
func renderLanguageTable(w io.Writer, relevant []schema.LanguageReport, cfg *contract.Config) error {
	lines, _ := relevantTotal(relevant)
	rows := make([][]string, 0, len(relevant))
	for _, lr := range relevant {
		s := lr.Stats()
		share := shareOf(s.Total, lines)
		rows = append(rows, []string{
			lr.Language.Name,
			"." + strings.Join(lr.Language.Extensions, " ."),
			strconv.Itoa(len(lr.FileReports)),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Source),
			strconv.Itoa(s.Comment),
			strconv.Itoa(s.Single),
			strconv.Itoa(s.Block),
			formatShare(share),
			labelFor(share, cfg),
		})
	}
	return renderTable(w, []string{"Language", "Ext", "Files", "Total", "Source", "Comment", "Single", "Block", "Share", "Label"}, rows)
}
