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

// WriteCodeMetrics outputs code metrics, dispatching based on the output format configured.
func WriteCodeMetrics(m schema.CodeMetrics, cfg *contract.Config, duration time.Duration, cacheHit bool) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, NewMetricsEnvelope(m))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsCSV(w, m)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsMarkdown(w, m)
		}, "Wrote Markdown")
	case schema.ParquetOut:
		return writeMetricsParquet(m, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsTable(w, m, cfg, duration, cacheHit)
		}, "Wrote table")
	}
	return nil
}

// writeMetricsCSV writes language rows followed by the biggest files ranking.
// The kind column tells the two apart.
func writeMetricsCSV(w io.Writer, m schema.CodeMetrics) error {
	header := []string{"kind", "rank", "name", "total", "source", "comment", "single", "block"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range m.Languages {
			rec := []string{
				"language", "",
				s.Language.Name,
				strconv.Itoa(s.Total),
				strconv.Itoa(s.Source),
				strconv.Itoa(s.Comment),
				strconv.Itoa(s.Single),
				strconv.Itoa(s.Block),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		for i, f := range m.BiggestFiles {
			rec := []string{"file", strconv.Itoa(i + 1), f.Path, strconv.Itoa(f.Lines), "", "", "", ""}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeMetricsMarkdown writes the project line, totals and the biggest files as a list.
func writeMetricsMarkdown(w io.Writer, m schema.CodeMetrics) error {
	if _, err := fmt.Fprintln(w, formatProjectLine(m.Project)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "*Lines*: %s in %s of %s files\n",
		humanize.Comma(int64(m.Lines)), humanize.Comma(int64(m.Files)), humanize.Comma(int64(m.TotalFiles))); err != nil {
		return err
	}
	for _, s := range m.Languages {
		if s.Total == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "*%s*: %s loc, %s in comments\n",
			s.Language.Name, humanize.Comma(int64(s.Total)), humanize.Comma(int64(s.Comment))); err != nil {
			return err
		}
	}
	for i, f := range m.BiggestFiles {
		if _, err := fmt.Fprintf(w, "%d. `%s` (%s lines)\n", i+1, f.Path, humanize.Comma(int64(f.Lines))); err != nil {
			return err
		}
	}
	return nil
}

// writeMetricsParquet writes language rows to outputFile and the ranking to a companion file.
func writeMetricsParquet(m schema.CodeMetrics, outputFile string) error {
	langs, biggest := parquet.ConvertCodeMetrics(m)
	if err := parquet.WriteLanguageStatsParquet(langs, outputFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	biggestFile := parquet.BiggestFilesPath(outputFile)
	if err := parquet.WriteBiggestFilesParquet(biggest, biggestFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s and %s\n", outputFile, biggestFile)
	return nil
}

// writeMetricsTable generates and writes the human-readable tables.
func writeMetricsTable(w io.Writer, m schema.CodeMetrics, cfg *contract.Config, duration time.Duration, cacheHit bool) error {
	if _, err := fmt.Fprintln(w, formatProjectLine(m.Project)); err != nil {
		return err
	}

	var langRows [][]string
	for _, s := range m.Languages {
		if s.Total == 0 {
			continue
		}
		share := shareOf(s.Total, m.Lines)
		langRows = append(langRows, []string{
			s.Language.Name,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Source),
			strconv.Itoa(s.Comment),
			formatShare(share),
			labelFor(share, cfg),
		})
	}
	if err := renderTable(w, []string{"Language", "Total", "Source", "Comment", "Share", "Label"}, langRows); err != nil {
		return err
	}

	maxWidth := getMaxTablePathWidth(cfg)
	fileRows := make([][]string, len(m.BiggestFiles))
	for i, f := range m.BiggestFiles {
		fileRows[i] = []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Path, maxWidth),
			strconv.Itoa(f.Lines),
			formatShare(shareOf(f.Lines, m.Lines)),
		}
	}
	if err := renderTable(w, []string{"Rank", "Path", "Lines", "Share"}, fileRows); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Counted %s lines in %s of %s files\n",
		humanize.Comma(int64(m.Lines)), humanize.Comma(int64(m.Files)), humanize.Comma(int64(m.TotalFiles))); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Metrics computed in %v with %d workers. Cache backend: %s (hit: %t)\n", duration, cfg.Workers, cfg.CacheBackend, cacheHit)
	return err
}
