// Package parquet provides data structures and functions for exporting sloc
// scan results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/sloc/schema"
	"github.com/parquet-go/parquet-go"
)

// TotalProject is the project column value for rows consolidated across projects.
const TotalProject = "TOTAL"

// LanguageStatsRow represents the consolidated line counts of one language in one project.
type LanguageStatsRow struct {
	// Project is the repository name, or TotalProject for batch totals
	Project string `parquet:"project,snappy"`

	// Branch is the scanned branch (nullable)
	Branch *string `parquet:"branch,optional,snappy"`

	// Language is the registry name of the language
	Language string `parquet:"language,snappy"`

	Total   int64 `parquet:"total,snappy"`
	Source  int64 `parquet:"source,snappy"`
	Comment int64 `parquet:"comment,snappy"`
	Single  int64 `parquet:"single,snappy"`
	Block   int64 `parquet:"block,snappy"`

	// Files is the number of files counted for the language (nullable for batch totals)
	Files *int32 `parquet:"files,optional,snappy"`

	// Projects is the number of projects containing the language (nullable for single scans)
	Projects *int32 `parquet:"projects,optional,snappy"`

	// ScannedAt is when the scan finished (stored as TIMESTAMP with nanosecond precision)
	ScannedAt time.Time `parquet:"scanned_at,snappy"`
}

// BiggestFileRow represents one entry of the biggest files ranking.
type BiggestFileRow struct {
	Project   string    `parquet:"project,snappy"`
	Rank      int32     `parquet:"rank,snappy"`
	FilePath  string    `parquet:"file_path,snappy"`
	Lines     int64     `parquet:"lines,snappy"`
	ScannedAt time.Time `parquet:"scanned_at,snappy"`
}

// WriteLanguageStatsParquet writes a slice of LanguageStatsRow structs to a Parquet file.
func WriteLanguageStatsParquet(data []LanguageStatsRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteBiggestFilesParquet writes a slice of BiggestFileRow structs to a Parquet file.
func WriteBiggestFilesParquet(data []BiggestFileRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes rows using struct schema inference from the parquet tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// BiggestFilesPath derives the companion file for biggest file rows,
// e.g. metrics.parquet becomes metrics_biggest_files.parquet.
func BiggestFilesPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + "_biggest_files" + ext
}

// ConvertLanguagesReport flattens a per-project report into one row per scanned language.
func ConvertLanguagesReport(identity schema.ProjectIdentity, report schema.LanguagesReport, scannedAt time.Time) []LanguageStatsRow {
	rows := make([]LanguageStatsRow, 0, len(report.LanguageReports))
	for _, lr := range report.LanguageReports {
		files := int32(len(lr.FileReports))
		row := statsRow(identity, lr.Stats(), scannedAt)
		row.Files = &files
		rows = append(rows, row)
	}
	return rows
}

// ConvertCodeMetrics flattens metrics into language rows and biggest file rows.
func ConvertCodeMetrics(m schema.CodeMetrics) ([]LanguageStatsRow, []BiggestFileRow) {
	langs := make([]LanguageStatsRow, len(m.Languages))
	for i, stats := range m.Languages {
		langs[i] = statsRow(m.Project, stats, m.Timestamp)
	}
	biggest := make([]BiggestFileRow, len(m.BiggestFiles))
	for i, f := range m.BiggestFiles {
		biggest[i] = BiggestFileRow{
			Project:   m.Project.Repo,
			Rank:      int32(i + 1),
			FilePath:  f.Path,
			Lines:     int64(f.Lines),
			ScannedAt: m.Timestamp,
		}
	}
	return langs, biggest
}

// ConvertLanguageTotals turns batch totals into rows with project set to TotalProject.
func ConvertLanguageTotals(totals []schema.LanguageTotals, scannedAt time.Time) []LanguageStatsRow {
	rows := make([]LanguageStatsRow, len(totals))
	for i, t := range totals {
		projects := int32(t.Projects)
		rows[i] = statsRow(schema.ProjectIdentity{Repo: TotalProject}, t.Stats, scannedAt)
		rows[i].Projects = &projects
	}
	return rows
}

func statsRow(identity schema.ProjectIdentity, stats schema.CodeStats, scannedAt time.Time) LanguageStatsRow {
	row := LanguageStatsRow{
		Project:   identity.Repo,
		Language:  stats.Language.Name,
		Total:     int64(stats.Total),
		Source:    int64(stats.Source),
		Comment:   int64(stats.Comment),
		Single:    int64(stats.Single),
		Block:     int64(stats.Block),
		ScannedAt: scannedAt,
	}
	if identity.Branch != "" {
		branch := identity.Branch
		row.Branch = &branch
	}
	return row
}
