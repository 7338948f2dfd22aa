package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

// WriteLanguages outputs the effective language registry.
func WriteLanguages(infos []schema.LanguageInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, infos)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLanguagesCSV(w, infos)
		}, "Wrote CSV")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLanguagesMarkdown(w, infos)
		}, "Wrote Markdown")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the language list")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLanguagesTable(w, infos)
		}, "Wrote table")
	}
}

func writeLanguagesCSV(w io.Writer, infos []schema.LanguageInfo) error {
	header := []string{"name", "extensions", "excludes", "classifier", "marker"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, info := range infos {
			rec := []string{
				info.Language.Name,
				strings.Join(info.Language.Extensions, "|"),
				strings.Join(info.Language.ExcludeGlobs, "|"),
				string(info.Classifier),
				info.Marker,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeLanguagesMarkdown(w io.Writer, infos []schema.LanguageInfo) error {
	for _, info := range infos {
		line := fmt.Sprintf("*%s*: `.%s`", info.Language.Name, strings.Join(info.Language.Extensions, "`, `."))
		if info.Classifier == schema.PrefixClassifier {
			line += fmt.Sprintf(" (comments start with `%s`)", info.Marker)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeLanguagesTable(w io.Writer, infos []schema.LanguageInfo) error {
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{
			info.Language.Name,
			strings.Join(info.Language.Extensions, ", "),
			strings.Join(info.Language.ExcludeGlobs, ", "),
			string(info.Classifier),
			info.Marker,
		}
	}
	if err := renderTable(w, []string{"Language", "Extensions", "Excludes", "Classifier", "Marker"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d languages registered\n", len(infos))
	return err
}
