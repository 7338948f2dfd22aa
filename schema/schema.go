// Package schema has the models, constants and errors shared by all parts of sloc.
package schema

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// Language is a named source dialect recognized by file extension.
// Extensions[0] is the canonical extension used to pick a comment grammar.
type Language struct {
	Name         string   `json:"name" yaml:"name"`
	Extensions   []string `json:"extensions" yaml:"extensions"`
	ExcludeGlobs []string `json:"exclude_globs,omitempty" yaml:"exclude"`
}

// Is reports whether two languages are the same. Languages are identified by name only.
func (l Language) Is(other Language) bool {
	return l.Name == other.Name
}

// CanonicalExtension returns the first extension, or "" if none are registered.
func (l Language) CanonicalExtension() string {
	if len(l.Extensions) == 0 {
		return ""
	}
	return l.Extensions[0]
}

// LanguageRequest asks for one language to be scanned, optionally narrowing the scan
// with extra exclusion globs (for example test trees).
type LanguageRequest struct {
	Language     Language `json:"language"`
	ExcludeGlobs []string `json:"exclude_globs,omitempty"`
}

// Resolve returns the language together with the union of the registry and request
// excludes. Order is preserved and duplicates are dropped.
func (r LanguageRequest) Resolve() (Language, []string) {
	excludes := make([]string, 0, len(r.Language.ExcludeGlobs)+len(r.ExcludeGlobs))
	for _, g := range slices.Concat(r.Language.ExcludeGlobs, r.ExcludeGlobs) {
		g = strings.TrimSpace(g)
		if g == "" || slices.Contains(excludes, g) {
			continue
		}
		excludes = append(excludes, g)
	}
	return r.Language, excludes
}

// CodeStats holds line counts for a file or a consolidated set of files.
// Classifiers always produce records where Comment == Single + Block.
type CodeStats struct {
	Language Language `json:"language"`
	Total    int      `json:"total"`
	Source   int      `json:"source"`
	Comment  int      `json:"comment"`
	Single   int      `json:"single"`
	Block    int      `json:"block"`
}

// Add returns the field-by-field sum of s and other, keeping the language of s.
func (s CodeStats) Add(other CodeStats) CodeStats {
	s.Total += other.Total
	s.Source += other.Source
	s.Comment += other.Comment
	s.Single += other.Single
	s.Block += other.Block
	return s
}

// Consolidate sums every entry of stats whose language name matches lang.
// Entries of other languages are ignored. An empty list yields zero counts.
func Consolidate(lang Language, stats []CodeStats) CodeStats {
	total := CodeStats{Language: lang}
	for _, s := range stats {
		if !s.Language.Is(lang) {
			continue
		}
		total = total.Add(s)
	}
	return total
}

// FileReport pairs a file path with its line counts.
type FileReport struct {
	Path  string    `json:"path"`
	Stats CodeStats `json:"stats"`
}

// LanguageReport holds the per-file results for one language.
type LanguageReport struct {
	Language    Language
	FileReports []FileReport
}

// Stats consolidates the file reports of this language. It is derived on every call.
func (r LanguageReport) Stats() CodeStats {
	stats := make([]CodeStats, len(r.FileReports))
	for i, fr := range r.FileReports {
		stats[i] = fr.Stats
	}
	return Consolidate(r.Language, stats)
}

// MarshalJSON includes the derived stats.
func (r LanguageReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Language    Language     `json:"language"`
		Stats       CodeStats    `json:"stats"`
		FileReports []FileReport `json:"file_reports"`
	}{r.Language, r.Stats(), r.FileReports})
}

// LanguagesReport is the result of scanning one project for many languages.
// LanguageReports follows the order of the requests that produced it.
type LanguagesReport struct {
	LanguageReports []LanguageReport
	SkippedFiles    int
}

// LanguagesScanned returns the languages present in the report, deduplicated by name.
func (r LanguagesReport) LanguagesScanned() []Language {
	var langs []Language
	seen := make(map[string]struct{}, len(r.LanguageReports))
	for _, lr := range r.LanguageReports {
		if _, ok := seen[lr.Language.Name]; ok {
			continue
		}
		seen[lr.Language.Name] = struct{}{}
		langs = append(langs, lr.Language)
	}
	return langs
}

// RelevantLanguageReports returns the reports whose consolidated total is positive.
func (r LanguagesReport) RelevantLanguageReports() []LanguageReport {
	var relevant []LanguageReport
	for _, lr := range r.LanguageReports {
		if lr.Stats().Total > 0 {
			relevant = append(relevant, lr)
		}
	}
	return relevant
}

// Find returns the report for the named language.
func (r LanguagesReport) Find(lang Language) (LanguageReport, bool) {
	for _, lr := range r.LanguageReports {
		if lr.Language.Is(lang) {
			return lr, true
		}
	}
	return LanguageReport{}, false
}

// MarshalJSON includes the derived views.
func (r LanguagesReport) MarshalJSON() ([]byte, error) {
	relevant := make([]string, 0, len(r.LanguageReports))
	for _, lr := range r.RelevantLanguageReports() {
		relevant = append(relevant, lr.Language.Name)
	}
	return json.Marshal(struct {
		LanguageReports   []LanguageReport `json:"language_reports"`
		LanguagesScanned  []Language       `json:"languages_scanned"`
		RelevantLanguages []string         `json:"relevant_languages"`
		SkippedFiles      int              `json:"skipped_files"`
	}{r.LanguageReports, r.LanguagesScanned(), relevant, r.SkippedFiles})
}

// ProjectIdentity describes where a scanned project came from. It is supplied by the caller.
type ProjectIdentity struct {
	URL    string `json:"url"`
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
}

// BiggestFile is one entry in the ranking of files by line count.
type BiggestFile struct {
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

// CodeMetrics is a flat summary of a project scan, suitable for storage.
type CodeMetrics struct {
	Project      ProjectIdentity `json:"project"`
	Timestamp    time.Time       `json:"timestamp"`
	Languages    []CodeStats     `json:"languages"`
	TotalFiles   int             `json:"total_files"`
	Files        int             `json:"files"`
	Lines        int             `json:"lines"`
	BiggestFiles []BiggestFile   `json:"biggest_files,omitempty"`
}

// LanguageTotals is the consolidated count of one language across several projects.
type LanguageTotals struct {
	Language Language  `json:"language"`
	Stats    CodeStats `json:"stats"`
	Projects int       `json:"projects"`
}
