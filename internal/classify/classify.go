// Package classify turns file content into line counts for a language.
package classify

import (
	"fmt"
	"strings"

	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

// Func classifies the content of one file.
type Func func(content string) (schema.CodeStats, error)

// Catalog is the registry view a Set is built from.
type Catalog interface {
	Languages() []schema.Language
	PrefixMarker(lang schema.Language) (string, bool)
}

// Set maps every language of a catalog to its classifier. It is resolved once at
// construction, read-only afterwards and safe for concurrent use.
type Set struct {
	funcs   map[string]Func
	markers map[string]string
}

// Prefix counts lines with the prefix-comment rule: a line is a comment when its trimmed
// text starts with marker. Lines come from splitting on "\n", so a trailing newline adds an
// empty line and empty content is one empty line. Blank lines are not told apart from code,
// so Source always equals Total.
func Prefix(content, marker string) schema.CodeStats {
	lines := strings.Split(content, "\n")
	stats := schema.CodeStats{Total: len(lines)}
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), marker) {
			stats.Single++
		}
	}
	stats.Comment = stats.Single
	stats.Source = stats.Total
	return stats
}

// NewSet resolves a classifier for every language in the catalog. A language that is not
// prefix-ruled needs the tokenizer to support its canonical extension; otherwise the
// registry is misconfigured and NewSet fails with schema.ErrUnknownExtension.
func NewSet(catalog Catalog, tok contract.Tokenizer) (*Set, error) {
	langs := catalog.Languages()
	funcs := make(map[string]Func, len(langs))
	markers := make(map[string]string)
	for _, lang := range langs {
		if marker, ok := catalog.PrefixMarker(lang); ok {
			markers[lang.Name] = marker
			funcs[lang.Name] = func(content string) (schema.CodeStats, error) {
				return Prefix(content, marker), nil
			}
			continue
		}

		ext := lang.CanonicalExtension()
		if tok == nil || ext == "" || !tok.Supports(ext) {
			return nil, fmt.Errorf("language %s: %w: %q", lang.Name, schema.ErrUnknownExtension, ext)
		}
		funcs[lang.Name] = func(content string) (schema.CodeStats, error) {
			return tok.Count(ext, content)
		}
	}
	return &Set{funcs: funcs, markers: markers}, nil
}

// Classify counts the lines of content and tags the result with lang.
func (s *Set) Classify(lang schema.Language, content string) (schema.CodeStats, error) {
	f, ok := s.funcs[lang.Name]
	if !ok {
		return schema.CodeStats{}, fmt.Errorf("%w: %s", schema.ErrUnknownLanguage, lang.Name)
	}
	stats, err := f(content)
	if err != nil {
		return schema.CodeStats{}, fmt.Errorf("classifying %s: %w", lang.Name, err)
	}
	stats.Language = lang
	return stats, nil
}

// Has reports whether lang has a classifier.
func (s *Set) Has(lang schema.Language) bool {
	_, ok := s.funcs[lang.Name]
	return ok
}

// Marker returns the prefix marker lang is classified with, or "" when the tokenizer counts it.
func (s *Set) Marker(lang schema.Language) string {
	return s.markers[lang.Name]
}
