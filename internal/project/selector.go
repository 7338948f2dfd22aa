package project

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

// Selector decides which project files belong to a language request.
type Selector struct {
	includes []string
	excludes []string
}

// NewSelector builds include globs "**/*.<ext>" for every extension of the language, and
// exclusion globs from the resolved request. An exclude such as "vendor/**" also matches the
// same directory nested deeper in the tree.
func NewSelector(req schema.LanguageRequest) (*Selector, error) {
	lang, excludes := req.Resolve()

	sel := &Selector{}
	for _, ext := range lang.Extensions {
		ext = strings.TrimPrefix(ext, ".")
		if ext == "" {
			continue
		}
		sel.includes = append(sel.includes, "**/*."+ext)
	}

	for _, g := range excludes {
		g = strings.TrimPrefix(g, "./")
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("language %s: %w: %q", lang.Name, schema.ErrInvalidGlob, g)
		}
		sel.excludes = append(sel.excludes, g)
		if !strings.HasPrefix(g, "**/") && !strings.HasPrefix(g, "/") {
			sel.excludes = append(sel.excludes, "**/"+g)
		}
	}
	return sel, nil
}

// Match reports whether path is included and not negated by an exclude.
// Paths use forward slashes and are relative to the project root.
func (s *Selector) Match(path string) bool {
	if !matchAny(s.includes, path) {
		return false
	}
	return !matchAny(s.excludes, path)
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		// Patterns are validated in NewSelector, so the error is always nil.
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// Scan lazily yields the project files matched by sel, in the project's enumeration order.
// Enumeration stops early when the consumer stops ranging.
func Scan(ctx context.Context, p contract.Project, sel *Selector) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := p.Walk(ctx, func(path string) error {
			if !sel.Match(path) {
				return nil
			}
			if !yield(path, nil) {
				stopped = true
				return errStopScan
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

var errStopScan = fmt.Errorf("scan stopped")
