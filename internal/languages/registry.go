// Package languages holds the catalog of languages sloc knows how to count.
package languages

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/sloc/schema"
)

// Built-in language definitions. Values are never mutated after init.
var (
	Java       = schema.Language{Name: "Java", Extensions: []string{"java"}}
	Kotlin     = schema.Language{Name: "Kotlin", Extensions: []string{"kt"}}
	Clojure    = schema.Language{Name: "Clojure", Extensions: []string{"clj"}}
	Scala      = schema.Language{Name: "Scala", Extensions: []string{"scala"}}
	Python     = schema.Language{Name: "Python", Extensions: []string{"py"}}
	Rust       = schema.Language{Name: "Rust", Extensions: []string{"rs"}}
	Go         = schema.Language{Name: "Go", Extensions: []string{"go"}, ExcludeGlobs: []string{"vendor/**"}}
	Shell      = schema.Language{Name: "Shell", Extensions: []string{"sh", "bash"}}
	PowerShell = schema.Language{Name: "PowerShell", Extensions: []string{"ps1"}}
	TypeScript = schema.Language{Name: "TypeScript", Extensions: []string{"ts"}}
	JavaScript = schema.Language{Name: "JavaScript", Extensions: []string{"js"}}
	YAML       = schema.Language{Name: "YAML", Extensions: []string{"yaml", "yml"}}
)

// builtinPrefixMarkers lists languages counted with the prefix-comment rule.
var builtinPrefixMarkers = map[string]string{
	Shell.Name: "#",
	YAML.Name:  "#",
}

// AllLanguages returns the built-in languages in default scan order.
// A fresh slice is returned on every call.
func AllLanguages() []schema.Language {
	return []schema.Language{
		Java, Kotlin, Clojure, Scala, PowerShell, Shell,
		TypeScript, JavaScript, Python, Rust, Go, YAML,
	}
}

// Registry is an ordered set of languages plus their prefix-comment markers.
// It is read-only once built and safe for concurrent use.
type Registry struct {
	langs   []schema.Language
	markers map[string]string
}

// Default returns the built-in registry.
func Default() *Registry {
	return &Registry{langs: AllLanguages(), markers: maps.Clone(builtinPrefixMarkers)}
}

// Languages returns a copy of the registered languages in order.
func (r *Registry) Languages() []schema.Language {
	return slices.Clone(r.langs)
}

// PrefixMarker returns the comment marker of a prefix-rule language.
func (r *Registry) PrefixMarker(lang schema.Language) (string, bool) {
	m, ok := r.markers[lang.Name]
	return m, ok
}

// Lookup finds a language by case-insensitive name.
func (r *Registry) Lookup(name string) (schema.Language, bool) {
	for _, l := range r.langs {
		if strings.EqualFold(l.Name, strings.TrimSpace(name)) {
			return l, true
		}
	}
	return schema.Language{}, false
}

// DefaultRequests wraps every registered language into a request without extra excludes.
func (r *Registry) DefaultRequests() []schema.LanguageRequest {
	reqs := make([]schema.LanguageRequest, len(r.langs))
	for i, l := range r.langs {
		reqs[i] = schema.LanguageRequest{Language: l}
	}
	return reqs
}

// ParseRequests turns a comma-separated list of language names into requests.
// An empty selection means every registered language. Every request gets the extra excludes.
func (r *Registry) ParseRequests(selection string, excludes []string) ([]schema.LanguageRequest, error) {
	var reqs []schema.LanguageRequest
	if strings.TrimSpace(selection) == "" {
		reqs = r.DefaultRequests()
	} else {
		seen := map[string]struct{}{}
		for name := range strings.SplitSeq(selection, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			lang, ok := r.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", schema.ErrUnknownLanguage, name)
			}
			if _, dup := seen[lang.Name]; dup {
				continue
			}
			seen[lang.Name] = struct{}{}
			reqs = append(reqs, schema.LanguageRequest{Language: lang})
		}
	}
	if len(excludes) > 0 {
		for i := range reqs {
			reqs[i].ExcludeGlobs = slices.Clone(excludes)
		}
	}
	return reqs, nil
}

// Infos describes every registered language and the classifier it uses.
func (r *Registry) Infos() []schema.LanguageInfo {
	infos := make([]schema.LanguageInfo, len(r.langs))
	for i, l := range r.langs {
		info := schema.LanguageInfo{Language: l, Classifier: schema.TokenizerClassifier}
		if m, ok := r.markers[l.Name]; ok {
			info.Classifier = schema.PrefixClassifier
			info.Marker = m
		}
		infos[i] = info
	}
	return infos
}
