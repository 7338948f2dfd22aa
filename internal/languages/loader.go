package languages

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/huangsam/sloc/schema"
	"gopkg.in/yaml.v3"
)

// registryFile is the on-disk shape of a custom registry.
//
//	languages:
//	  - name: Terraform
//	    extensions: [tf, tfvars]
//	    prefix: "#"
//	  - name: Go
//	    extensions: [go]
//	    exclude: ["vendor/**", "**/*_mock.go"]
//	  - name: YAML
//	    extensions: [yaml, yml]
//	    prefix: ""
//
// A replaced language keeps its prefix marker unless the entry sets prefix;
// prefix: "" hands it to the tokenizer.
type registryFile struct {
	Languages []languageEntry `yaml:"languages"`
}

type languageEntry struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
	Exclude    []string `yaml:"exclude"`
	Prefix     *string  `yaml:"prefix"`
}

// LoadRegistry reads a YAML registry file on top of the built-ins. An entry whose name
// matches a built-in replaces it in place; new names are appended in file order.
// An empty path returns the built-in registry.
func LoadRegistry(path string) (*Registry, error) {
	reg := Default()
	if path == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	if err := reg.merge(data); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	return reg, nil
}

// merge applies raw YAML entries to the registry.
func (r *Registry) merge(data []byte) error {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	for i, entry := range file.Languages {
		lang, err := entry.toLanguage()
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}

		idx := slices.IndexFunc(r.langs, func(l schema.Language) bool {
			return strings.EqualFold(l.Name, lang.Name)
		})
		if idx >= 0 {
			old := r.langs[idx].Name
			if marker, ok := r.markers[old]; ok {
				delete(r.markers, old)
				r.markers[lang.Name] = marker
			}
			r.langs[idx] = lang
		} else {
			r.langs = append(r.langs, lang)
		}

		switch {
		case entry.Prefix == nil:
		case *entry.Prefix == "":
			delete(r.markers, lang.Name)
		default:
			r.markers[lang.Name] = *entry.Prefix
		}
	}
	return nil
}

func (e languageEntry) toLanguage() (schema.Language, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return schema.Language{}, fmt.Errorf("language name is required")
	}

	var exts []string
	for _, ext := range e.Extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" && !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return schema.Language{}, fmt.Errorf("language %s needs at least one extension", name)
	}

	for _, g := range e.Exclude {
		if !doublestar.ValidatePattern(g) {
			return schema.Language{}, fmt.Errorf("language %s: %w: %q", name, schema.ErrInvalidGlob, g)
		}
	}

	return schema.Language{Name: name, Extensions: exts, ExcludeGlobs: slices.Clone(e.Exclude)}, nil
}
