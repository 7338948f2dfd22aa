package classify

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/huangsam/sloc/internal/languages"
	"github.com/huangsam/sloc/internal/tokenize"
	"github.com/huangsam/sloc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenizer supports a fixed set of extensions and reports every line as source.
type stubTokenizer struct {
	exts []string
	err  error
}

func (s stubTokenizer) Name() schema.TokenizerBackend { return "stub" }

func (s stubTokenizer) Supports(ext string) bool { return slices.Contains(s.exts, ext) }

func (s stubTokenizer) Count(_ string, content string) (schema.CodeStats, error) {
	if s.err != nil {
		return schema.CodeStats{}, s.err
	}
	n := strings.Count(content, "\n") + 1
	return schema.CodeStats{Total: n, Source: n}, nil
}

type stubCatalog struct {
	langs   []schema.Language
	markers map[string]string
}

func (c stubCatalog) Languages() []schema.Language { return c.langs }

func (c stubCatalog) PrefixMarker(lang schema.Language) (string, bool) {
	m, ok := c.markers[lang.Name]
	return m, ok
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		name    string
		content string
		total   int
		single  int
	}{
		{"mixed", "ls\n#comment\nmkdir foo", 3, 1},
		{"trailing newline adds a line", "ls\n#comment\nmkdir foo\n", 4, 1},
		{"empty is one line", "", 1, 0},
		{"indented comment", "  # indented\n\t#tab\nx # not a comment", 3, 2},
		{"blank lines are source", "\n\n", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prefix(tt.content, "#")
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.single, got.Single)
			assert.Equal(t, tt.single, got.Comment)
			assert.Equal(t, 0, got.Block)
			assert.Equal(t, got.Total, got.Source)
		})
	}
}

func TestNewSetDefaultRegistry(t *testing.T) {
	set, err := NewSet(languages.Default(), tokenize.NewBuiltin(nil))
	require.NoError(t, err)
	for _, lang := range languages.AllLanguages() {
		assert.True(t, set.Has(lang), lang.Name)
	}
	assert.Equal(t, "#", set.Marker(languages.Shell))
	assert.Equal(t, "#", set.Marker(languages.YAML))
	assert.Empty(t, set.Marker(languages.Go))
}

func TestNewSetUnknownExtension(t *testing.T) {
	catalog := stubCatalog{
		langs: []schema.Language{languages.Java, languages.Kotlin},
	}
	_, err := NewSet(catalog, stubTokenizer{exts: []string{"java"}})
	require.ErrorIs(t, err, schema.ErrUnknownExtension)
	assert.Contains(t, err.Error(), "Kotlin")

	_, err = NewSet(catalog, nil)
	require.ErrorIs(t, err, schema.ErrUnknownExtension)

	_, err = NewSet(stubCatalog{langs: []schema.Language{{Name: "Empty"}}}, stubTokenizer{})
	require.ErrorIs(t, err, schema.ErrUnknownExtension)
}

func TestSetClassify(t *testing.T) {
	catalog := stubCatalog{
		langs:   []schema.Language{languages.Shell, languages.Java},
		markers: map[string]string{"Shell": "#"},
	}
	set, err := NewSet(catalog, stubTokenizer{exts: []string{"java"}})
	require.NoError(t, err)

	t.Run("prefix language", func(t *testing.T) {
		got, err := set.Classify(languages.Shell, "ls\n#comment\nmkdir foo")
		require.NoError(t, err)
		assert.Equal(t, "Shell", got.Language.Name)
		assert.Equal(t, 3, got.Total)
		assert.Equal(t, 1, got.Single)
	})

	t.Run("tokenizer language", func(t *testing.T) {
		got, err := set.Classify(languages.Java, "a\nb")
		require.NoError(t, err)
		assert.Equal(t, "Java", got.Language.Name)
		assert.Equal(t, 2, got.Total)
	})

	t.Run("matches by name", func(t *testing.T) {
		got, err := set.Classify(schema.Language{Name: "Java", Extensions: []string{"jav"}}, "a")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Total)
	})

	t.Run("unknown language", func(t *testing.T) {
		_, err := set.Classify(languages.Go, "package main")
		require.ErrorIs(t, err, schema.ErrUnknownLanguage)
	})
}

func TestSetClassifyTokenizerError(t *testing.T) {
	boom := errors.New("boom")
	set, err := NewSet(stubCatalog{langs: []schema.Language{languages.Java}}, stubTokenizer{exts: []string{"java"}, err: boom})
	require.NoError(t, err)

	_, err = set.Classify(languages.Java, "x")
	require.ErrorIs(t, err, boom)
}

func FuzzPrefix(f *testing.F) {
	f.Add("ls\n#comment\nmkdir foo", "#")
	f.Add("", "#")
	f.Add("-- sql\nselect 1", "--")

	f.Fuzz(func(t *testing.T, content, marker string) {
		got := Prefix(content, marker)
		if got.Total != strings.Count(content, "\n")+1 {
			t.Fatalf("total %d for %d newlines", got.Total, strings.Count(content, "\n"))
		}
		if got.Comment != got.Single || got.Block != 0 || got.Source != got.Total || got.Single > got.Total {
			t.Fatalf("inconsistent prefix stats: %+v", got)
		}
	})
}
