// Package tokenize counts source, comment and blank lines with comment-aware scanners.
package tokenize

import (
	"fmt"
	"maps"
	"strings"

	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

var _ contract.Tokenizer = &Builtin{}

// Builtin classifies lines with a table of comment grammars keyed by extension.
// It is read-only after construction and safe for concurrent use.
type Builtin struct {
	grammars map[string]Grammar
}

// NewBuiltin returns a tokenizer for the default grammar table plus any extra grammars.
// Extra grammars replace defaults with the same extension.
func NewBuiltin(extra map[string]Grammar) *Builtin {
	all := maps.Clone(defaultGrammars)
	maps.Copy(all, extra)

	grammars := make(map[string]Grammar, len(all))
	for ext, g := range all {
		grammars[normalizeExt(ext)] = g.sorted()
	}
	return &Builtin{grammars: grammars}
}

// Name returns the backend identifier.
func (b *Builtin) Name() schema.TokenizerBackend {
	return schema.BuiltinTokenizer
}

// Supports reports whether a grammar exists for ext.
func (b *Builtin) Supports(ext string) bool {
	_, ok := b.grammars[normalizeExt(ext)]
	return ok
}

// Count classifies every line of content. A final newline ends the last line instead of
// starting a new one, and empty content has no lines.
func (b *Builtin) Count(ext, content string) (schema.CodeStats, error) {
	g, ok := b.grammars[normalizeExt(ext)]
	if !ok {
		return schema.CodeStats{}, fmt.Errorf("builtin tokenizer: %w: %q", schema.ErrUnknownExtension, ext)
	}

	var stats schema.CodeStats
	sc := &lineScanner{g: g}
	for _, line := range splitLines(content) {
		stats.Total++
		switch sc.scan(line) {
		case sourceLine:
			stats.Source++
		case singleLine:
			stats.Single++
		case blockLine:
			stats.Block++
		}
	}
	stats.Comment = stats.Single + stats.Block
	return stats, nil
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

type lineKind int

const (
	blankLine lineKind = iota
	sourceLine
	singleLine
	blockLine
)

// lineScanner carries block-comment and multiline-string state across lines.
type lineScanner struct {
	g     Grammar
	block *BlockComment
	depth int
	str   *StringLiteral
	doc   bool
}

// scan classifies one line. Code anywhere on the line makes it a source line; otherwise a
// line touched by a block comment is a block line, and a line with only a line comment is single.
func (s *lineScanner) scan(text string) lineKind {
	var hasCode, hasSingle, hasBlock bool
	if s.block != nil {
		hasBlock = true
	}
	if s.str != nil {
		if s.doc {
			hasBlock = true
		} else {
			hasCode = true
		}
	}

	for i := 0; i < len(text); {
		rest := text[i:]
		switch {
		case s.block != nil:
			if s.g.Nested && strings.HasPrefix(rest, s.block.Start) {
				s.depth++
				i += len(s.block.Start)
				continue
			}
			if strings.HasPrefix(rest, s.block.End) {
				i += len(s.block.End)
				if s.depth--; s.depth == 0 {
					s.block = nil
				}
				continue
			}
			i++

		case s.str != nil:
			if s.str.Escape != 0 && text[i] == s.str.Escape {
				i += 2
				continue
			}
			if strings.HasPrefix(rest, s.str.End) {
				i += len(s.str.End)
				s.str, s.doc = nil, false
				continue
			}
			i++

		default:
			if isSpace(text[i]) {
				i++
				continue
			}
			if tok := matchToken(s.g.CharTokens, rest); tok != "" {
				hasCode = true
				i += len(tok)
				continue
			}
			if !hasCode {
				if lit := matchLiteral(s.g.DocStrings, rest); lit != nil {
					s.str, s.doc = lit, true
					hasBlock = true
					i += len(lit.Start)
					continue
				}
			}
			if bc := matchBlock(s.g.BlockComments, rest); bc != nil {
				s.block, s.depth = bc, 1
				hasBlock = true
				i += len(bc.Start)
				continue
			}
			if s.lineComment(text, i) {
				hasSingle = true
				i = len(text)
				continue
			}
			if lit := matchLiteral(s.g.Strings, rest); lit != nil {
				s.str = lit
				hasCode = true
				i += len(lit.Start)
				continue
			}
			hasCode = true
			i++
		}
	}

	if s.str != nil && !s.str.Multiline {
		s.str, s.doc = nil, false
	}

	switch {
	case hasCode:
		return sourceLine
	case hasBlock:
		return blockLine
	case hasSingle:
		return singleLine
	default:
		return blankLine
	}
}

func (s *lineScanner) lineComment(text string, i int) bool {
	if s.g.SpacedLineComments && i > 0 && !isSpace(text[i-1]) {
		return false
	}
	for _, marker := range s.g.LineComments {
		if strings.HasPrefix(text[i:], marker) {
			return true
		}
	}
	return false
}

func matchToken(tokens []string, rest string) string {
	for _, tok := range tokens {
		if strings.HasPrefix(rest, tok) {
			return tok
		}
	}
	return ""
}

func matchBlock(blocks []BlockComment, rest string) *BlockComment {
	for i := range blocks {
		if strings.HasPrefix(rest, blocks[i].Start) {
			return &blocks[i]
		}
	}
	return nil
}

func matchLiteral(lits []StringLiteral, rest string) *StringLiteral {
	for i := range lits {
		if strings.HasPrefix(rest, lits[i].Start) {
			return &lits[i]
		}
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}
