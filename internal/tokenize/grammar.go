package tokenize

import (
	"cmp"
	"slices"
)

// BlockComment delimits a block comment.
type BlockComment struct {
	Start string
	End   string
}

// StringLiteral delimits a string or character literal so comment markers inside it are ignored.
type StringLiteral struct {
	Start     string
	End       string
	Escape    byte // 0 means the literal has no escape character
	Multiline bool // unterminated literals close at end of line unless set
}

// Grammar is the comment syntax of one family of languages.
type Grammar struct {
	LineComments  []string
	BlockComments []BlockComment
	Strings       []StringLiteral
	// Nested block comments keep a depth counter, as in Rust or Scala.
	Nested bool
	// DocStrings are literals that count as block comments when nothing else precedes
	// them on the line, as with Python triple-quoted docstrings.
	DocStrings []StringLiteral
	// CharTokens are character literals consumed whole as code, so a quote or
	// comment marker inside them opens nothing.
	CharTokens []string
	// SpacedLineComments requires line-comment markers to start the line or follow
	// whitespace, so "$#" in shell is not a comment.
	SpacedLineComments bool
}

// sorted returns a copy whose token lists are ordered longest first so that
// "\"\"\"" is tried before "\"" and "<#" before "#".
func (g Grammar) sorted() Grammar {
	g.LineComments = slices.Clone(g.LineComments)
	slices.SortStableFunc(g.LineComments, func(a, b string) int { return cmp.Compare(len(b), len(a)) })
	g.BlockComments = slices.Clone(g.BlockComments)
	slices.SortStableFunc(g.BlockComments, func(a, b BlockComment) int { return cmp.Compare(len(b.Start), len(a.Start)) })
	g.Strings = slices.Clone(g.Strings)
	slices.SortStableFunc(g.Strings, func(a, b StringLiteral) int { return cmp.Compare(len(b.Start), len(a.Start)) })
	g.CharTokens = slices.Clone(g.CharTokens)
	slices.SortStableFunc(g.CharTokens, func(a, b string) int { return cmp.Compare(len(b), len(a)) })
	g.DocStrings = slices.Clone(g.DocStrings)
	slices.SortStableFunc(g.DocStrings, func(a, b StringLiteral) int { return cmp.Compare(len(b.Start), len(a.Start)) })
	return g
}

var (
	doubleQuoted = StringLiteral{Start: `"`, End: `"`, Escape: '\\'}
	singleQuoted = StringLiteral{Start: `'`, End: `'`, Escape: '\\'}
	cBlock       = BlockComment{Start: "/*", End: "*/"}
)

// Grammar families shared by several extensions.
var (
	cStyle = Grammar{
		LineComments:  []string{"//"},
		BlockComments: []BlockComment{cBlock},
		Strings:       []StringLiteral{doubleQuoted, singleQuoted},
	}

	goGrammar = Grammar{
		LineComments:  []string{"//"},
		BlockComments: []BlockComment{cBlock},
		Strings: []StringLiteral{
			doubleQuoted,
			singleQuoted,
			{Start: "`", End: "`", Multiline: true},
		},
	}

	jsGrammar = Grammar{
		LineComments:  []string{"//"},
		BlockComments: []BlockComment{cBlock},
		Strings: []StringLiteral{
			doubleQuoted,
			singleQuoted,
			{Start: "`", End: "`", Escape: '\\', Multiline: true},
		},
	}

	// jvmGrammar covers Kotlin and Scala: nested block comments and raw triple-quoted strings.
	jvmGrammar = Grammar{
		LineComments:  []string{"//"},
		BlockComments: []BlockComment{cBlock},
		Nested:        true,
		Strings: []StringLiteral{
			{Start: `"""`, End: `"""`, Multiline: true},
			doubleQuoted,
			singleQuoted,
		},
	}

	// Lifetimes like 'a make single quotes unreliable, so only double quotes are literals
	// and the quote characters are listed as tokens.
	rustGrammar = Grammar{
		LineComments:  []string{"//"},
		BlockComments: []BlockComment{cBlock},
		Nested:        true,
		Strings:       []StringLiteral{{Start: `"`, End: `"`, Escape: '\\', Multiline: true}},
		CharTokens:    []string{`'"'`, `'\"'`, `'\''`},
	}

	pythonGrammar = Grammar{
		LineComments: []string{"#"},
		Strings: []StringLiteral{
			{Start: `"""`, End: `"""`, Escape: '\\', Multiline: true},
			{Start: `'''`, End: `'''`, Escape: '\\', Multiline: true},
			doubleQuoted,
			singleQuoted,
		},
		DocStrings: []StringLiteral{
			{Start: `"""`, End: `"""`, Escape: '\\', Multiline: true},
			{Start: `'''`, End: `'''`, Escape: '\\', Multiline: true},
		},
	}

	hashGrammar = Grammar{
		LineComments:       []string{"#"},
		Strings:            []StringLiteral{doubleQuoted, {Start: `'`, End: `'`}},
		SpacedLineComments: true,
	}

	powershellGrammar = Grammar{
		LineComments:  []string{"#"},
		BlockComments: []BlockComment{{Start: "<#", End: "#>"}},
		Strings: []StringLiteral{
			{Start: `"`, End: `"`, Escape: '`', Multiline: true},
			{Start: `'`, End: `'`, Multiline: true},
		},
	}

	lispGrammar = Grammar{
		LineComments: []string{";"},
		Strings:      []StringLiteral{{Start: `"`, End: `"`, Escape: '\\', Multiline: true}},
		CharTokens:   []string{`\"`, `\;`, `\\`},
	}

	sqlGrammar = Grammar{
		LineComments:  []string{"--"},
		BlockComments: []BlockComment{cBlock},
		Strings:       []StringLiteral{{Start: `'`, End: `'`, Escape: '\\'}},
	}

	rubyGrammar = Grammar{
		LineComments:       []string{"#"},
		BlockComments:      []BlockComment{{Start: "=begin", End: "=end"}},
		Strings:            []StringLiteral{doubleQuoted, singleQuoted},
		SpacedLineComments: true,
	}

	luaGrammar = Grammar{
		LineComments:  []string{"--"},
		BlockComments: []BlockComment{{Start: "--[[", End: "]]"}},
		Strings:       []StringLiteral{doubleQuoted, singleQuoted},
	}
)

// defaultGrammars maps canonical extensions to their grammar.
var defaultGrammars = map[string]Grammar{
	"java":   cStyle,
	"c":      cStyle,
	"h":      cStyle,
	"cc":     cStyle,
	"cpp":    cStyle,
	"hpp":    cStyle,
	"cs":     cStyle,
	"swift":  jvmGrammar,
	"php":    cStyle,
	"kt":     jvmGrammar,
	"kts":    jvmGrammar,
	"scala":  jvmGrammar,
	"go":     goGrammar,
	"js":     jsGrammar,
	"jsx":    jsGrammar,
	"mjs":    jsGrammar,
	"ts":     jsGrammar,
	"tsx":    jsGrammar,
	"rs":     rustGrammar,
	"py":     pythonGrammar,
	"sh":     hashGrammar,
	"bash":   hashGrammar,
	"zsh":    hashGrammar,
	"yaml":   hashGrammar,
	"yml":    hashGrammar,
	"toml":   hashGrammar,
	"tf":     hashGrammar,
	"r":      hashGrammar,
	"ps1":    powershellGrammar,
	"clj":    lispGrammar,
	"cljs":   lispGrammar,
	"cljc":   lispGrammar,
	"el":     lispGrammar,
	"sql":    sqlGrammar,
	"rb":     rubyGrammar,
	"lua":    luaGrammar,
}
