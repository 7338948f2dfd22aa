package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// TokenizerBackend represents the engine that classifies lines for most languages.
	TokenizerBackend string

	// ClassifierKind describes how a language's lines are classified.
	ClassifierKind string
)

// All output modes supported.
const (
	CSVOut      OutputMode = "csv"
	TextOut     OutputMode = "text" // default
	JSONOut     OutputMode = "json"
	ParquetOut  OutputMode = "parquet"
	MarkdownOut OutputMode = "markdown"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All tokenizer backends supported.
const (
	BuiltinTokenizer TokenizerBackend = "builtin" // default
	SCCTokenizer     TokenizerBackend = "scc"
)

// Classifier kinds.
const (
	PrefixClassifier    ClassifierKind = "prefix"
	TokenizerClassifier ClassifierKind = "tokenizer"
)

// Limits for ranked file lists.
const (
	DefaultTopFiles = 20
	MaxTopFiles     = 100
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:      {},
	TextOut:     {},
	JSONOut:     {},
	ParquetOut:  {},
	MarkdownOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidTokenizerBackends lists all valid tokenizer backends.
var ValidTokenizerBackends = map[TokenizerBackend]struct{}{
	BuiltinTokenizer: {},
	SCCTokenizer:     {},
}
