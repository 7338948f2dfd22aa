package tokenize

import (
	"fmt"

	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

// New returns the tokenizer for a configured backend.
func New(backend schema.TokenizerBackend) (contract.Tokenizer, error) {
	switch backend {
	case schema.BuiltinTokenizer, "":
		return NewBuiltin(nil), nil
	case schema.SCCTokenizer:
		return NewSCC(), nil
	default:
		return nil, fmt.Errorf("invalid tokenizer backend '%s'. must be builtin, scc", backend)
	}
}
