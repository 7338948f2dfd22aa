// Package contract provides interfaces and shared utilities for the internal architecture of sloc.
package contract

import (
	"context"

	"github.com/huangsam/sloc/schema"
)

// Project is a read-only file tree that can be scanned.
// Paths are relative to the project root and always use forward slashes.
type Project interface {
	// Identity returns caller-supplied metadata about where the project came from.
	Identity() schema.ProjectIdentity

	// Walk calls fn for every regular file, lazily, in enumeration order.
	// Returning an error from fn stops the walk and returns that error.
	Walk(ctx context.Context, fn func(path string) error) error

	// ReadFile returns the full text content of one file.
	ReadFile(ctx context.Context, path string) (string, error)

	// TotalFileCount counts every file regardless of language.
	TotalFileCount(ctx context.Context) (int, error)
}

// Fingerprinter is implemented by projects that can summarize their current state.
// Two equal fingerprints mean the scan results can be reused.
type Fingerprinter interface {
	Fingerprint(ctx context.Context) (string, error)
}

// Tokenizer is a generic line classifier keyed by file extension.
type Tokenizer interface {
	// Name identifies the backend.
	Name() schema.TokenizerBackend

	// Supports reports whether a comment grammar exists for ext.
	Supports(ext string) bool

	// Count classifies content as if it were a file with extension ext.
	// An unsupported extension returns schema.ErrUnknownExtension.
	Count(ext, content string) (schema.CodeStats, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetMetricsStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

