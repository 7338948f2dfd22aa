package core

import (
	"context"
	"time"
)

// Context keys for scan options
type contextKey string

const quietKey contextKey = "quiet"

// WithQuiet marks the context so per-file warnings are not printed.
// Callers that return skipped counts as data use it.
func WithQuiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey, true)
}

// isQuiet returns whether status lines should be suppressed.
func isQuiet(ctx context.Context) bool {
	val := ctx.Value(quietKey)
	if val == nil {
		return false // default: print status lines
	}
	quiet, ok := val.(bool)
	return ok && quiet
}

// withScanTimeout bounds a scan by timeout. A zero timeout means no deadline.
func withScanTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
