package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/huangsam/sloc/internal/classify"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/schema"
)

// currentCacheVersion defines the version of the cached CodeMetrics payload.
const currentCacheVersion = 1

// DefaultMemoSize is the number of CodeMetrics results kept in process.
const DefaultMemoSize = 128

type memoEntry struct {
	metrics  schema.CodeMetrics
	storedAt time.Time
}

// MetricsCache memoizes CodeMetrics in process and, when a store is available, in the
// persistent metrics cache. Only fingerprintable projects are cached.
type MetricsCache struct {
	memo      *lru.Cache[string, memoEntry]
	mgr       contract.CacheManager
	tokenizer schema.TokenizerBackend
	ttl       time.Duration
	now       func() time.Time
}

// NewMetricsCache creates a cache. A nil manager disables the persistent layer.
func NewMetricsCache(mgr contract.CacheManager, tokenizer schema.TokenizerBackend, ttl time.Duration) (*MetricsCache, error) {
	memo, err := lru.New[string, memoEntry](DefaultMemoSize)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}
	return &MetricsCache{memo: memo, mgr: mgr, tokenizer: tokenizer, ttl: ttl, now: time.Now}, nil
}

// CodeMetrics returns cached metrics for p when the project is unchanged, or computes and
// stores them. The second return value reports a cache hit.
func (c *MetricsCache) CodeMetrics(ctx context.Context, p contract.Project, set *classify.Set, requests []schema.LanguageRequest, opts Options) (schema.CodeMetrics, bool, error) {
	fp, ok := p.(contract.Fingerprinter)
	if !ok {
		m, err := CalculateCodeMetrics(ctx, p, set, requests, opts)
		return m, false, err
	}
	fingerprint, err := fp.Fingerprint(ctx)
	if err != nil {
		// Fallback to direct computation
		m, err := CalculateCodeMetrics(ctx, p, set, requests, opts)
		return m, false, err
	}

	key := generateCacheKey(fingerprint, p.Identity(), c.tokenizer, set.Marker, requests, opts.normalized().TopN)

	if m, hit := c.checkMemoHit(key); hit {
		return m, true, nil
	}
	if m, hit := c.checkCacheHit(key); hit {
		c.memo.Add(key, memoEntry{metrics: m, storedAt: c.now()})
		return m, true, nil
	}
	m, err := c.computeAndStore(ctx, p, set, requests, opts, key)
	return m, false, err
}

// Purge drops the in-process entries.
func (c *MetricsCache) Purge() {
	c.memo.Purge()
}

func (c *MetricsCache) store() contract.CacheStore {
	if c.mgr == nil {
		return nil
	}
	return c.mgr.GetMetricsStore()
}

func (c *MetricsCache) checkMemoHit(key string) (schema.CodeMetrics, bool) {
	entry, ok := c.memo.Get(key)
	if !ok {
		return schema.CodeMetrics{}, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.memo.Remove(key)
		return schema.CodeMetrics{}, false
	}
	return entry.metrics, true
}

// checkCacheHit attempts to retrieve and validate a persisted result.
func (c *MetricsCache) checkCacheHit(key string) (schema.CodeMetrics, bool) {
	store := c.store()
	if store == nil {
		return schema.CodeMetrics{}, false
	}
	data, version, ts, err := store.Get(key)
	if err != nil {
		return schema.CodeMetrics{}, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || c.now().Sub(time.Unix(ts, 0)) > c.ttl {
		return schema.CodeMetrics{}, false
	}
	var result schema.CodeMetrics
	if err := json.Unmarshal(data, &result); err != nil {
		return schema.CodeMetrics{}, false
	}
	return result, true
}

// computeAndStore computes the result and stores it in both layers.
func (c *MetricsCache) computeAndStore(ctx context.Context, p contract.Project, set *classify.Set, requests []schema.LanguageRequest, opts Options, key string) (schema.CodeMetrics, error) {
	result, err := CalculateCodeMetrics(ctx, p, set, requests, opts)
	if err != nil {
		return schema.CodeMetrics{}, err
	}

	now := c.now()
	c.memo.Add(key, memoEntry{metrics: result, storedAt: now})
	if store := c.store(); store != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := store.Set(key, data, currentCacheVersion, now.Unix()); err != nil {
				contract.LogWarn("Failed to store metrics in cache", err)
			}
		}
	}
	return result, nil
}

// generateCacheKey creates a unique key from everything that changes the metrics.
// markerOf reports the prefix marker of each language, since the registry file can change it.
func generateCacheKey(fingerprint string, identity schema.ProjectIdentity, tokenizer schema.TokenizerBackend, markerOf func(schema.Language) string, requests []schema.LanguageRequest, topN int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s|%s|%s|%d", fingerprint, identity.URL, identity.Owner, identity.Repo, identity.Branch, tokenizer, topN)
	for _, req := range requests {
		lang, excludes := req.Resolve()
		fmt.Fprintf(&b, "|%s:%s:%s:%s", lang.Name, strings.Join(lang.Extensions, ","), strings.Join(excludes, ","), markerOf(lang))
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(b.String())))
}
