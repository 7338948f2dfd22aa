package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/sloc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals lets a test run InitStores and CloseCaching again.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
	t.Cleanup(func() {
		CloseCaching()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &CacheStoreManager{}
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.NotNil(t, Manager.GetMetricsStore(), "Metrics store should not be nil")

		CloseCaching()
		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "Database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		// Multiple initializations should be safe (sync.Once)
		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath))

		// Multiple closes should be safe (sync.Once)
		CloseCaching()
		CloseCaching()
	})

	t.Run("empty backend disables caching", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitStores("", ""))
		assert.Nil(t, Manager.GetMetricsStore())
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores(schema.DatabaseBackend("oracle"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported cache backend")
	})
}

func TestSQLiteBackendOperations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	t.Run("miss", func(t *testing.T) {
		_, _, _, err := store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set and get", func(t *testing.T) {
		ts := time.Now().Unix()
		require.NoError(t, store.Set("key", []byte(`{"lines":3}`), 1, ts))

		value, version, gotTs, err := store.Get("key")
		require.NoError(t, err)
		assert.Equal(t, `{"lines":3}`, string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, ts, gotTs)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set("key", []byte("new"), 2, 42))
		value, version, ts, err := store.Get("key")
		require.NoError(t, err)
		assert.Equal(t, "new", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(42), ts)
	})

	t.Run("status", func(t *testing.T) {
		require.NoError(t, store.Set("other", []byte("x"), 1, 100))
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, uint(2), status.SchemaVersion)
		assert.False(t, status.Dirty)
		assert.Equal(t, time.Unix(42, 0), status.OldestEntryTime)
		assert.Equal(t, time.Unix(100, 0), status.LastEntryTime)
		assert.Positive(t, status.TableSizeBytes)
	})
}

func TestNoneBackend(t *testing.T) {
	store, err := NewCacheStore(schema.NoneBackend, "")
	require.NoError(t, err)

	require.NoError(t, store.Set("key", []byte("v"), 1, 1))
	_, _, _, err = store.Get("key")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestGetPlaceholder(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		expected string
	}{
		{schema.SQLiteBackend, "?"},
		{schema.MySQLBackend, "?"},
		{schema.PostgreSQLBackend, "$1"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &CacheStoreImpl{backend: tt.backend}
			assert.Equal(t, tt.expected, store.getPlaceholder())
		})
	}
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains []string
	}{
		{schema.SQLiteBackend, []string{"INSERT OR REPLACE INTO", `"sloc_metrics_cache"`}},
		{schema.MySQLBackend, []string{"ON DUPLICATE KEY UPDATE", "`sloc_metrics_cache`"}},
		{schema.PostgreSQLBackend, []string{"ON CONFLICT (cache_key) DO UPDATE", "$4"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &CacheStoreImpl{backend: tt.backend, tableName: metricsTable}
			query := store.getUpsertQuery()
			for _, c := range tt.contains {
				assert.True(t, strings.Contains(query, c), "query %q should contain %q", query, c)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes the file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.SQLiteBackend, filepath.Join(t.TempDir(), "none.db"), ""))
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.DatabaseBackend("oracle"), "", ""))
	})
}

func TestCacheStoreManagerConcurrency(t *testing.T) {
	mgr := &CacheStoreManager{}
	store := &MockCacheStore{}

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			_ = mgr.GetMetricsStore()
		})
	}
	mgr.Lock()
	mgr.metrics = store
	mgr.Unlock()
	wg.Wait()

	assert.Equal(t, store, mgr.GetMetricsStore())
}

func TestPrintCacheStatus(t *testing.T) {
	var b strings.Builder
	PrintCacheStatus(&b, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    2,
		SchemaVersion:   2,
		LastEntryTime:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local),
		OldestEntryTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		TableSizeBytes:  4096,
	})
	out := b.String()
	assert.Contains(t, out, "Cache Backend: sqlite")
	assert.Contains(t, out, "Schema Version: 2\n")
	assert.Contains(t, out, "Total Entries: 2")
	assert.Contains(t, out, "Last Entry: 2024-01-02 03:04:05")
	assert.Contains(t, out, "Table Size: 4096 bytes")

	b.Reset()
	PrintCacheStatus(&b, schema.CacheStatus{Backend: "none"})
	assert.NotContains(t, b.String(), "Total Entries")
}
