package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/sloc/internal/classify"
	"github.com/huangsam/sloc/internal/contract"
	"github.com/huangsam/sloc/internal/iocache"
	"github.com/huangsam/sloc/internal/languages"
	"github.com/huangsam/sloc/internal/project"
	"github.com/huangsam/sloc/internal/tokenize"
	"github.com/huangsam/sloc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCacheStore for testing (alias for MockCacheStore)
type MockCacheStore = iocache.MockCacheStore

func newTestCache(t *testing.T, store *MockCacheStore) *MetricsCache {
	t.Helper()
	var c *MetricsCache
	var err error
	if store == nil {
		c, err = NewMetricsCache(nil, schema.BuiltinTokenizer, time.Hour)
	} else {
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetMetricsStore").Return(store)
		c, err = NewMetricsCache(mgr, schema.BuiltinTokenizer, time.Hour)
	}
	require.NoError(t, err)
	return c
}

func TestCheckCacheHit_CacheHit(t *testing.T) {
	mockStore := &MockCacheStore{}
	want := schema.CodeMetrics{Files: 3, Lines: 42}
	data, _ := json.Marshal(want)

	// Valid cache entry: current version, recent timestamp
	mockStore.On("Get", "test-key").Return(data, currentCacheVersion, time.Now().Unix(), nil)

	actual, hit := newTestCache(t, mockStore).checkCacheHit("test-key")
	assert.True(t, hit)
	assert.Equal(t, 42, actual.Lines)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_VersionMismatch(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", "test-key").Return([]byte("{}"), currentCacheVersion+1, time.Now().Unix(), nil)

	_, hit := newTestCache(t, mockStore).checkCacheHit("test-key")
	assert.False(t, hit)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_Stale(t *testing.T) {
	mockStore := &MockCacheStore{}
	staleTime := time.Now().Add(-2 * time.Hour).Unix()
	mockStore.On("Get", "test-key").Return([]byte("{}"), currentCacheVersion, staleTime, nil)

	_, hit := newTestCache(t, mockStore).checkCacheHit("test-key")
	assert.False(t, hit)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_Error(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", "test-key").Return([]byte{}, 0, int64(0), assert.AnError)

	_, hit := newTestCache(t, mockStore).checkCacheHit("test-key")
	assert.False(t, hit)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_UnmarshalError(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", "test-key").Return([]byte("invalid json"), currentCacheVersion, time.Now().Unix(), nil)

	_, hit := newTestCache(t, mockStore).checkCacheHit("test-key")
	assert.False(t, hit)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_NoStore(t *testing.T) {
	_, hit := newTestCache(t, nil).checkCacheHit("test-key")
	assert.False(t, hit)
}

func TestMetricsCache_MemoHit(t *testing.T) {
	c := newTestCache(t, nil)
	ctx := context.Background()
	requests := []schema.LanguageRequest{{Language: languages.Go}}
	p := sampleProject()

	first, hit, err := c.CodeMetrics(ctx, p, defaultSet(t), requests, testOptions())
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.CodeMetrics(ctx, p, defaultSet(t), requests, testOptions())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)

	// Different requests use a different key
	_, hit, err = c.CodeMetrics(ctx, p, defaultSet(t), []schema.LanguageRequest{{Language: languages.Shell}}, testOptions())
	require.NoError(t, err)
	assert.False(t, hit)

	c.Purge()
	_, hit, err = c.CodeMetrics(ctx, p, defaultSet(t), requests, testOptions())
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMetricsCache_MemoExpires(t *testing.T) {
	c := newTestCache(t, nil)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()
	requests := []schema.LanguageRequest{{Language: languages.Go}}

	_, _, err := c.CodeMetrics(ctx, sampleProject(), defaultSet(t), requests, testOptions())
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, hit, err := c.CodeMetrics(ctx, sampleProject(), defaultSet(t), requests, testOptions())
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMetricsCache_ContentChangeMisses(t *testing.T) {
	c := newTestCache(t, nil)
	ctx := context.Background()
	requests := []schema.LanguageRequest{{Language: languages.Go}}

	_, _, err := c.CodeMetrics(ctx, sampleProject(), defaultSet(t), requests, testOptions())
	require.NoError(t, err)

	changed := project.NewMemory(schema.ProjectIdentity{Owner: "acme", Repo: "demo"}, map[string]string{
		"main.go": "package main\n",
	})
	m, hit, err := c.CodeMetrics(ctx, changed, defaultSet(t), requests, testOptions())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, m.Lines)
}

func TestMetricsCache_StoresOnMiss(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", mock.Anything).Return([]byte{}, 0, int64(0), assert.AnError)
	mockStore.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil)

	c := newTestCache(t, mockStore)
	m, hit, err := c.CodeMetrics(context.Background(), sampleProject(), defaultSet(t), []schema.LanguageRequest{{Language: languages.Go}}, testOptions())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 5, m.Lines)
	mockStore.AssertNumberOfCalls(t, "Set", 1)

	data := mockStore.Calls[1].Arguments.Get(1).([]byte)
	var stored schema.CodeMetrics
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, m.Lines, stored.Lines)
}

func TestMetricsCache_StoreFailureIsNotFatal(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", mock.Anything).Return([]byte{}, 0, int64(0), assert.AnError)
	mockStore.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	c := newTestCache(t, mockStore)
	_, hit, err := c.CodeMetrics(context.Background(), sampleProject(), defaultSet(t), []schema.LanguageRequest{{Language: languages.Go}}, testOptions())
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMetricsCache_PersistentHit(t *testing.T) {
	want := schema.CodeMetrics{Files: 7, Lines: 99}
	data, _ := json.Marshal(want)
	mockStore := &MockCacheStore{}
	mockStore.On("Get", mock.Anything).Return(data, currentCacheVersion, time.Now().Unix(), nil)

	c := newTestCache(t, mockStore)
	m, hit, err := c.CodeMetrics(context.Background(), sampleProject(), defaultSet(t), []schema.LanguageRequest{{Language: languages.Go}}, testOptions())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 99, m.Lines)
	mockStore.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// plainProject exposes only the Project methods of the wrapped project.
type plainProject struct {
	contract.Project
}

func TestMetricsCache_NonFingerprinterBypasses(t *testing.T) {
	mockStore := &MockCacheStore{}
	c := newTestCache(t, mockStore)
	p := plainProject{sampleProject()}

	for range 2 {
		_, hit, err := c.CodeMetrics(context.Background(), p, defaultSet(t), []schema.LanguageRequest{{Language: languages.Go}}, testOptions())
		require.NoError(t, err)
		assert.False(t, hit)
	}
	mockStore.AssertNotCalled(t, "Get", mock.Anything)
}

func TestGenerateCacheKey(t *testing.T) {
	id := schema.ProjectIdentity{Owner: "o", Repo: "r"}
	requests := []schema.LanguageRequest{{Language: languages.Go}}
	noMarker := func(schema.Language) string { return "" }

	base := generateCacheKey("fp", id, schema.BuiltinTokenizer, noMarker, requests, 20)
	assert.Len(t, base, 64)
	assert.Equal(t, base, generateCacheKey("fp", id, schema.BuiltinTokenizer, noMarker, requests, 20))

	assert.NotEqual(t, base, generateCacheKey("fp2", id, schema.BuiltinTokenizer, noMarker, requests, 20))
	assert.NotEqual(t, base, generateCacheKey("fp", schema.ProjectIdentity{Repo: "r"}, schema.BuiltinTokenizer, noMarker, requests, 20))
	assert.NotEqual(t, base, generateCacheKey("fp", id, schema.SCCTokenizer, noMarker, requests, 20))
	assert.NotEqual(t, base, generateCacheKey("fp", id, schema.BuiltinTokenizer, noMarker, requests, 10))
	withExclude := []schema.LanguageRequest{{Language: languages.Go, ExcludeGlobs: []string{"**/*_test.go"}}}
	assert.NotEqual(t, base, generateCacheKey("fp", id, schema.BuiltinTokenizer, noMarker, withExclude, 20))
	hashMarker := func(schema.Language) string { return "#" }
	assert.NotEqual(t, base, generateCacheKey("fp", id, schema.BuiltinTokenizer, hashMarker, requests, 20))
}

func TestMetricsCache_PrefixMarkerChangeMisses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "languages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages:\n  - name: Shell\n    extensions: [sh, bash]\n    prefix: \"\"\n"), 0o644))
	reg, err := languages.LoadRegistry(path)
	require.NoError(t, err)
	tokenized, err := classify.NewSet(reg, tokenize.NewBuiltin(nil))
	require.NoError(t, err)

	c := newTestCache(t, nil)
	ctx := context.Background()
	p := project.NewMemory(schema.ProjectIdentity{Repo: "r"}, map[string]string{"run.sh": "ls\n\n# c\n"})
	requests := []schema.LanguageRequest{{Language: languages.Shell}}

	first, hit, err := c.CodeMetrics(ctx, p, defaultSet(t), requests, testOptions())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 4, first.Lines, "prefix rule counts the empty last line")

	second, hit, err := c.CodeMetrics(ctx, p, tokenized, requests, testOptions())
	require.NoError(t, err)
	assert.False(t, hit, "a different classifier for the same files is a different entry")
	assert.Equal(t, 3, second.Lines)
}
