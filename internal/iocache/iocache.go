// Package iocache persists CodeMetrics results between runs.
package iocache

import (
	"sync"

	"github.com/huangsam/sloc/internal/contract"
)

// CacheStoreManager manages the CacheStore instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	metrics      contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetMetricsStore returns the metrics CacheStore.
func (mgr *CacheStoreManager) GetMetricsStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.metrics
}
