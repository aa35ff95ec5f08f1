// Package runstore persists the history of pipeline runs and their per-group results.
package runstore

import (
	"sync"

	"github.com/huangsam/likeplot/internal/contract"
)

// RunStoreManager holds the process-wide RunStore.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &RunStoreManager{} // Compile-time check

// GetRunStore returns the run store, or nil before InitStore.
func (m *RunStoreManager) GetRunStore() contract.RunStore {
	m.RLock()
	defer m.RUnlock()
	return m.runs
}
