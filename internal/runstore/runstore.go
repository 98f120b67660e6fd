// Package runstore tracks sample runs and their samples in a SQL database.
package runstore

import (
	"sync"

	"github.com/huangsam/trafficprofile/internal/contract"
)

// RunStoreManager owns the process-wide RunStore.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &RunStoreManager{} // Compile-time check

// GetRunStore returns the RunStore, or nil when tracking was never initialized.
func (mgr *RunStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
