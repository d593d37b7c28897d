package delivery

import (
	"sync"

	"github.com/playvault/storefront/internal/domain/model"
)

// Vault is a local fallback store for credentials that could not be persisted
// to the order store, keyed by order id, so the operator's own session can
// recover them later.
type Vault interface {
	Put(orderID string, creds model.Credentials)
	Get(orderID string) (model.Credentials, bool)
}

// MemoryVault keeps fallback credentials in process memory.
type MemoryVault struct {
	mu      sync.RWMutex
	entries map[string]model.Credentials
}

// NewMemoryVault constructs an empty vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{entries: make(map[string]model.Credentials)}
}

// Put stores credentials for the order, replacing any previous entry.
func (v *MemoryVault) Put(orderID string, creds model.Credentials) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[orderID] = creds
}

// Get returns stored credentials for the order.
func (v *MemoryVault) Get(orderID string) (model.Credentials, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	creds, ok := v.entries[orderID]
	return creds, ok
}
