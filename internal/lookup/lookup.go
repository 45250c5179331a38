// Package lookup resolves internal SKUs to vendor product codes for brands
// whose code cannot be derived algorithmically (the vendor assigns arbitrary
// prefixes per article).
package lookup

import (
	"context"
	"strings"
	"sync"
)

// Store maps an internal SKU to a vendor code for one brand.
type Store interface {
	Resolve(ctx context.Context, brand, sku string) (string, bool, error)
}

// MemStore is an in-process lookup table, safe for concurrent reads and
// writes. It backs brands when no database is configured and serves as the
// seed fixture in tests.
type MemStore struct {
	mu    sync.RWMutex
	codes map[string]string // "{brand}:{sku}" -> vendor code
}

func NewMemStore() *MemStore {
	return &MemStore{codes: make(map[string]string)}
}

func (m *MemStore) key(brand, sku string) string {
	return strings.ToLower(brand) + ":" + strings.ToUpper(strings.TrimSpace(sku))
}

func (m *MemStore) Put(brand, sku, vendorCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[m.key(brand, sku)] = vendorCode
}

func (m *MemStore) Seed(brand string, entries map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sku, code := range entries {
		m.codes[m.key(brand, sku)] = code
	}
}

func (m *MemStore) Resolve(_ context.Context, brand, sku string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.codes[m.key(brand, sku)]
	return code, ok, nil
}
