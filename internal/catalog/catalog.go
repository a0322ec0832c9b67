// Package catalog holds the storefront's product list. The catalog is
// seeded once (from the persisted mirror when usable, else from the
// embedded defaults), updated only by whole-record replacement, and
// never grows or shrinks at runtime - admins edit, they don't add or
// delete.
package catalog

import (
	"encoding/json"
	"sync"

	"krumb/internal/logging"
	"krumb/internal/store"
	"krumb/internal/types"
)

// UpdateFunc observes catalog record replacements. Observers run on the
// caller's goroutine, after the change is committed and mirrored.
type UpdateFunc func(types.Product)

// Store owns the ordered product list.
type Store struct {
	mu        sync.RWMutex
	products  []types.Product
	adapter   store.Adapter
	observers []UpdateFunc
}

// New seeds a catalog store. The persisted mirror wins when it decodes to
// a non-empty product array; anything else (absent, corrupt, empty) falls
// back to the embedded seed.
func New(adapter store.Adapter) *Store {
	s := &Store{adapter: adapter}

	if data, ok := adapter.Load(store.KeyCatalog); ok {
		var persisted []types.Product
		if err := json.Unmarshal(data, &persisted); err == nil && len(persisted) > 0 {
			s.products = persisted
			logging.Catalog("Restored %d products from mirror", len(persisted))
			return s
		}
		logging.Get(logging.CategoryCatalog).Warn("Persisted catalog unusable, reseeding from defaults")
	}

	s.products = SeedProducts()
	logging.Catalog("Seeded %d default products", len(s.products))
	s.persist()
	return s
}

// Subscribe registers an observer for product updates.
func (s *Store) Subscribe(fn UpdateFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// List returns the products in display order.
func (s *Store) List() []types.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get returns the product with the given id.
func (s *Store) Get(id string) (types.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return types.Product{}, false
}

// Update replaces the record whose id matches. A miss is a no-op: the
// catalog never inserts through this path. On success the change is
// mirrored and observers are notified.
func (s *Store) Update(p types.Product) bool {
	s.mu.Lock()
	replaced := false
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			replaced = true
			break
		}
	}
	var observers []UpdateFunc
	if replaced {
		observers = append(observers, s.observers...)
	}
	s.mu.Unlock()

	if !replaced {
		logging.Get(logging.CategoryCatalog).Warn("Update for unknown product id %q ignored", p.ID)
		return false
	}

	logging.Catalog("Updated product %q (%s)", p.ID, p.Name)
	s.persist()
	for _, fn := range observers {
		fn(p)
	}
	return true
}

// persist mirrors the full catalog. Best effort.
func (s *Store) persist() {
	s.mu.RLock()
	data, err := json.Marshal(s.products)
	s.mu.RUnlock()
	if err != nil {
		logging.Get(logging.CategoryCatalog).Error("Failed to marshal catalog: %v", err)
		return
	}
	_ = s.adapter.Save(store.KeyCatalog, data)
}
