// Package cart tracks the active shopping cart: one line per product id,
// quantity bookkeeping, and a running mirror to the persistence adapter.
// The cart reacts to catalog edits by patching its lines in place.
package cart

import (
	"encoding/json"
	"sync"

	"krumb/internal/logging"
	"krumb/internal/store"
	"krumb/internal/types"
)

// ChangedFunc observes cart mutations. It receives no payload: dependents
// (the cart badge) re-read what they need.
type ChangedFunc func()

// Store owns the cart lines.
type Store struct {
	mu        sync.RWMutex
	lines     []types.CartLine
	adapter   store.Adapter
	observers []ChangedFunc
}

// New restores the cart from the mirror, or starts empty. A corrupt blob
// is dropped silently - an empty cart is the safe fallback.
func New(adapter store.Adapter) *Store {
	s := &Store{adapter: adapter}

	if data, ok := adapter.Load(store.KeyCart); ok {
		var persisted []types.CartLine
		if err := json.Unmarshal(data, &persisted); err == nil {
			s.lines = persisted
			logging.Cart("Restored %d cart lines from mirror", len(persisted))
		} else {
			logging.Get(logging.CategoryCart).Warn("Persisted cart unusable, starting empty")
		}
	}
	return s
}

// Subscribe registers an observer for any cart mutation.
func (s *Store) Subscribe(fn ChangedFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Lines returns the cart lines in insertion order.
func (s *Store) Lines() []types.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Add increments the existing line for the product or inserts a new line
// with quantity 1.
func (s *Store) Add(p types.Product) {
	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].ID == p.ID {
			s.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, types.CartLine{Product: p, Quantity: 1})
	}
	s.mu.Unlock()

	logging.Cart("Add %q", p.ID)
	s.persist()
	s.notify()
}

// SetQuantity sets the line's quantity to q (absolute, not delta).
// q <= 0 removes the line. No line is created when the id is absent.
func (s *Store) SetQuantity(id string, q int) {
	if q <= 0 {
		s.Remove(id)
		return
	}

	s.mu.Lock()
	changed := false
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines[i].Quantity = q
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	logging.Cart("SetQuantity %q = %d", id, q)
	s.persist()
	s.notify()
}

// Remove deletes the line with that id if present; no-op otherwise.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	removed := false
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if !removed {
		return
	}
	logging.Cart("Remove %q", id)
	s.persist()
	s.notify()
}

// Clear empties the cart and deletes the persisted entry outright -
// deliberately not a save of an empty list.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	logging.Cart("Clear")
	s.adapter.Clear(store.KeyCart)
	s.notify()
}

// ApplyCatalogUpdate patches any line matching the product's id with the
// new product fields, keeping the quantity. Wire this to the catalog
// store's Subscribe.
func (s *Store) ApplyCatalogUpdate(p types.Product) {
	s.mu.Lock()
	patched := false
	for i := range s.lines {
		if s.lines[i].ID == p.ID {
			q := s.lines[i].Quantity
			s.lines[i] = types.CartLine{Product: p, Quantity: q}
			patched = true
			break
		}
	}
	s.mu.Unlock()

	if !patched {
		return
	}
	logging.Cart("Patched line %q after catalog update", p.ID)
	s.persist()
	s.notify()
}

// Total is the sum of line subtotals, computed on demand, never stored.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the sum of line quantities (the cart badge number).
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines) == 0
}

func (s *Store) persist() {
	s.mu.RLock()
	data, err := json.Marshal(s.lines)
	s.mu.RUnlock()
	if err != nil {
		logging.Get(logging.CategoryCart).Error("Failed to marshal cart: %v", err)
		return
	}
	_ = s.adapter.Save(store.KeyCart, data)
}

func (s *Store) notify() {
	s.mu.RLock()
	observers := append([]ChangedFunc(nil), s.observers...)
	s.mu.RUnlock()
	for _, fn := range observers {
		fn()
	}
}
