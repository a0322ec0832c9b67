// Package store provides the best-effort persistence mirror for the
// storefront. Stores keep authoritative state in memory and write
// JSON blobs here under fixed keys; a read/parse failure is treated as
// "absent" so callers fall back to their defaults. There are no retries
// and no durability guarantee.
package store

// Persisted keys. Stable naming is part of the restart contract.
const (
	KeyIdentity = "identity"
	KeyCatalog  = "catalog"
	KeyCart     = "cart"
)

// Adapter is the key-value mirror behind every storefront store.
// Implementations must never panic past this boundary; Save failures are
// logged by the implementation and reported, but callers ignore them
// beyond logging - in-memory state stays authoritative.
type Adapter interface {
	// Load returns the blob for key, or ok=false if absent or unreadable.
	Load(key string) (data []byte, ok bool)

	// Save mirrors the blob under key. Best effort.
	Save(key string, data []byte) error

	// Clear removes the entry for key outright. Distinct from saving an
	// empty value: the key disappears.
	Clear(key string)
}
