// Package types holds the domain records shared by the storefront stores
// and the TUI pages.
package types

import "strings"

// Product is one sellable catalog entry. Records are replaced whole,
// keyed by ID; there is no partial update and no delete.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

// CartLine is a product held in the active cart. At most one line exists
// per product ID; Quantity is always >= 1 for a live line.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity for this line.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// AdminName is the display name of the admin sentinel identity.
const AdminName = "المدير"

// Identity is the currently authenticated actor, customer or admin.
type Identity struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	PurchaseCount int    `json:"purchaseCount"`
	IsAdmin       bool   `json:"isAdmin"`
}

// AdminIdentity returns the fixed admin sentinel.
func AdminIdentity() Identity {
	return Identity{Name: AdminName, Phone: "", PurchaseCount: 0, IsAdmin: true}
}

// Valid reports whether a restored identity is well-formed enough to
// resume a session with. Admin needs no phone; a customer needs both
// fields.
func (id Identity) Valid() bool {
	if id.IsAdmin {
		return strings.TrimSpace(id.Name) != ""
	}
	return strings.TrimSpace(id.Name) != "" && strings.TrimSpace(id.Phone) != ""
}
