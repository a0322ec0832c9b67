// Package session owns the current logged-in identity and the rules for
// acquiring one. Exactly one identity is current at a time; logout
// destroys it along with the cart.
package session

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"

	"krumb/internal/cart"
	"krumb/internal/logging"
	"krumb/internal/notify"
	"krumb/internal/store"
	"krumb/internal/types"
)

// Validation errors surfaced inline by the login form.
var (
	ErrMissingFields = errors.New("يرجى إدخال جميع البيانات المطلوبة")
	ErrBadPhone      = errors.New("يرجى إدخال رقم جوال صحيح يبدأ بـ 05")
	ErrBadPassword   = errors.New("كلمة المرور غير صحيحة")
)

// phonePattern is the full customer phone contract: starts with 05,
// followed by 8 digits, 10 digits total.
var phonePattern = regexp.MustCompile(`^05\d{8}$`)

// ValidPhone reports whether the (already trimmed) phone matches the
// contract.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Gate manages the current identity.
type Gate struct {
	mu          sync.RWMutex
	current     *types.Identity
	adapter     store.Adapter
	cart        *cart.Store
	notifier    notify.Notifier
	adminSecret string
}

// NewGate wires the session gate. The cart is owned elsewhere but cleared
// here on logout.
func NewGate(adapter store.Adapter, c *cart.Store, n notify.Notifier, adminSecret string) *Gate {
	return &Gate{adapter: adapter, cart: c, notifier: n, adminSecret: adminSecret}
}

// Restore attempts to resume a prior login at startup. Malformed or
// missing data yields no identity and the caller lands on the login
// screen.
func (g *Gate) Restore() (types.Identity, bool) {
	data, ok := g.adapter.Load(store.KeyIdentity)
	if !ok {
		return types.Identity{}, false
	}

	var id types.Identity
	if err := json.Unmarshal(data, &id); err != nil || !id.Valid() {
		logging.Get(logging.CategorySession).Warn("Persisted identity unusable, dropping it")
		g.adapter.Clear(store.KeyIdentity)
		return types.Identity{}, false
	}

	g.mu.Lock()
	g.current = &id
	g.mu.Unlock()
	logging.Session("Restored session for %q (admin=%v)", id.Name, id.IsAdmin)
	return id, true
}

// LoginCustomer validates and creates a customer identity. Name and phone
// are trimmed first; both must be non-empty and the phone must match the
// 05-prefix contract. On success the identity is persisted, becomes
// current, and a verification message is fired at the notifier
// (fire-and-forget - nothing waits on it).
func (g *Gate) LoginCustomer(name, phone string) (types.Identity, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	if name == "" || phone == "" {
		return types.Identity{}, ErrMissingFields
	}
	if !ValidPhone(phone) {
		return types.Identity{}, ErrBadPhone
	}

	id := types.Identity{Name: name, Phone: phone, PurchaseCount: 0, IsAdmin: false}
	g.setCurrent(id)

	g.notifier.Send(phone, "رمز التحقق الخاص بك") // stand-in for real OTP delivery
	logging.Session("Customer login: %q %s", name, phone)
	return id, nil
}

// LoginAdmin checks the static secret and creates the admin sentinel.
// Plain-text comparison, as in the source design; see the config package
// note about not treating this as a real credential boundary.
func (g *Gate) LoginAdmin(password string) (types.Identity, error) {
	if password != g.adminSecret {
		logging.Get(logging.CategorySession).Warn("Admin login rejected")
		return types.Identity{}, ErrBadPassword
	}

	id := types.AdminIdentity()
	g.setCurrent(id)
	logging.Session("Admin login")
	return id, nil
}

// Logout clears the current identity, its persisted mirror, and the cart.
// The cart does not survive logout, even for a future re-login by the
// same phone.
func (g *Gate) Logout() {
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()

	g.adapter.Clear(store.KeyIdentity)
	g.cart.Clear()
	logging.Session("Logout")
}

// Current returns the logged-in identity, if any.
func (g *Gate) Current() (types.Identity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return types.Identity{}, false
	}
	return *g.current, true
}

// CompletePurchase increments the purchase counter on the current
// identity and persists it. Called exactly once per successful checkout.
func (g *Gate) CompletePurchase() {
	g.mu.Lock()
	if g.current == nil {
		g.mu.Unlock()
		logging.Get(logging.CategorySession).Warn("CompletePurchase with no current identity")
		return
	}
	g.current.PurchaseCount++
	id := *g.current
	g.mu.Unlock()

	g.persist(id)
	logging.Session("Purchase #%d recorded for %q", id.PurchaseCount, id.Name)
}

func (g *Gate) setCurrent(id types.Identity) {
	g.mu.Lock()
	g.current = &id
	g.mu.Unlock()
	g.persist(id)
}

func (g *Gate) persist(id types.Identity) {
	data, err := json.Marshal(id)
	if err != nil {
		logging.Get(logging.CategorySession).Error("Failed to marshal identity: %v", err)
		return
	}
	_ = g.adapter.Save(store.KeyIdentity, data)
}
