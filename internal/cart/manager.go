// Package cart owns the shopping cart: an ordered sequence of product
// entries persisted on every mutation and broadcast as a latest-value
// stream. The store is the source of truth; each mutation persists first
// and only then updates the in-memory snapshot and publishes it.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/platform/metrics"
	"storefront/internal/store"
	"storefront/internal/stream"
)

const cartKey = "cart"

// Config holds the manager's collaborators.
type Config struct {
	Store store.Store
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

type Manager struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	entries []domain.CartEntry
	changes *stream.Value[[]domain.CartEntry]
}

// NewManager hydrates the cart from the store. Missing or malformed
// stored data yields an empty cart, never a construction failure.
func NewManager(ctx context.Context, cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("cart: Store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		store:   cfg.Store,
		logger:  logger,
		metrics: cfg.Metrics,
	}

	raw, err := cfg.Store.Get(ctx, cartKey)
	switch {
	case err == nil:
		entries, parsed := decodeEntries(raw)
		if !parsed {
			logger.Warn("stored cart is malformed, starting empty")
		}
		m.entries = entries
	case errors.Is(err, store.ErrNotFound):
		// First run: nothing stored yet.
	default:
		return nil, fmt.Errorf("cart: load: %w", err)
	}

	m.changes = stream.NewValue(snapshot(m.entries))
	return m, nil
}

// Add puts the product in the cart: an existing entry gains quantity 1,
// otherwise a new entry with quantity 1 appends at the end.
func (m *Manager) Add(ctx context.Context, product domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := snapshot(m.entries)
	found := false
	for i := range next {
		if next[i].Product.ID == product.ID {
			next[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		next = append(next, domain.CartEntry{Product: product, Quantity: 1})
	}

	if err := m.commit(ctx, next); err != nil {
		return err
	}
	m.metrics.CartMutated("add")
	return nil
}

// Remove drops the entry for productID. The cart persists and publishes
// even when nothing matched, mirroring the original client.
func (m *Manager) Remove(ctx context.Context, productID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]domain.CartEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.Product.ID != productID {
			next = append(next, e)
		}
	}

	if err := m.commit(ctx, next); err != nil {
		return err
	}
	m.metrics.CartMutated("remove")
	return nil
}

// RemoveMany drops every entry whose product is in productIDs as one
// mutation with one publish, and returns the removed entries. Batch
// removal being atomic is what lets the catalog validator run off the
// cart stream without a reentrancy guard.
func (m *Manager) RemoveMany(ctx context.Context, productIDs []int) ([]domain.CartEntry, error) {
	drop := make(map[int]struct{}, len(productIDs))
	for _, id := range productIDs {
		drop[id] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]domain.CartEntry, 0, len(m.entries))
	var removed []domain.CartEntry
	for _, e := range m.entries {
		if _, ok := drop[e.Product.ID]; ok {
			removed = append(removed, e)
		} else {
			next = append(next, e)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}

	if err := m.commit(ctx, next); err != nil {
		return nil, err
	}
	m.metrics.CartMutated("remove_many")
	return removed, nil
}

// UpdateQuantity sets the entry's quantity to max(1, quantity). Values
// below one clamp up rather than removing the entry; removal is its own
// operation. Unknown products are a no-op.
func (m *Manager) UpdateQuantity(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := snapshot(m.entries)
	found := false
	for i := range next {
		if next[i].Product.ID == productID {
			next[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	if err := m.commit(ctx, next); err != nil {
		return err
	}
	m.metrics.CartMutated("update_quantity")
	return nil
}

// Clear empties the cart. The stored key stays, holding an empty
// sequence.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.commit(ctx, []domain.CartEntry{}); err != nil {
		return err
	}
	m.metrics.CartMutated("clear")
	return nil
}

// Items returns a copy of the current entries in insertion order.
func (m *Manager) Items() []domain.CartEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.entries)
}

// Total sums price times quantity over the product snapshots held in the
// cart. Prices are the ones captured at add time, not re-fetched.
func (m *Manager) Total() domain.Money {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.EntriesTotal(m.entries)
}

// ItemCount sums quantities across entries.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.EntriesCount(m.entries)
}

// Changes is the latest-value cart stream. Snapshots are delivered while
// the manager's lock is held: callbacks must hand off to their own
// goroutine (see Validator) instead of calling back into the manager.
func (m *Manager) Changes() stream.Source[[]domain.CartEntry] {
	return m.changes
}

// commit persists next and, only on success, adopts and publishes it.
// Caller holds m.mu.
func (m *Manager) commit(ctx context.Context, next []domain.CartEntry) error {
	encoded, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := m.store.Set(ctx, cartKey, string(encoded)); err != nil {
		return fmt.Errorf("cart: persist: %w", err)
	}
	m.entries = next
	m.changes.Set(snapshot(next))
	return nil
}

func snapshot(entries []domain.CartEntry) []domain.CartEntry {
	out := make([]domain.CartEntry, len(entries))
	copy(out, entries)
	return out
}
