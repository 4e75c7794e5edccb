package list

import (
	"context"
	"sort"
	"sync"
	"time"

	"prolist/pkg/consent"
	"prolist/pkg/logger"
)

// Store is the single source of truth for the session's items, quantities,
// notes and past orders.
//
// It starts uninitialized and reconciles exactly once, after both the
// consent gate and the catalog source have produced a definitive result.
// SetConsent and SetCatalog may arrive in either order; the join is
// idempotent. Once loaded, every mutation applies in memory and is written
// through the storage port if and only if consent is granted. Storage
// failures are logged and never surface to callers.
type Store struct {
	log     *logger.Logger
	storage Storage
	mutator Mutator
	now     func() time.Time

	mu          sync.Mutex
	items       []Item
	quantities  Quantities
	notes       string
	pastOrders  []PastOrder
	consent     consent.State
	haveCatalog bool
	loaded      bool
}

// NewStore builds an uninitialized store. mutator may be nil, in which case
// the catalog is read-only and AddItem/DeleteItem are rejected.
func NewStore(log *logger.Logger, storage Storage, mutator Mutator) *Store {
	return &Store{
		log:        log,
		storage:    storage,
		mutator:    mutator,
		now:        time.Now,
		quantities: Quantities{},
	}
}

// SetConsent delivers the consent gate's result. Unknown is ignored: the
// store stays parked until the gate resolves. After load the only accepted
// transition is denied to granted, which immediately persists the current
// state.
func (s *Store) SetConsent(ctx context.Context, c consent.State) {
	if c == consent.Unknown {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		if c == consent.Granted && s.consent != consent.Granted {
			s.consent = consent.Granted
			s.persist(ctx)
		}
		return
	}

	s.consent = c
	s.reconcile(ctx)
}

// SetCatalog delivers the catalog source's result. Before load it arms the
// reconciliation join; afterwards it replaces the item set in place, as on
// a remote catalog refresh.
func (s *Store) SetCatalog(ctx context.Context, items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]Item(nil), items...)
	if s.loaded {
		return
	}
	s.haveCatalog = true
	s.reconcile(ctx)
}

// reconcile runs once both join inputs are present. Callers hold s.mu.
func (s *Store) reconcile(ctx context.Context) {
	if s.loaded || !s.haveCatalog || s.consent == consent.Unknown {
		return
	}

	s.quantities = Quantities{}
	s.pastOrders = nil
	s.notes = ""

	if s.consent == consent.Granted {
		if snap, ok := s.storage.Load(); ok {
			for id, qty := range snap.Quantities {
				if qty > 0 {
					s.quantities[id] = qty
				}
			}
			s.pastOrders = append(s.pastOrders, snap.PastOrders...)
			if len(s.pastOrders) > MaxPastOrders {
				s.pastOrders = s.pastOrders[:MaxPastOrders]
			}
			s.notes = snap.Notes
		}
	}

	s.loaded = true
	s.log.Debug(ctx, "list state reconciled", "consent", s.consent.String(), "items", len(s.items), "quantities", len(s.quantities), "past_orders", len(s.pastOrders))
}

// Loaded reports whether reconciliation has completed. It never reverts to
// false within a session.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Items returns the current catalog snapshot.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// Quantities returns a copy of the quantity mapping.
func (s *Store) Quantities() Quantities {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Quantities, len(s.quantities))
	for id, qty := range s.quantities {
		out[id] = qty
	}
	return out
}

// Notes returns the free-text notes.
func (s *Store) Notes() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

// PastOrders returns the order history, newest first.
func (s *Store) PastOrders() []PastOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PastOrder(nil), s.pastOrders...)
}

// UpdateQuantity sets the quantity for one item. A quantity of zero or less
// removes the entry. The item ID is not checked against the catalog: a
// quantity may outlive its item when the catalog shrinks, and such orphans
// are kept as-is.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity > 0 {
		s.quantities[itemID] = quantity
	} else {
		delete(s.quantities, itemID)
	}
	s.persist(ctx)
}

// SetQuantities replaces the whole mapping, dropping non-positive entries.
// Used to apply an externally computed order suggestion.
func (s *Store) SetQuantities(ctx context.Context, quantities Quantities) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quantities = Quantities{}
	for id, qty := range quantities {
		if qty > 0 {
			s.quantities[id] = qty
		}
	}
	s.persist(ctx)
}

// UpdateNotes replaces the free-text notes.
func (s *Store) UpdateNotes(ctx context.Context, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = notes
	s.persist(ctx)
}

// SaveOrder snapshots the current quantities as a new past order at the head
// of the history, evicting the oldest entry beyond MaxPastOrders. It is a
// no-op when the list is empty or consent is denied; the second return
// reports whether an order was recorded.
func (s *Store) SaveOrder(ctx context.Context) (PastOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.quantities) == 0 || s.consent != consent.Granted {
		return PastOrder{}, false
	}

	order := PastOrder{
		Date:  s.now().UTC().Format(time.RFC3339),
		Items: s.orderLines(),
	}

	s.pastOrders = append([]PastOrder{order}, s.pastOrders...)
	if len(s.pastOrders) > MaxPastOrders {
		s.pastOrders = s.pastOrders[:MaxPastOrders]
	}
	s.persist(ctx)

	return order, true
}

// orderLines flattens the quantity map in catalog order, orphan IDs last in
// lexical order. Callers hold s.mu.
func (s *Store) orderLines() []OrderLine {
	lines := make([]OrderLine, 0, len(s.quantities))
	seen := make(map[string]bool, len(s.quantities))

	for _, it := range s.items {
		if qty, ok := s.quantities[it.ID]; ok {
			lines = append(lines, OrderLine{ID: it.ID, Quantity: qty})
			seen[it.ID] = true
		}
	}

	var orphans []string
	for id := range s.quantities {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		lines = append(lines, OrderLine{ID: id, Quantity: s.quantities[id]})
	}

	return lines
}

// ClearList empties the quantities and notes. The order history is kept.
func (s *Store) ClearList(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quantities = Quantities{}
	s.notes = ""
	s.persist(ctx)
}

// AddItem appends a new item to the master catalog. Rejected when the
// active catalog source is read-only.
func (s *Store) AddItem(ctx context.Context, name string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mutator == nil {
		s.log.Warn(ctx, "add item ignored", "reason", "catalog source is read-only", "name", name)
		return Item{}, ErrImmutableCatalog
	}

	item, err := s.mutator.Add(ctx, name)
	if err != nil {
		return Item{}, err
	}
	s.items = append(s.items, item)
	return item, nil
}

// DeleteItem removes an item from the master catalog along with any
// quantity recorded for it. Rejected when the active catalog source is
// read-only.
func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mutator == nil {
		s.log.Warn(ctx, "delete item ignored", "reason", "catalog source is read-only", "item_id", itemID)
		return ErrImmutableCatalog
	}

	if err := s.mutator.Remove(ctx, itemID); err != nil {
		return err
	}

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	delete(s.quantities, itemID)
	s.persist(ctx)
	return nil
}

// persist writes the snapshot through the storage port when loaded and
// consented. A write failure keeps the in-memory change and only logs.
// Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	if !s.loaded || s.consent != consent.Granted {
		return
	}

	data := StoredData{
		Version:    StoredDataVersion,
		Quantities: s.quantities,
		PastOrders: s.pastOrders,
		Notes:      s.notes,
	}
	if err := s.storage.Save(data); err != nil {
		s.log.Warn(ctx, "saving list state", "error", err)
	}
}
