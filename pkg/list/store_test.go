package list_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"prolist/pkg/consent"
	"prolist/pkg/cookie"
	"prolist/pkg/list"
	"prolist/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func newStore(t *testing.T, jar *cookie.MemoryJar, c consent.State, items []list.Item) *list.Store {
	t.Helper()
	log := testLogger()
	st := list.NewStore(log, cookie.NewStore(jar, log), nil)
	ctx := context.Background()
	st.SetCatalog(ctx, items)
	st.SetConsent(ctx, c)
	if !st.Loaded() {
		t.Fatal("store did not reach loaded state")
	}
	return st
}

func seedCookie(t *testing.T, jar *cookie.MemoryJar, data list.StoredData) {
	t.Helper()
	value, err := cookie.Encode(data)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	jar.Set(cookie.DataCookieName, value)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, cookie.NewMemoryJar(), consent.Granted, nil)

	st.UpdateQuantity(ctx, "item-1", 3)
	st.UpdateQuantity(ctx, "item-1", 5)
	if got := st.Quantities()["item-1"]; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}

	st.UpdateQuantity(ctx, "item-3", 2)
	st.UpdateQuantity(ctx, "item-3", 0)
	if _, ok := st.Quantities()["item-3"]; ok {
		t.Fatal("zero quantity should remove the entry")
	}

	st.UpdateQuantity(ctx, "item-1", -1)
	if _, ok := st.Quantities()["item-1"]; ok {
		t.Fatal("negative quantity should remove the entry")
	}
}

func TestOrphanQuantityAccepted(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, cookie.NewMemoryJar(), consent.Granted, []list.Item{{ID: "item-1", Name: "Milk"}})

	st.UpdateQuantity(ctx, "no-such-item", 4)
	if got := st.Quantities()["no-such-item"]; got != 4 {
		t.Fatalf("orphan quantity should be kept, got %d", got)
	}
}

func TestJoinOrderDoesNotMatter(t *testing.T) {
	ctx := context.Background()
	items := []list.Item{{ID: "item-1", Name: "Milk"}}
	stored := list.StoredData{Version: 1, Quantities: list.Quantities{"item-1": 2}}

	jarA := cookie.NewMemoryJar()
	seedCookie(t, jarA, stored)
	log := testLogger()
	a := list.NewStore(log, cookie.NewStore(jarA, log), nil)
	a.SetConsent(ctx, consent.Granted)
	if a.Loaded() {
		t.Fatal("store loaded before catalog arrived")
	}
	a.SetCatalog(ctx, items)

	jarB := cookie.NewMemoryJar()
	seedCookie(t, jarB, stored)
	b := list.NewStore(log, cookie.NewStore(jarB, log), nil)
	b.SetCatalog(ctx, items)
	if b.Loaded() {
		t.Fatal("store loaded before consent resolved")
	}
	b.SetConsent(ctx, consent.Granted)

	for _, st := range []*list.Store{a, b} {
		if !st.Loaded() {
			t.Fatal("store not loaded after both results")
		}
		if got := st.Quantities()["item-1"]; got != 2 {
			t.Fatalf("expected adopted quantity 2, got %d", got)
		}
	}
}

func TestUnknownConsentIsIgnored(t *testing.T) {
	ctx := context.Background()
	log := testLogger()
	st := list.NewStore(log, cookie.NewStore(cookie.NewMemoryJar(), log), nil)
	st.SetCatalog(ctx, nil)
	st.SetConsent(ctx, consent.Unknown)
	if st.Loaded() {
		t.Fatal("unknown consent must not complete the join")
	}
}

func TestDeniedConsentResetsState(t *testing.T) {
	ctx := context.Background()
	jar := cookie.NewMemoryJar()
	seedCookie(t, jar, list.StoredData{
		Version:    1,
		Quantities: list.Quantities{"item-1": 7},
		PastOrders: []list.PastOrder{{Date: "2026-01-01T00:00:00Z"}},
	})
	before, _ := jar.Get(cookie.DataCookieName)

	st := newStore(t, jar, consent.Denied, nil)
	if len(st.Quantities()) != 0 || len(st.PastOrders()) != 0 {
		t.Fatal("denied consent must adopt empty state")
	}

	st.UpdateQuantity(ctx, "item-1", 3)
	after, _ := jar.Get(cookie.DataCookieName)
	if after != before {
		t.Fatal("denied consent must never write the data cookie")
	}
}

func TestMalformedCookieFallsBackToEmpty(t *testing.T) {
	jar := cookie.NewMemoryJar()
	jar.Set(cookie.DataCookieName, "not%valid%json")

	st := newStore(t, jar, consent.Granted, nil)
	if len(st.Quantities()) != 0 || len(st.PastOrders()) != 0 {
		t.Fatal("malformed cookie must fall back to empty state")
	}
}

func TestEmptyCatalogStillLoads(t *testing.T) {
	st := newStore(t, cookie.NewMemoryJar(), consent.Granted, nil)
	if !st.Loaded() {
		t.Fatal("store must load with an empty catalog")
	}
	if len(st.Items()) != 0 {
		t.Fatalf("expected no items, got %d", len(st.Items()))
	}
}

func TestSaveOrder(t *testing.T) {
	ctx := context.Background()
	jar := cookie.NewMemoryJar()
	st := newStore(t, jar, consent.Granted, []list.Item{{ID: "item-1", Name: "Milk"}})

	st.UpdateQuantity(ctx, "item-1", 2)
	order, saved := st.SaveOrder(ctx)
	if !saved {
		t.Fatal("expected order to be saved")
	}
	if len(order.Items) != 1 || order.Items[0].ID != "item-1" || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order lines: %+v", order.Items)
	}
	if order.Date == "" {
		t.Fatal("order must carry a timestamp")
	}

	history := st.PastOrders()
	if len(history) != 1 || history[0].Date != order.Date {
		t.Fatalf("new order must be at history[0], got %+v", history)
	}

	// round-trips through the persisted cookie
	raw, ok := jar.Get(cookie.DataCookieName)
	if !ok {
		t.Fatal("expected data cookie to be written")
	}
	decoded, err := cookie.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.PastOrders) != 1 || decoded.PastOrders[0].Date != order.Date {
		t.Fatalf("persisted history mismatch: %+v", decoded.PastOrders)
	}
}

func TestSaveOrderNoopWhenEmpty(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, cookie.NewMemoryJar(), consent.Granted, nil)

	if _, saved := st.SaveOrder(ctx); saved {
		t.Fatal("empty quantities must not produce an order")
	}
	if len(st.PastOrders()) != 0 {
		t.Fatal("history must stay unchanged")
	}
}

func TestSaveOrderNoopWhenDenied(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, cookie.NewMemoryJar(), consent.Denied, nil)

	st.UpdateQuantity(ctx, "item-1", 2)
	if _, saved := st.SaveOrder(ctx); saved {
		t.Fatal("denied consent must not produce an order")
	}
}

func TestSaveOrderEvictsOldest(t *testing.T) {
	ctx := context.Background()
	jar := cookie.NewMemoryJar()

	existing := make([]list.PastOrder, list.MaxPastOrders)
	for i := range existing {
		existing[i] = list.PastOrder{
			Date:  fmt.Sprintf("2026-01-%02dT00:00:00Z", list.MaxPastOrders-i),
			Items: []list.OrderLine{{ID: "item-1", Quantity: i + 1}},
		}
	}
	oldest := existing[len(existing)-1].Date
	seedCookie(t, jar, list.StoredData{Version: 1, PastOrders: existing})

	st := newStore(t, jar, consent.Granted, nil)
	st.UpdateQuantity(ctx, "item-1", 1)
	order, saved := st.SaveOrder(ctx)
	if !saved {
		t.Fatal("expected order to be saved")
	}

	history := st.PastOrders()
	if len(history) != list.MaxPastOrders {
		t.Fatalf("expected %d entries, got %d", list.MaxPastOrders, len(history))
	}
	if history[0].Date != order.Date {
		t.Fatal("new order must be first")
	}
	for _, po := range history {
		if po.Date == oldest {
			t.Fatal("oldest entry must be evicted")
		}
	}
	if history[len(history)-1].Date != existing[len(existing)-2].Date {
		t.Fatal("previously second-oldest entry must now be last")
	}
}

func TestClearListKeepsHistory(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, cookie.NewMemoryJar(), consent.Granted, nil)

	st.UpdateQuantity(ctx, "item-1", 2)
	st.UpdateNotes(ctx, "bring a cool box")
	if _, saved := st.SaveOrder(ctx); !saved {
		t.Fatal("expected order to be saved")
	}

	st.ClearList(ctx)
	if len(st.Quantities()) != 0 {
		t.Fatal("quantities must be empty after clear")
	}
	if st.Notes() != "" {
		t.Fatal("notes must be empty after clear")
	}
	if len(st.PastOrders()) != 1 {
		t.Fatal("clear must not touch the history")
	}
}

func TestSetQuantitiesReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, cookie.NewMemoryJar(), consent.Granted, nil)

	st.UpdateQuantity(ctx, "item-1", 2)
	st.SetQuantities(ctx, list.Quantities{"item-2": 4, "item-3": 0, "item-4": -2})

	got := st.Quantities()
	if len(got) != 1 || got["item-2"] != 4 {
		t.Fatalf("unexpected quantities after replace: %v", got)
	}
}

func TestPersistedStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	jar := cookie.NewMemoryJar()
	items := []list.Item{{ID: "item-1", Name: "Milk"}}

	first := newStore(t, jar, consent.Granted, items)
	first.UpdateQuantity(ctx, "item-1", 2)
	first.UpdateNotes(ctx, "weekly run")
	if _, saved := first.SaveOrder(ctx); !saved {
		t.Fatal("expected order to be saved")
	}

	second := newStore(t, jar, consent.Granted, items)
	if got := second.Quantities()["item-1"]; got != 2 {
		t.Fatalf("expected quantity 2 after reload, got %d", got)
	}
	if second.Notes() != "weekly run" {
		t.Fatalf("unexpected notes after reload: %q", second.Notes())
	}
	if len(second.PastOrders()) != 1 {
		t.Fatalf("expected 1 past order after reload, got %d", len(second.PastOrders()))
	}
}

func TestGrantAfterLoadPersists(t *testing.T) {
	ctx := context.Background()
	jar := cookie.NewMemoryJar()
	st := newStore(t, jar, consent.Denied, nil)

	st.UpdateQuantity(ctx, "item-1", 2)
	if _, ok := jar.Get(cookie.DataCookieName); ok {
		t.Fatal("no cookie may exist before consent")
	}

	st.SetConsent(ctx, consent.Granted)
	raw, ok := jar.Get(cookie.DataCookieName)
	if !ok {
		t.Fatal("granting consent must persist current state")
	}
	decoded, err := cookie.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Quantities["item-1"] != 2 {
		t.Fatalf("persisted quantities mismatch: %v", decoded.Quantities)
	}
}

type fakeMutator struct {
	removed []string
}

func (m *fakeMutator) Add(ctx context.Context, name string) (list.Item, error) {
	return list.Item{ID: "item-new", Name: name}, nil
}

func (m *fakeMutator) Remove(ctx context.Context, id string) error {
	m.removed = append(m.removed, id)
	return nil
}

func TestCatalogMutationRejectedWhenReadOnly(t *testing.T) {
	ctx := context.Background()
	st := newStore(t, cookie.NewMemoryJar(), consent.Granted, nil)

	if _, err := st.AddItem(ctx, "Milk"); err != list.ErrImmutableCatalog {
		t.Fatalf("expected ErrImmutableCatalog, got %v", err)
	}
	if err := st.DeleteItem(ctx, "item-1"); err != list.ErrImmutableCatalog {
		t.Fatalf("expected ErrImmutableCatalog, got %v", err)
	}
}

func TestDeleteItemDropsQuantity(t *testing.T) {
	ctx := context.Background()
	log := testLogger()
	jar := cookie.NewMemoryJar()
	m := &fakeMutator{}

	st := list.NewStore(log, cookie.NewStore(jar, log), m)
	st.SetCatalog(ctx, []list.Item{{ID: "item-1", Name: "Milk"}})
	st.SetConsent(ctx, consent.Granted)

	st.UpdateQuantity(ctx, "item-1", 2)
	if err := st.DeleteItem(ctx, "item-1"); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if len(st.Items()) != 0 {
		t.Fatal("item must be removed from the catalog")
	}
	if _, ok := st.Quantities()["item-1"]; ok {
		t.Fatal("deleting an item must drop its quantity")
	}
	if len(m.removed) != 1 || m.removed[0] != "item-1" {
		t.Fatalf("mutator not invoked as expected: %v", m.removed)
	}
}

func TestAddItemAppendsToCatalog(t *testing.T) {
	ctx := context.Background()
	log := testLogger()
	st := list.NewStore(log, cookie.NewStore(cookie.NewMemoryJar(), log), &fakeMutator{})
	st.SetCatalog(ctx, nil)
	st.SetConsent(ctx, consent.Granted)

	item, err := st.AddItem(ctx, "Milk")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	items := st.Items()
	if len(items) != 1 || items[0] != item {
		t.Fatalf("expected new item in catalog, got %+v", items)
	}
}
