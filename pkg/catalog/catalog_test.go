package catalog_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prolist/pkg/catalog"
	"prolist/pkg/catalog/memory"
	"prolist/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestParseItems(t *testing.T) {
	in := "Name\nMilk\n\n  Bread  \nEggs\n"
	items, err := catalog.ParseItems(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != "item-1" || items[0].Name != "Milk" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Name != "Bread" || items[2].ID != "item-3" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParseItemsHeaderOnly(t *testing.T) {
	items, err := catalog.ParseItems(strings.NewReader("Name\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty catalog, got %d items", len(items))
	}
}

func TestRemoteFetch(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		io.WriteString(w, "Name\nMilk\nBread\n")
	}))
	defer srv.Close()

	src := catalog.NewRemote(srv.URL, srv.Client(), time.Minute, testLogger())
	if src.Mutable() {
		t.Fatal("remote catalog must be read-only")
	}

	items := src.Items(context.Background())
	if len(items) != 2 || items[0].Name != "Milk" {
		t.Fatalf("unexpected items: %+v", items)
	}

	// second call within the TTL is served from cache
	src.Items(context.Background())
	if hits != 1 {
		t.Fatalf("expected 1 fetch, got %d", hits)
	}
}

func TestRemoteFetchFailureDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := catalog.NewRemote(srv.URL, srv.Client(), time.Minute, testLogger())
	if items := src.Items(context.Background()); len(items) != 0 {
		t.Fatalf("expected empty catalog on failure, got %+v", items)
	}
}

func TestRemoteUnreachableDegradesToEmpty(t *testing.T) {
	src := catalog.NewRemote("http://127.0.0.1:0", &http.Client{Timeout: time.Second}, time.Minute, testLogger())
	if items := src.Items(context.Background()); len(items) != 0 {
		t.Fatalf("expected empty catalog, got %+v", items)
	}
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	local := catalog.NewLocal(memory.New(), testLogger())
	if !local.Mutable() {
		t.Fatal("local catalog must be mutable")
	}

	if _, err := local.Add(ctx, "   "); err != catalog.ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	item, err := local.Add(ctx, "  Milk  ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Name != "Milk" || item.ID == "" {
		t.Fatalf("unexpected item: %+v", item)
	}

	items := local.Items(ctx)
	if len(items) != 1 || items[0] != item {
		t.Fatalf("unexpected catalog: %+v", items)
	}

	if err := local.Remove(ctx, item.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := local.Remove(ctx, item.ID); err != catalog.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if items := local.Items(ctx); len(items) != 0 {
		t.Fatalf("expected empty catalog, got %+v", items)
	}
}
