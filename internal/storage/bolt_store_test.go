package storage

import (
	"testing"
	"time"
)

func TestBoltStoreTracksAndForgetsItems(t *testing.T) {
	dir := t.TempDir()
	storeRaw, err := openBolt(dir+"/ledger.db", normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	if err := store.TrackItem("stores", "42"); err != nil {
		t.Fatalf("TrackItem: %v", err)
	}
	if err := store.TrackItem("categories", "abc/def"); err != nil {
		t.Fatalf("TrackItem: %v", err)
	}

	items, err := store.PendingItems()
	if err != nil {
		t.Fatalf("PendingItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 pending items, got %#v", items)
	}
	// keys sort by collection first
	if items[0].Collection != "categories" || items[0].ID != "abc/def" {
		t.Fatalf("unexpected first item %#v", items[0])
	}

	if err := store.ForgetItem("stores", "42"); err != nil {
		t.Fatalf("ForgetItem: %v", err)
	}
	items, err = store.PendingItems()
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 pending item after forget, got %#v err=%v", items, err)
	}
}

func TestBoltStoreExpiresItems(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ItemTTL:         1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/ledger.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	if err := store.TrackItem("products", "1"); err != nil {
		t.Fatalf("TrackItem: %v", err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	items, err := store.PendingItems()
	if err != nil {
		t.Fatalf("PendingItems after expiry: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected entry to expire and be removed, got %#v", items)
	}
}

func TestBoltStoreRejectsEmptyKeys(t *testing.T) {
	store, err := NewStore("bbolt", t.TempDir()+"/ledger.db", Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if err := store.TrackItem("", "1"); err == nil {
		t.Fatalf("expected error for empty collection")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.TrackItem("stores", "x"); err != nil {
		t.Fatalf("noop store TrackItem: %v", err)
	}
	items, err := store.PendingItems()
	if err != nil || len(items) != 0 {
		t.Fatalf("noop store should have nothing pending, got %#v err=%v", items, err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
