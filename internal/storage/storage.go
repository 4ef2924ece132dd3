package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage keeps a local ledger of items a run created on the API.

// TrackedItem identifies an item that was created but not yet deleted.
type TrackedItem struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Store tracks created item ids until they are cleaned up.
type Store interface {
	Close() error
	TrackItem(collection, id string) error
	ForgetItem(collection, id string) error
	PendingItems() ([]TrackedItem, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ItemTTL         time.Duration
	CleanupInterval time.Duration
}

const (
	defaultItemTTL         = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ItemTTL <= 0 {
		opts.ItemTTL = defaultItemTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                         { return nil }
func (noopStore) TrackItem(string, string) error       { return nil }
func (noopStore) ForgetItem(string, string) error      { return nil }
func (noopStore) PendingItems() ([]TrackedItem, error) { return nil, nil }
