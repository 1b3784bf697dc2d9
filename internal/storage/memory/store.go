// Package memory provides the in-memory key-value store for rediskv.
package memory

import (
	"sync/atomic"

	"github.com/yndnr/rediskv-go/pkg/cmap"
)

// entry is a stored value and the version of the write that produced it.
type entry struct {
	value   string
	version uint64
}

// Store is a concurrent string key-value map.
type Store struct {
	items   *cmap.Map[entry]
	version atomic.Uint64
}

// Option configures the Store.
type Option func(*storeOptions)

type storeOptions struct {
	shards int
}

// WithShards sets the shard count (must be a power of two).
func WithShards(n int) Option {
	return func(o *storeOptions) {
		o.shards = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	o := storeOptions{shards: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		items: cmap.NewWithShards[entry](o.shards),
	}
}

// Set inserts or overwrites key and returns the version of this write.
func (s *Store) Set(key, value string) uint64 {
	v := s.version.Add(1)
	s.items.Set(key, entry{value: value, version: v})
	return v
}

// Get returns the current value of key.
func (s *Store) Get(key string) (string, bool) {
	e, ok := s.items.Get(key)
	if !ok {
		return "", false
	}
	return e.value, true
}

// Delete removes key if present and reports whether it was removed.
func (s *Store) Delete(key string) bool {
	return s.items.Delete(key)
}

// DeleteVersion removes key only if its current entry was written by the
// write that returned version.
func (s *Store) DeleteVersion(key string, version uint64) bool {
	return s.items.DeleteIf(key, func(e entry) bool {
		return e.version == version
	})
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return s.items.Count()
}

// ShardStats returns the key count per shard.
func (s *Store) ShardStats() []cmap.ShardStats {
	return s.items.Stats()
}
