// Package cmap provides a concurrent map for rediskv.
//
// Map is a string-keyed map split into a power-of-two number of shards,
// each guarded by its own RWMutex. Keys are assigned to shards by their
// murmur3 hash. DeleteIf evaluates its predicate under the shard lock, so
// a conditional delete cannot race a concurrent Set of the same key.
//
//	m := cmap.NewWithShards[string](cmap.DefaultShardCount)
//	m.Set("key", "value")
//	val, ok := m.Get("key")
//
// Predicates must not call back into the same map.
package cmap
