// Package memory provides the in-memory key-value store for rediskv.
//
// Features:
//
//   - Sharded Storage: keys distributed across shards for parallelism
//   - Versioned Entries: every write stamps a new store-wide version
//   - Conditional Deletes: delete only if the entry still has a given version
//
// The store performs no expiry checks of its own. Keys with a TTL are removed
// by the expiry scheduler, so a key whose TTL has elapsed stays readable
// until its deletion fires.
//
// Thread Safety:
//
// All operations are thread-safe through fine-grained locking and each
// operation touches a single entry atomically. No lock is held across calls.
package memory
