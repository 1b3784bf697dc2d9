// Package engine executes parsed commands against the key-value store.
//
// An Engine holds no per-call state: it dispatches each request against
// the shared store and, for SET with a TTL, hands an expiration request to
// the expiry queue. Calls from different connections may run concurrently.
package engine
