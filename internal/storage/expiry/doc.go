// Package expiry schedules deferred deletion of keys written with a TTL.
//
// SET hands an expiration Request to a bounded Queue. A single Scheduler
// consumes the queue in arrival order and starts one timer per request;
// when a timer fires the key is deleted.
//
// By default a fired timer deletes the key whatever its current value is,
// so a later SET without a TTL does not cancel an earlier pending delete.
// Requests that carry a non-zero Version are checked against the entry's
// version instead and skip the delete if the key was overwritten.
package expiry
