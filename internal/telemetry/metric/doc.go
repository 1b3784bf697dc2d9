// Package metric provides Prometheus metrics for rediskv.
//
// It exposes command counts and latencies, connection counts, expiry
// scheduler activity, replication handshakes and keyspace size in the
// Prometheus text format.
package metric
