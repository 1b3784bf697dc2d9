// Package main provides the entry point for rediskv-server.
//
// rediskv-server speaks a subset of the Redis protocol:
//
//   - PING, ECHO, GET, SET with PX expiry
//   - COMMAND DOCS and INFO replication
//   - an optional replica role that handshakes with a master at startup
//
// Usage:
//
//	rediskv-server [flags]
//	rediskv-server --config /path/to/config.yaml
//	rediskv-server --port 6380 --replicaof "localhost 6379"
//
// Configuration is layered: defaults, then the YAML file, then REDISKV_*
// environment variables, then flags.
package main
