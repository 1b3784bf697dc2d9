// Package adminserver provides the HTTP admin endpoint for rediskv.
//
// Routes:
//   - GET /metrics: Prometheus metrics
//   - GET /healthz: liveness
//   - GET /info: replication info and build info as JSON
package adminserver
