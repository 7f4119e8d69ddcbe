// Package http provides the optional admin endpoint of the file server.
//
// Routes:
//   - GET /             service description
//   - GET /health       accept loop state and counters (503 while the
//     accept breaker is open)
//   - GET /metrics      Prometheus exposition
//   - GET /metrics/json counter snapshot
//
// The endpoint is read-only and binds to loopback by default.
package http
