// Package api hosts the status HTTP endpoint that runs alongside a resolve
// or bench command when a metrics address is configured. Routes:
//   - GET /healthz for liveness probes.
//   - GET /metrics for Prometheus scraping.
package api
