// Package api hosts the HTTP server and middleware that front the render pipeline.
// Notable routes:
//   - GET /healthz / readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /assets/* and a fixed list of top-level files, served from the asset root.
//   - GET and HEAD /* for every other path, answered with a server-rendered document.
package api
