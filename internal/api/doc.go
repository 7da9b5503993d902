// Package api implements the HTTP API for resumed.
//
// This package provides:
//   - POST /generate-resume and GET /generate-resume-from-api, returning PDFs
//   - Liveness (/health) and dependency health (/api/v1/health)
//   - Render history and metrics under /api/v1
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - Optional HS256 bearer-token authentication
//
// # Errors
//
// Every error is JSON shaped as {"status": 400, "code": "bad_request", "error": "..."}.
// Input problems map to 400, remote source failures to 502, a missing
// toolchain or unconfigured source to 503, render timeouts to 504 and
// compile failures to 500.
//
// # Graceful Degradation
//
// History, MQTT and the remote source are optional. Without history the
// /api/v1/renders endpoints return 503; rendering is unaffected.
package api
