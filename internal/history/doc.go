// Package history records every render attempt in SQLite and serves the
// /api/v1/renders endpoints.
package history
