// Package logging provides structured logging for resumed.
//
// It wraps log/slog so every component logs the same way:
//
//   - JSON output for production (machine-parsable)
//   - Text output for local runs of the CLI
//   - Default fields (service, version) on all entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("render complete", "render_id", id, "bytes", n)
//
// Never log resume contents, tokens or storage credentials.
package logging
