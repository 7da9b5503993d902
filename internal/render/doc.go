// Package render turns resume data into PDFs.
//
// Service is the single entry point used by both the HTTP API and the CLI.
// It bounds concurrent latexmk runs with a weighted semaphore, applies the
// render timeout, and fans each outcome out to history, metrics, MQTT and
// the object store. Those sinks are optional interfaces so the service runs
// with none of them configured.
package render
