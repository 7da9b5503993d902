// Package resume holds the resume data model and its document layout.
//
// Decode validates request bodies the way the HTTP endpoint expects them.
// FromAPI reads the remote data API payload. Layout turns either into a
// latex.Document with a fixed single-column design.
package resume
