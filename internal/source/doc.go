// Package source fetches resume data from the remote data API used by
// GET /generate-resume-from-api and `resumed render --from-api`.
package source
