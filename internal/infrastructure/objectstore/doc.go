// Package objectstore archives rendered PDFs in S3-compatible storage
// (MinIO, AWS S3) using minio-go.
//
// Archived objects are stored as <prefix>/<render-id>.pdf and referenced
// from render history by their s3://bucket/key URL.
package objectstore
