package objectstore

import "errors"

var (
	// ErrDisabled indicates archiving is disabled in config.
	ErrDisabled = errors.New("objectstore: disabled in configuration")

	// ErrConnectionFailed indicates the endpoint could not be reached or
	// rejected the credentials.
	ErrConnectionFailed = errors.New("objectstore: connection failed")

	// ErrBucketMissing is returned when the bucket does not exist and
	// create_bucket is off.
	ErrBucketMissing = errors.New("objectstore: bucket does not exist")

	// ErrUploadFailed is returned when an object cannot be stored.
	ErrUploadFailed = errors.New("objectstore: upload failed")
)
