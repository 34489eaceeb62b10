// Package storage holds the raw bytes of uploaded documents in an S3-compatible bucket.
// Objects are streamed in and out; nothing is staged on local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions describes an upload. Size is -1 when the length is not known up front,
// which makes the MinIO client fall back to a multipart upload.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo is what the bucket reports about a stored document.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the document bucket. Upload writes through Put, chat reads excerpts through Get,
// purge and expiry go through Delete, and downloads are handed out as presigned URLs.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
