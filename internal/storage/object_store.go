package storage

import (
	"context"
	"io"
)

// ObjectStore holds generated media (post images) under opaque keys. The S3
// implementation backs production, the local one backs dev setups and tests.
type ObjectStore interface {
	CreateBucket(ctx context.Context, bucket string) error

	PutObject(ctx context.Context, bucket, key string, data io.Reader) error

	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}
