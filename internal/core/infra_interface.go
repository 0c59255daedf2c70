package core

import (
	"context"
	"io"
)

// ObjectClient defines the read side of object storage used to fetch input documents.
// It's abstract so you can replace AWS with MinIO, GCS interop, etc. easily.
type ObjectClient interface {
	// Download writes the object at bucket/key into w and returns the number of bytes written.
	Download(ctx context.Context, bucket, key string, w io.WriterAt) (int64, error)
}
