package storage

import (
	"context"
	"io"
)

// Storage holds short-lived files. Each key names a unique file, so
// concurrent requests never share one.
type Storage interface {
	Reserve(ctx context.Context, filename string) (*Reservation, error)
	GetFile(ctx context.Context, key string) (io.ReadCloser, string, error)
	DeleteFile(ctx context.Context, key string) error
}

type Reservation struct {
	Key  string
	Path string
}
