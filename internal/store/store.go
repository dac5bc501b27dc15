// Package store defines the key-value slot the link snapshot is mirrored to.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("store: key not found")

// KV is a single-namespace key-value slot. Put overwrites the whole value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Name() string
	Close() error
}
