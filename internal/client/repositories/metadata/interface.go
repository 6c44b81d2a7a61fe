// Package metadata is the local key/value table behind the session store.
package metadata

import (
	"context"
)

// Repository stores string values by key. A missing key reads as ("", false).
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
