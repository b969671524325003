// Package metadata persists the CLI session as key/value pairs in sqlite.
package metadata

import (
	"context"
)

// Keys of the saved session.
const (
	KeyEmail        = "email"
	KeyUserID       = "user_id"
	KeyRefreshToken = "refresh_token"
)

// Repository is a tiny key/value store. Get returns common.ErrorNotFound for
// an absent key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
