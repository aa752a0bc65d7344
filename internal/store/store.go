// Package store provides the key-value persistence layer backing the
// application state. Each key holds one JSON-serialized collection; the state
// reads every key at startup and writes a key back whole on every change.
package store

import (
	"context"
	"errors"
)

// Persisted state keys.
const (
	KeyUsers                = "users"
	KeyPoes                 = "poes"
	KeyAuditLog             = "auditLog"
	KeyCurrentUser          = "currentUser"
	KeyCurrentEstablishment = "currentEstablishment"
)

// ErrNotFound reports an absent key. Callers fall back to seed data or null.
var ErrNotFound = errors.New("store: key not found")

type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
