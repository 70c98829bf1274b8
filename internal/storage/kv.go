// Package storage persists application state in a pluggable key-value medium.
package storage

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrNotFound         = errors.New("key not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrClosed           = errors.New("store closed")
)

// KV defines the interface for key-value storage operations.
type KV interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close closes the store and releases any resources.
	Close() error
}

// StoreType represents the type of key-value store.
type StoreType string

const (
	StoreTypeFile   StoreType = "file"
	StoreTypeSQLite StoreType = "sqlite"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeMemory StoreType = "memory"
)

// StoreTypes lists the supported store types.
var StoreTypes = []StoreType{StoreTypeFile, StoreTypeSQLite, StoreTypeRedis, StoreTypeMemory}
