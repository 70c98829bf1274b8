package storage

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "cyber:"

// Open creates a new KV based on the given type.
// The file store requires WithDir, the sqlite store WithSQLitePath and the
// Redis store WithRedisClient or WithRedisAddr.
func Open(storeType StoreType, opts ...Option) (KV, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return NewMemoryStore(), nil

	case StoreTypeFile:
		if config.dir == "" {
			return nil, fmt.Errorf("%w: file store needs a directory", ErrInvalidConfig)
		}
		return NewFileStore(config.dir)

	case StoreTypeSQLite:
		if config.sqlitePath == "" {
			return nil, fmt.Errorf("%w: sqlite store needs a path", ErrInvalidConfig)
		}
		return NewSQLiteStore(config.sqlitePath)

	case StoreTypeRedis:
		client := config.redisClient
		if client == nil {
			if config.redisAddr == "" {
				return nil, fmt.Errorf("%w: redis store needs an address", ErrInvalidConfig)
			}
			client = redis.NewClient(&redis.Options{
				Addr:     config.redisAddr,
				Password: config.redisPassword,
				DB:       config.redisDB,
			})
		}
		prefix := config.redisPrefix
		if prefix == "" {
			prefix = defaultRedisPrefix
		}
		return NewRedisStore(client, prefix, config.redisTTL), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStoreType, storeType)
	}
}

// ParseStoreType validates a store type name.
func ParseStoreType(s string) (StoreType, error) {
	for _, t := range StoreTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStoreType, s)
}
