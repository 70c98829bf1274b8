package storage

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Option is a functional option for configuring a store.
type Option func(*storeConfig)

// storeConfig holds configuration for all store types.
type storeConfig struct {
	dir string

	sqlitePath string

	redisClient   *redis.Client
	redisAddr     string
	redisPassword string
	redisDB       int
	redisPrefix   string
	redisTTL      time.Duration
}

// WithDir sets the directory of the file store.
func WithDir(dir string) Option {
	return func(c *storeConfig) {
		c.dir = dir
	}
}

// WithSQLitePath sets the database file of the sqlite store.
func WithSQLitePath(path string) Option {
	return func(c *storeConfig) {
		c.sqlitePath = path
	}
}

// WithRedisClient sets the Redis client for the Redis store.
// Takes precedence over WithRedisAddr.
func WithRedisClient(client *redis.Client) Option {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisAddr configures the connection of the Redis store.
func WithRedisAddr(addr, password string, db int) Option {
	return func(c *storeConfig) {
		c.redisAddr = addr
		c.redisPassword = password
		c.redisDB = db
	}
}

// WithRedisPrefix sets the key prefix for Redis keys.
func WithRedisPrefix(prefix string) Option {
	return func(c *storeConfig) {
		c.redisPrefix = prefix
	}
}

// WithRedisTTL sets the TTL for Redis keys. Zero means no expiry.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}
