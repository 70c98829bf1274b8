package provider

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const (
	// ModelCacheTTL is the time-to-live for cached models
	ModelCacheTTL = 24 * time.Hour

	modelCacheKeyPrefix = "cyber_models_"
)

// KV is the subset of a key-value store the model cache needs.
// A missing key must be reported with an error matching missing.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ModelCache stores cached model information
type ModelCache struct {
	CachedAt time.Time   `json:"cachedAt"`
	Models   []ModelInfo `json:"models"`
}

// Store caches model listings per provider in a key-value store
type Store struct {
	kv      KV
	missing error
	now     func() time.Time
}

// NewStore creates a model cache over kv. missing is the error kv returns
// for an absent key.
func NewStore(kv KV, missing error) *Store {
	return &Store{kv: kv, missing: missing, now: time.Now}
}

func modelCacheKey(p Provider) string {
	return modelCacheKeyPrefix + string(p)
}

// CacheModels saves model information for a provider
func (s *Store) CacheModels(ctx context.Context, p Provider, models []ModelInfo) error {
	data, err := json.Marshal(ModelCache{CachedAt: s.now(), Models: models})
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, modelCacheKey(p), data)
}

// GetCachedModels returns cached models if they exist and are not expired
func (s *Store) GetCachedModels(ctx context.Context, p Provider) ([]ModelInfo, bool) {
	data, err := s.kv.Get(ctx, modelCacheKey(p))
	if err != nil {
		return nil, false
	}
	var cache ModelCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, false
	}
	if s.now().Sub(cache.CachedAt) > ModelCacheTTL {
		return nil, false
	}
	return cache.Models, true
}

// ClearModelCache clears the cached models of a provider
func (s *Store) ClearModelCache(ctx context.Context, p Provider) error {
	err := s.kv.Delete(ctx, modelCacheKey(p))
	if err != nil && s.missing != nil && errors.Is(err, s.missing) {
		return nil
	}
	return err
}

// ListModels returns the provider's models, from cache when fresh.
// refresh bypasses the cache.
func (s *Store) ListModels(ctx context.Context, g Generator, p Provider, refresh bool) ([]ModelInfo, error) {
	if !refresh {
		if models, ok := s.GetCachedModels(ctx, p); ok {
			return models, nil
		}
	}
	models, err := g.ListModels(ctx)
	if err != nil {
		return nil, Wrap("models", g.Name(), err)
	}
	// A failed cache write only costs a refetch next time.
	_ = s.CacheModels(ctx, p, models)
	return models, nil
}
