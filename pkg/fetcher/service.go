package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/illmade-knight/go-storefront-cache/pkg/catalog"
	"github.com/illmade-knight/go-storefront-cache/pkg/fetchcache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Service is the resilient fetcher. A host application constructs one at its
// composition root and shares it process-wide; every call site then observes
// the same cache.
type Service struct {
	cfg    Config
	store  fetchcache.Store
	chains Chains
	logger zerolog.Logger
	flight singleflight.Group
}

// New creates a Service over the given store and provider chains.
func New(cfg Config, store fetchcache.Store, chains Chains, logger zerolog.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if len(chains.ListAll) == 0 || len(chains.GetByID) == 0 || len(chains.Categories) == 0 || len(chains.ByCategory) == 0 {
		return nil, fmt.Errorf("every operation needs at least one provider tier")
	}
	cfg.TTL = cfg.TTL.withDefaults()

	return &Service{
		cfg:    cfg,
		store:  store,
		chains: chains,
		logger: logger.With().Str("component", "Fetcher").Logger(),
	}, nil
}

// Store exposes the underlying cache so cooperating components (prefetch,
// invalidation) can share it.
func (s *Service) Store() fetchcache.Store {
	return s.store
}

// readCached returns the cached envelope for key if present and unexpired.
// A store error or an undecodable entry is treated as a miss: the cache can
// always be rebuilt from upstream.
func readCached[T any](ctx context.Context, s *Service, key string) (catalog.Result[T], bool) {
	var zero catalog.Result[T]

	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss.")
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var result catalog.Result[T]
	if err := json.Unmarshal(value, &result); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cached entry undecodable, treating as miss.")
		return zero, false
	}
	s.logger.Debug().Str("key", key).Msg("Cache hit.")
	return result, true
}

// writeCached stores a successful envelope under key. Failed results are
// never cached, so a failure always triggers a live retry on the next read.
func writeCached[T any](ctx context.Context, s *Service, key string, result catalog.Result[T], ttl time.Duration) {
	if !result.Success {
		return
	}
	value, err := json.Marshal(result)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to marshal result for caching.")
		return
	}
	if err := s.store.Set(ctx, key, value, ttl); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to write result to cache.")
	}
}

// inFlight optionally collapses concurrent misses for the same key into one
// upstream fetch. With dedup off it simply runs fn.
func inFlight[T any](s *Service, key string, fn func() (catalog.Result[T], error)) (catalog.Result[T], error) {
	if !s.cfg.DedupeInFlight {
		return fn()
	}
	value, err, _ := s.flight.Do(key, func() (any, error) {
		result, fnErr := fn()
		return result, fnErr
	})
	result, ok := value.(catalog.Result[T])
	if !ok {
		var zero catalog.Result[T]
		return zero, err
	}
	return result, err
}
