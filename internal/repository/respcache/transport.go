// Package respcache caches raw search responses in a key-value store.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/solrq/internal/db"
	"github.com/kailas-cloud/solrq/internal/params"
)

// KeyPrefix namespaces cached responses in the store.
const KeyPrefix = "solrq:resp:"

// DefaultCallTimeout bounds a shared inner call once it no longer follows
// any single caller's context.
const DefaultCallTimeout = 30 * time.Second

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// transport is the decorated request sender.
type transport interface {
	Get(ctx context.Context, path string, p params.Params) (string, error)
}

// CachedTransport serves repeated requests from the store. Concurrent
// identical requests share one in-flight call to the inner transport.
type CachedTransport struct {
	inner      transport
	store      store
	ttl        time.Duration
	timeout    time.Duration
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"shared"), may be nil.
func New(
	inner transport,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTransport{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		timeout:    DefaultCallTimeout,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithCallTimeout overrides DefaultCallTimeout. Non-positive values are ignored.
func (c *CachedTransport) WithCallTimeout(d time.Duration) *CachedTransport {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// Get returns a cached response or calls the inner transport.
// Store failures are logged and never fail the request; inner failures are
// returned unchanged and not cached. The shared inner call runs detached from
// the callers' cancellation, so a caller that gives up only fails itself.
func (c *CachedTransport) Get(ctx context.Context, path string, p params.Params) (string, error) {
	key := Key(path, p)

	if raw, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return raw, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		c.incCache("miss")
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		raw, err := c.inner.Get(callCtx, path, p)
		if err != nil {
			return "", err
		}
		c.putToCache(callCtx, key, raw)
		return raw, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return "", ctx.Err() //nolint:wrapcheck // callers match context errors directly
	}
	if res.Shared {
		c.incCache("shared")
	}
	if res.Err != nil {
		return "", res.Err //nolint:wrapcheck // transport errors pass through unchanged
	}
	raw, ok := res.Val.(string)
	if !ok {
		return "", fmt.Errorf("respcache: unexpected value type %T", res.Val)
	}
	return raw, nil
}

// Key derives the store key from the complete serialized request.
func Key(path string, p params.Params) string {
	h := sha256.Sum256([]byte(path + "?" + p.Encode()))
	return KeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedTransport) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedTransport) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedTransport) putToCache(ctx context.Context, key, raw string) {
	if err := c.store.SetWithTTL(ctx, key, []byte(raw), c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}
