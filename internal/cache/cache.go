// Package cache memoizes encoded operation results in an in-process
// expirable LRU, optionally backed by a shared Redis tier.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mohammed-shakir/georelate/internal/observability"
)

// Remote is the shared tier; *redisstore.Client implements it.
type Remote interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

type Config struct {
	Size      int
	TTL       time.Duration
	OpTimeout time.Duration
}

type Cache struct {
	local     *expirable.LRU[string, []byte]
	remote    Remote
	ttl       time.Duration
	opTimeout time.Duration
	log       *slog.Logger
}

// New builds the cache; remote may be nil. Remote failures are logged and
// treated as misses so a Redis outage only costs recomputation.
func New(cfg Config, remote Remote, log *slog.Logger) *Cache {
	if cfg.Size <= 0 {
		cfg.Size = 1024
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		local:     expirable.NewLRU[string, []byte](cfg.Size, nil, cfg.TTL),
		remote:    remote,
		ttl:       cfg.TTL,
		opTimeout: cfg.OpTimeout,
		log:       log,
	}
}

func (c *Cache) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout > 0 {
		return context.WithTimeout(ctx, c.opTimeout)
	}
	return context.WithCancel(ctx)
}

// Get looks key up locally, then remotely; a remote hit is copied into the
// local tier.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := c.local.Get(key); ok {
		observability.AddCacheResults("local", "hit", 1)
		return v, true
	}
	observability.AddCacheResults("local", "miss", 1)
	if c.remote == nil {
		return nil, false
	}

	rctx, cancel := c.remoteCtx(ctx)
	defer cancel()
	v, ok, err := c.remote.Get(rctx, key)
	if err != nil {
		c.log.WarnContext(ctx, "cache remote get failed", "key", key, "err", err)
		return nil, false
	}
	if ok {
		c.local.Add(key, v)
	}
	return v, ok
}

func (c *Cache) Set(ctx context.Context, key string, val []byte) {
	c.local.Add(key, val)
	if c.remote == nil {
		return
	}
	rctx, cancel := c.remoteCtx(ctx)
	defer cancel()
	if err := c.remote.Set(rctx, key, val, c.ttl); err != nil {
		c.log.WarnContext(ctx, "cache remote set failed", "key", key, "err", err)
	}
}

// GetOrCompute returns the cached value for key or stores the result of fn.
// Errors from fn are returned and never cached.
func (c *Cache) GetOrCompute(ctx context.Context, key string, fn func() ([]byte, error)) ([]byte, bool, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, true, nil
	}
	v, err := fn()
	if err != nil {
		return nil, false, err
	}
	c.Set(ctx, key, v)
	return v, false, nil
}
