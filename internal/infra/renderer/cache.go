package renderer

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	gocache "github.com/patrickmn/go-cache"
	"github.com/zeebo/xxh3"
)

// Renderer is satisfied by RodRenderer and CachedRenderer.
type Renderer interface {
	Render(ctx context.Context, document string) ([]byte, error)
}

// Cache stores rendered PDFs by document hash.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, pdf []byte)
}

// CachedRenderer skips the browser when an identical document was rendered
// recently. Failed renders are never stored.
type CachedRenderer struct {
	next  Renderer
	cache Cache
}

func NewCachedRenderer(next Renderer, cache Cache) *CachedRenderer {
	return &CachedRenderer{next: next, cache: cache}
}

func (r *CachedRenderer) Render(ctx context.Context, document string) ([]byte, error) {
	key := DocumentKey(document)
	if pdf, ok := r.cache.Get(ctx, key); ok {
		return pdf, nil
	}

	pdf, err := r.next.Render(ctx, document)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, pdf)
	return pdf, nil
}

func DocumentKey(document string) string {
	return "pdf:" + strconv.FormatUint(xxh3.HashString(document), 16)
}

type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false
	}
	pdf, ok := v.([]byte)
	return pdf, ok
}

func (m *MemoryCache) Set(_ context.Context, key string, pdf []byte) {
	m.c.SetDefault(key, pdf)
}

// MemcacheCache degrades to a miss whenever memcached is unreachable.
type MemcacheCache struct {
	mc  *memcache.Client
	ttl time.Duration
}

func NewMemcacheCache(mc *memcache.Client, ttl time.Duration) *MemcacheCache {
	return &MemcacheCache{mc: mc, ttl: ttl}
}

func (m *MemcacheCache) Get(ctx context.Context, key string) ([]byte, bool) {
	item, err := m.mc.Get(key)
	if err != nil {
		if err != memcache.ErrCacheMiss {
			slog.WarnContext(
				ctx, "memcache get failed",
				slog.String("error", err.Error()),
				slog.String("module", "renderer"),
			)
		}
		return nil, false
	}
	return item.Value, true
}

func (m *MemcacheCache) Set(ctx context.Context, key string, pdf []byte) {
	err := m.mc.Set(&memcache.Item{
		Key:        key,
		Value:      pdf,
		Expiration: int32(m.ttl / time.Second),
	})
	if err != nil {
		slog.WarnContext(
			ctx, "memcache set failed",
			slog.String("error", err.Error()),
			slog.String("module", "renderer"),
		)
	}
}
