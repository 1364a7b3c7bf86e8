package source

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
	"golang.org/x/sync/singleflight"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

// CachedLoader keeps decoded files in an LRU cache. Concurrent loads of the
// same file are decoded once.
type CachedLoader struct {
	loader Loader
	cache  *ccache.Cache[[]*record.Event]
	flight singleflight.Group
	ttl    time.Duration
}

func NewCachedLoader(loader Loader, size int64, ttl time.Duration) *CachedLoader {
	return &CachedLoader{
		loader: loader,
		cache:  ccache.New(ccache.Configure[[]*record.Event]().MaxSize(size)),
		ttl:    ttl,
	}
}

func cacheKey(path string, kind record.Kind) string {
	return kind.Code() + ":" + path
}

func (c *CachedLoader) Load(ctx context.Context, path string, kind record.Kind) ([]*record.Event, error) {
	key := cacheKey(path, kind)
	if item := c.cache.Get(key); item != nil && !item.Expired() {
		return item.Value(), nil
	}

	res, err, _ := c.flight.Do(key, func() (any, error) {
		events, err := c.loader.Load(ctx, path, kind)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, events, c.ttl)
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]*record.Event), nil
}

// Stop terminates the background worker of the cache.
func (c *CachedLoader) Stop() {
	c.cache.Stop()
}
