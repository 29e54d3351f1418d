package base

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/ChangooLee/mcp-kr-legislation/metrics"
	"github.com/ChangooLee/mcp-kr-legislation/internal/infra"
)

// SearchCached performs a search with the in-memory cache and request
// deduplication in front of it. Identical concurrent searches share one
// upstream call.
func (c *Client) SearchCached(ctx context.Context, target string, params url.Values) (map[string]any, error) {
	key := c.SearchURL(target, params)

	if cached, ok := c.Cache.Get(key); ok {
		metrics.RecordCacheAccess(true)
		if data, ok := cached.(map[string]any); ok {
			return data, nil
		}
	}
	metrics.RecordCacheAccess(false)

	result, shared, err := c.Dedup.Do(ctx, key, func() (any, error) {
		return c.Search(ctx, target, params)
	})
	if err != nil {
		return nil, err
	}
	data, ok := result.(map[string]any)
	if !ok {
		return nil, &jsonShapeError{target: target}
	}

	if !shared {
		c.Cache.Set(key, data, DefaultCacheTTL)
		metrics.SetCacheSize(int64(c.Cache.Size()))
	}
	return data, nil
}

// ServiceCached performs a detail request with the 7-day disk cache in
// front of it. The cache key is derived from the entity ID and the section
// being requested, so different article ranges of the same law are cached
// separately.
func (c *Client) ServiceCached(ctx context.Context, target, id, section string, params url.Values) (map[string]any, error) {
	var key string
	if c.DiskCache != nil && id != "" {
		key = infra.Key(target+"_"+id, section)
		if raw, ok := c.DiskCache.Get(key); ok {
			metrics.RecordCacheAccess(true)
			var data map[string]any
			if err := json.Unmarshal(raw, &data); err == nil {
				return data, nil
			}
		}
		metrics.RecordCacheAccess(false)
	}

	data, err := c.Service(ctx, target, params)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if raw, err := json.Marshal(data); err == nil {
			c.DiskCache.Set(key, raw)
		}
	}
	return data, nil
}

type jsonShapeError struct {
	target string
}

func (e *jsonShapeError) Error() string {
	return "unexpected cached value shape for target " + e.target
}
