package catalog

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/rcliao/field-planner/internal/model"
)

// DefaultPoolTTL is how long a category pool is served from cache.
const DefaultPoolTTL = 5 * time.Minute

// Cached wraps a Repository and keeps category pools in a TTL cache so the
// recommendation path does not hit the backing catalog on every call.
type Cached struct {
	Repository
	pools *otter.Cache[model.Category, []model.POI]
}

// NewCached returns a caching decorator around repo.
func NewCached(repo Repository, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultPoolTTL
	}
	return &Cached{
		Repository: repo,
		pools: otter.Must(&otter.Options[model.Category, []model.POI]{
			MaximumSize:      64,
			ExpiryCalculator: otter.ExpiryWriting[model.Category, []model.POI](ttl),
		}),
	}
}

func (c *Cached) Pool(ctx context.Context, category model.Category) ([]model.POI, error) {
	if pool, ok := c.pools.GetIfPresent(category); ok {
		return pool, nil
	}
	pool, err := c.Repository.Pool(ctx, category)
	if err != nil {
		return nil, err
	}
	c.pools.Set(category, pool)
	return pool, nil
}

// Invalidate drops every cached pool.
func (c *Cached) Invalidate() {
	c.pools.InvalidateAll()
}
