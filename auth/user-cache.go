package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/krishkalaria12/spot-serve/models"
	"github.com/krishkalaria12/spot-serve/repositories"
)

const DefaultUserCacheTTL = 5 * time.Minute

// UserCache fronts user lookups made while restoring a session. Misses and
// errors are never cached.
type UserCache struct {
	users repositories.UserRepository
	cache *ccache.Cache[*models.User]
	ttl   time.Duration
}

func NewUserCache(users repositories.UserRepository, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultUserCacheTTL
	}
	return &UserCache{
		users: users,
		cache: ccache.New(ccache.Configure[*models.User]().MaxSize(10000)),
		ttl:   ttl,
	}
}

func (c *UserCache) Get(ctx context.Context, id uint) (*models.User, error) {
	item, err := c.cache.Fetch(cacheKey(id), c.ttl, func() (*models.User, error) {
		return c.users.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	user := *item.Value()
	return &user, nil
}

func (c *UserCache) Forget(id uint) {
	c.cache.Delete(cacheKey(id))
}

func (c *UserCache) Stop() {
	c.cache.Stop()
}

func cacheKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
