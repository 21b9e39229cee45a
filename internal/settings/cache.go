package settings

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedStore is a Redis read-through cache in front of another Store.
// Writes go to the source first, then bump a per-option generation key
// and drop the cached entry. A fill is committed only if the generation
// is unchanged since the source read began, so a Get racing a Put never
// puts the older value back. Redis failures degrade to reading the source.
type CachedStore struct {
	src Store
	rdb *redis.Client
	ttl time.Duration
	log *zap.SugaredLogger
}

func NewCachedStore(src Store, rdb *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *CachedStore {
	return &CachedStore{src: src, rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(storeID, name string) string { return "paysieve:opt:" + storeID + ":" + name }
func genKey(storeID, name string) string   { return "paysieve:optgen:" + storeID + ":" + name }

func (c *CachedStore) Get(ctx context.Context, storeID, name string) ([]byte, error) {
	key := cacheKey(storeID, name)
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warnw("option cache read", "key", key, "err", err)
	}

	var srcErr error
	read := false
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		b, srcErr = c.src.Get(ctx, storeID, name)
		read = true
		if srcErr != nil {
			return nil
		}
		_, err := tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, genKey(storeID, name))
	switch {
	case err == nil, errors.Is(err, redis.TxFailedErr):
		// a concurrent Put won; serve what was read but leave the cache empty
	default:
		c.log.Warnw("option cache fill", "key", key, "err", err)
		if !read {
			b, srcErr = c.src.Get(ctx, storeID, name)
		}
	}
	if srcErr != nil {
		return nil, srcErr
	}
	return b, nil
}

func (c *CachedStore) Put(ctx context.Context, storeID, name string, value []byte) error {
	if err := c.src.Put(ctx, storeID, name, value); err != nil {
		return err
	}
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey(storeID, name))
		p.Del(ctx, cacheKey(storeID, name))
		return nil
	})
	if err != nil {
		c.log.Warnw("option cache evict", "store", storeID, "name", name, "err", err)
	}
	return nil
}
