package explorer

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Cache decides, for one category, whether to serve the stored batch for a
// location or fetch a fresh one from the provider.
//
// A batch older than the category's max age is evicted and replaced. Concurrent
// resolutions of the same location share one in-flight call; there is no
// coordination across processes.
type Cache[T Record[T]] struct {
	category Category
	maxAge   time.Duration
	store    BatchStore[T]
	fetcher  Fetcher[T]
	opts     options
	log      *logrus.Entry
	flight   singleflight.Group
}

// NewCache creates a cache for category backed by store and fetcher.
func NewCache[T Record[T]](category Category, store BatchStore[T], fetcher Fetcher[T], opts ...Option) *Cache[T] {
	o := newOptions(opts)
	return &Cache[T]{
		category: category,
		maxAge:   category.MaxAge(),
		store:    store,
		fetcher:  fetcher,
		opts:     o,
		log:      o.logger.WithFields(logrus.Fields{"component": "cache", "category": category}),
	}
}

// Category returns the category served by this cache.
func (c *Cache[T]) Category() Category {
	return c.category
}

// Resolve returns the records for loc, from the store when the stored batch is
// fresh and from the provider otherwise.
//
// Calls are coalesced by loc.ID only: while a resolution is in flight, later
// callers for the same ID receive its result, fetched with the search text and
// coordinates of the first caller. The shared call does not stop when one
// caller's ctx is cancelled; that caller returns ctx.Err() and the others keep
// waiting.
func (c *Cache[T]) Resolve(ctx context.Context, loc Location) ([]T, error) {
	key := strconv.FormatInt(loc.ID, 10)
	ch := c.flight.DoChan(key, func() (interface{}, error) {
		return c.resolve(context.WithoutCancel(ctx), loc)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		c.log.Debugf("[Cache] Caller for location %d gave up: %v", loc.ID, ctx.Err())
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.log.Debugf("[Cache] Joined in-flight resolution for location %d", loc.ID)
	}

	recs := res.Val.([]T)
	out := make([]T, len(recs))
	copy(out, recs)
	return out, nil
}

func (c *Cache[T]) resolve(ctx context.Context, loc Location) ([]T, error) {
	rows, err := c.store.Load(ctx, loc.ID)
	if err != nil {
		err = storeFailure(err)
		cacheLookups.WithLabelValues(c.category.String(), outcomeError).Inc()
		c.log.WithError(err).Errorf("[Cache] Failed to load batch for location %d", loc.ID)
		return nil, err
	}

	if len(rows) == 0 {
		cacheLookups.WithLabelValues(c.category.String(), outcomeMiss).Inc()
		c.log.Debugf("[Cache] Miss for location %d", loc.ID)
		return c.refill(ctx, loc)
	}

	age := c.opts.now().Sub(rows[0].Batch().CreatedAt)
	if age <= c.maxAge {
		cacheLookups.WithLabelValues(c.category.String(), outcomeHit).Inc()
		c.log.Debugf("[Cache] Hit for location %d (age %s)", loc.ID, age.Truncate(time.Second))
		return rows, nil
	}

	cacheLookups.WithLabelValues(c.category.String(), outcomeRefresh).Inc()
	c.log.Infof("[Cache] Batch for location %d is %s old (max %s), refreshing",
		loc.ID, age.Truncate(time.Second), c.maxAge)

	// A failed eviction does not stop the refetch.
	if err := c.store.Evict(ctx, loc.ID); err != nil {
		c.log.WithError(err).Warnf("[Cache] Failed to evict stale batch for location %d", loc.ID)
	}
	return c.refill(ctx, loc)
}

// refill fetches a new batch and persists it record by record. A store failure
// part way through leaves the records inserted so far in place.
func (c *Cache[T]) refill(ctx context.Context, loc Location) ([]T, error) {
	items, err := callProvider(ctx, c.opts, c.fetcher.Name(), func(ctx context.Context) ([]T, error) {
		return c.fetcher.Fetch(ctx, loc)
	})
	if err != nil {
		cacheLookups.WithLabelValues(c.category.String(), outcomeError).Inc()
		c.log.WithError(err).Errorf("[Cache] Provider %s failed for location %d", c.fetcher.Name(), loc.ID)
		return nil, err
	}

	meta := BatchMeta{
		LocationID: loc.ID,
		CreatedAt:  c.opts.now().UTC().Truncate(time.Microsecond),
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		rec := item.withBatch(meta)
		if err := c.store.Insert(ctx, rec); err != nil {
			err = storeFailure(err)
			cacheLookups.WithLabelValues(c.category.String(), outcomeError).Inc()
			c.log.WithError(err).Errorf("[Cache] Stored %d of %d records for location %d before failing",
				len(out), len(items), loc.ID)
			return nil, err
		}
		out = append(out, rec)
	}

	c.log.Debugf("[Cache] Stored batch of %d records for location %d", len(out), loc.ID)
	return out, nil
}
