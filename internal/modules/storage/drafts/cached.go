package drafts

import (
	"context"
	"sync"

	"github.com/morethan-log/core/internal/models"
)

// CachedStore keeps the full record list in memory for the lifetime of the
// process. Generated translations are append-only, so the cache warms on
// the first read and extends on every write without ever invalidating.
type CachedStore struct {
	inner Store

	mu      sync.Mutex
	warm    bool
	records []models.TranslationRecord
	slugs   map[string]struct{}
}

func NewCachedStore(inner Store) *CachedStore {
	return &CachedStore{inner: inner, slugs: make(map[string]struct{})}
}

func (c *CachedStore) List(ctx context.Context) ([]models.TranslationRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.warmLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]models.TranslationRecord, len(c.records))
	copy(out, c.records)
	return out, nil
}

func (c *CachedStore) Write(ctx context.Context, record models.TranslationRecord) error {
	if err := c.inner.Write(ctx, record); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.warm {
		return nil
	}
	c.records = append(c.records, record)
	c.slugs[record.Slug] = struct{}{}
	return nil
}

func (c *CachedStore) ExistsForSlug(ctx context.Context, slug string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.warmLocked(ctx); err != nil {
		return false, err
	}
	_, ok := c.slugs[slug]
	return ok, nil
}

// Reset drops the cached list so the next read hits the backend again.
func (c *CachedStore) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warm = false
	c.records = nil
	c.slugs = make(map[string]struct{})
}

func (c *CachedStore) warmLocked(ctx context.Context) error {
	if c.warm {
		return nil
	}
	records, err := c.inner.List(ctx)
	if err != nil {
		return err
	}
	c.records = records
	c.slugs = make(map[string]struct{}, len(records))
	for _, record := range records {
		c.slugs[record.Slug] = struct{}{}
	}
	c.warm = true
	return nil
}
