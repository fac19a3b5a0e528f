package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/pkg/cache"
)

const jobListKey = "jobs:all"

// JobListCache caches the job board listing. Cache failures are logged and
// treated as misses so the database stays the source of truth.
type JobListCache struct {
	cache  cache.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewJobListCache wraps c; a nil c disables caching.
func NewJobListCache(c cache.Cache, ttl time.Duration, logger zerolog.Logger) *JobListCache {
	if c == nil {
		c = cache.Noop{}
	}
	return &JobListCache{cache: c, ttl: ttl, logger: logger}
}

func (c *JobListCache) get(ctx context.Context) ([]*models.JobPosting, bool) {
	var jobs []*models.JobPosting
	hit, err := c.cache.Get(ctx, jobListKey, &jobs)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Job list cache read failed")
		return nil, false
	}
	return jobs, hit
}

func (c *JobListCache) set(ctx context.Context, jobs []*models.JobPosting) {
	if err := c.cache.Set(ctx, jobListKey, jobs, c.ttl); err != nil {
		c.logger.Warn().Err(err).Msg("Job list cache write failed")
	}
}

// Invalidate drops the cached listing.
func (c *JobListCache) Invalidate(ctx context.Context) {
	if err := c.cache.Delete(ctx, jobListKey); err != nil {
		c.logger.Warn().Err(err).Msg("Job list cache invalidation failed")
	}
}
