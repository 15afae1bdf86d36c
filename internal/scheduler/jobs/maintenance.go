package jobs

import (
	"context"
	"fmt"

	"github.com/nordvik/nordscreen/pkg/logger"
	"github.com/nordvik/nordscreen/pkg/redis"
)

// CacheFlushJob clears the data cache weekly so company listings and
// statements get refetched even when their TTL keeps being renewed.
type CacheFlushJob struct {
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCacheFlushJob creates the weekly cache flush job
func NewCacheFlushJob(cache *redis.Cache, log *logger.Logger) *CacheFlushJob {
	return &CacheFlushJob{
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheFlushJob) Name() string {
	return "weekly_cache_flush"
}

// Schedule returns the cron expression
func (j *CacheFlushJob) Schedule() string {
	return "0 0 4 * * 0" // Sundays 04:00 UTC, before the nightly screen
}

// Run clears all cached entries.
func (j *CacheFlushJob) Run(ctx context.Context) error {
	if j.cache == nil {
		return nil
	}
	if err := j.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	j.logger.Info("Cache flushed")
	return nil
}
