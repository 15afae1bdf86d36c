package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/nordvik/nordscreen/internal/external/euronext"
	"github.com/nordvik/nordscreen/internal/external/nasdaq"
	"github.com/nordvik/nordscreen/internal/external/yahoo"
	"github.com/nordvik/nordscreen/internal/pipeline"
	"github.com/nordvik/nordscreen/internal/report"
	"github.com/nordvik/nordscreen/internal/screening"
	"github.com/nordvik/nordscreen/internal/storage"
	"github.com/nordvik/nordscreen/internal/universe"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/database"
	"github.com/nordvik/nordscreen/pkg/httputil"
	"github.com/nordvik/nordscreen/pkg/logger"
	"github.com/nordvik/nordscreen/pkg/redis"
)

// cachePrefix namespaces every Redis key the application writes.
const cachePrefix = "nordscreen"

// app bundles the wired application components. db and repo are nil
// when no DATABASE_URL is configured.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redis.Client
	cache    *redis.Cache
	repo     *storage.Repository
	pipeline *pipeline.Pipeline
}

// newApp loads configuration and wires the screening pipeline. refresh
// bypasses the cache for this run. requireDB makes a missing database
// configuration an error instead of running without persistence.
func newApp(refresh, requireDB bool) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	cleanup := func() {
		redisClient.Close()
	}

	var db *database.DB
	var repo *storage.Repository
	if cfg.Database.URL != "" {
		db, err = database.New(cfg)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		prev := cleanup
		cleanup = func() {
			db.Close()
			prev()
		}

		repo = storage.NewRepository(db.Pool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			cleanup()
			return nil, nil, err
		}
	} else if requireDB {
		cleanup()
		return nil, nil, fmt.Errorf("DATABASE_URL must be set for this command")
	}

	cache := redis.NewCache(redisClient, cachePrefix, cfg.CacheTTL).WithBypass(refresh)

	// Listing downloads are rare; only the statement fetches need the
	// provider rate limit.
	listingHTTP := httputil.New(log)

	yahooLimit := redis.RateLimitConfig{
		Key:    "yahoo",
		Limit:  cfg.FetchCallsPerMinute,
		Window: time.Minute,
	}
	yahooLimiter := redis.NewRateLimiter(redisClient, cachePrefix, yahooLimit)
	yahooHTTP := httputil.New(log).WithRateLimiter(yahooLimiter, yahooLimit)

	euronextClient := euronext.NewClient(listingHTTP, log)
	nasdaqClient := nasdaq.NewClient(listingHTTP, log)
	yahooClient := yahoo.NewClient(yahooHTTP, cache, cfg.Yahoo, log)

	builder := universe.NewBuilder(euronextClient, nasdaqClient, cache, cfg, log)
	screener := screening.NewScreener(yahooClient, cfg, log)
	reporter := report.NewGenerator(cfg.ReportDir, cfg.TopN, log)

	var store pipeline.RunStore
	if repo != nil {
		store = repo
	}
	pipe := pipeline.New(builder, screener, store, reporter, log)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		redis:    redisClient,
		cache:    cache,
		repo:     repo,
		pipeline: pipe,
	}, cleanup, nil
}
