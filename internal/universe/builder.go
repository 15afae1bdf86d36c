// Package universe assembles the screening universe from the configured
// exchanges.
package universe

import (
	"context"
	"fmt"
	"sort"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/logger"
	"github.com/nordvik/nordscreen/pkg/redis"
)

// Lister fetches the listed companies for one exchange.
type Lister interface {
	FetchCompanies(ctx context.Context, exchange string, cfg config.ExchangeConfig) ([]contracts.Company, error)
}

// Builder assembles the full cross-exchange universe. Exchanges with a
// market identifier code go through the Nasdaq Nordic lister, the rest
// through Euronext.
type Builder struct {
	euronext Lister
	nasdaq   Lister
	cache    *redis.Cache
	cfg      *config.Config
	logger   *logger.Logger
}

// NewBuilder creates a universe builder. cache may be nil.
func NewBuilder(euronext, nasdaq Lister, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *Builder {
	return &Builder{
		euronext: euronext,
		nasdaq:   nasdaq,
		cache:    cache,
		cfg:      cfg,
		logger:   log.WithField("module", "universe"),
	}
}

// Build returns the deduplicated universe across all configured
// exchanges, ordered by ticker. Per-exchange lists are cached; a company
// appearing on two exchanges keeps its first occurrence.
func (b *Builder) Build(ctx context.Context) ([]contracts.Company, error) {
	exchanges := make([]string, 0, len(b.cfg.Exchanges))
	for name := range b.cfg.Exchanges {
		exchanges = append(exchanges, name)
	}
	sort.Strings(exchanges)

	seen := make(map[string]bool)
	var universe []contracts.Company

	for _, exchange := range exchanges {
		companies, err := b.exchangeCompanies(ctx, exchange, b.cfg.Exchanges[exchange])
		if err != nil {
			return nil, fmt.Errorf("exchange %s: %w", exchange, err)
		}

		for _, c := range companies {
			if c.Ticker == "" || seen[c.Ticker] {
				continue
			}
			seen[c.Ticker] = true
			universe = append(universe, c)
		}
	}

	sort.Slice(universe, func(i, j int) bool {
		return universe[i].Ticker < universe[j].Ticker
	})

	b.logger.WithFields(map[string]interface{}{
		"exchanges": len(exchanges),
		"companies": len(universe),
	}).Info("Built screening universe")

	return universe, nil
}

func (b *Builder) exchangeCompanies(ctx context.Context, exchange string, cfg config.ExchangeConfig) ([]contracts.Company, error) {
	if b.cache != nil {
		var cached []contracts.Company
		hit, err := b.cache.Get(ctx, redis.KindCompanies, exchange, &cached)
		if err != nil {
			b.logger.WithError(err).WithField("exchange", exchange).Warn("Cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	lister := b.euronext
	if cfg.MIC != "" {
		lister = b.nasdaq
	}

	companies, err := lister.FetchCompanies(ctx, exchange, cfg)
	if err != nil {
		return nil, err
	}

	if b.cache != nil && len(companies) > 0 {
		if err := b.cache.Set(ctx, redis.KindCompanies, exchange, companies); err != nil {
			b.logger.WithError(err).WithField("exchange", exchange).Warn("Cache write failed")
		}
	}

	return companies, nil
}
