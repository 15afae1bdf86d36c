package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nordvik/nordscreen/internal/external/euronext"
	"github.com/nordvik/nordscreen/internal/external/nasdaq"
	"github.com/nordvik/nordscreen/internal/universe"
	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/httputil"
	"github.com/nordvik/nordscreen/pkg/logger"
	"github.com/nordvik/nordscreen/pkg/redis"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Build and print the screening universe",
	Long: `Fetches the listed companies for every configured exchange
and prints the deduplicated universe without running any screening.

Example:
  go run ./cmd/nordscreen universe
  go run ./cmd/nordscreen universe --refresh`,
	RunE: runUniverse,
}

var universeRefresh bool

func init() {
	rootCmd.AddCommand(universeCmd)

	universeCmd.Flags().BoolVar(&universeRefresh, "refresh", false, "bypass the cache and refetch the listings")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, cachePrefix, cfg.CacheTTL).WithBypass(universeRefresh)
	httpClient := httputil.New(log)

	builder := universe.NewBuilder(
		euronext.NewClient(httpClient, log),
		nasdaq.NewClient(httpClient, log),
		cache, cfg, log,
	)

	companies, err := builder.Build(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("%-14s %-32s %s\n", "Ticker", "Name", "Exchange")
	for _, c := range companies {
		fmt.Printf("%-14s %-32s %s\n", c.Ticker, clip(c.Name, 32), c.Exchange)
	}
	fmt.Printf("\nTotal: %d companies\n", len(companies))

	return nil
}
