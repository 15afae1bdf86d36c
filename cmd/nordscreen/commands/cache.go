package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nordvik/nordscreen/pkg/config"
	"github.com/nordvik/nordscreen/pkg/logger"
	"github.com/nordvik/nordscreen/pkg/redis"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the data cache",
}

// cacheClearCmd represents the cache clear command
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached company listings and financials",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	if !redisClient.Enabled() {
		fmt.Println("Redis is disabled, nothing to clear")
		return nil
	}

	cache := redis.NewCache(redisClient, cachePrefix, cfg.CacheTTL)
	if err := cache.Clear(context.Background()); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	log.Info("Cache cleared")
	fmt.Println("Cache cleared")
	return nil
}
