package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"screener/config"
	"screener/internal/cache"
	"screener/internal/logger"
	"screener/internal/repository"
	"screener/internal/seed"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func main() {
	var (
		file    string
		tries   uint
		backoff time.Duration
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load the screener, domain mappings and assessment criteria into the store",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), file, tries, backoff)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed/default.yaml", "seed YAML file")
	cmd.Flags().UintVar(&tries, "tries", 3, "attempts per upsert")
	cmd.Flags().DurationVar(&backoff, "backoff", 2*time.Second, "delay before the first retry, doubled each time")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, file string, tries uint, delay time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewStructured(cfg.Logging.Level, "console")
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := seed.LoadFile(file)
	if err != nil {
		return err
	}

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	var invalidators []seed.Invalidator
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		refCache := cache.NewReferenceCache(rdb, cfg.Reference.CacheTTL)
		screenerCache := cache.NewScreenerCache(rdb, cfg.Screener.CacheTTL)
		invalidators = append(invalidators, refCache.Invalidate)
		if data.Screener != nil {
			id := data.Screener.ID
			invalidators = append(invalidators, func(ctx context.Context) error {
				return screenerCache.Delete(ctx, id)
			})
		}
	}

	log.Info("Seeding", map[string]interface{}{"file": file, "driver": cfg.Store.Driver})
	return seed.NewSeeder(store, log, tries, delay).Apply(ctx, data, invalidators...)
}
