package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stretchwarp/internal/server"
	"github.com/matzehuels/stretchwarp/pkg/cache"
	"github.com/matzehuels/stretchwarp/pkg/pipeline"
)

// Environment variables read by serve when the matching flag is unset.
const (
	envRedisURL = "STRETCHWARP_REDIS_URL"
	envMongoURI = "STRETCHWARP_MONGO_URI"
)

const backendConnectTimeout = 10 * time.Second

type serveFlags struct {
	addr     string
	redisURL string
	mongoURI string
	mongoDB  string
	fastTTL  time.Duration
	noCache  bool
	timeout  time.Duration
	maxBody  int64
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Warps and renders are cached in Redis, MongoDB, or both. With both, Redis
is the fast tier in front of MongoDB. Without either, the local file cache
is used. Connection strings may also come from ` + envRedisURL + ` and
` + envMongoURI + `.`,
		Example: `  stretchwarp serve --addr :8080
  stretchwarp serve --redis-url redis://localhost:6379/0 --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.redisURL == "" {
				flags.redisURL = os.Getenv(envRedisURL)
			}
			if flags.mongoURI == "" {
				flags.mongoURI = os.Getenv(envMongoURI)
			}
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&flags.redisURL, "redis-url", "", "Redis URL for the fast cache tier")
	cmd.Flags().StringVar(&flags.mongoURI, "mongo-uri", "", "MongoDB URI for the durable cache tier")
	cmd.Flags().StringVar(&flags.mongoDB, "mongo-db", cache.DefaultMongoDatabase, "MongoDB database name")
	cmd.Flags().DurationVar(&flags.fastTTL, "fast-ttl", cache.DefaultFastTTL, "how long entries stay in the fast tier")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	cmd.Flags().Int64Var(&flags.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	store, err := c.serveCache(ctx, flags)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	srv := server.New(runner, c.Logger,
		server.WithRequestTimeout(flags.timeout),
		server.WithMaxBodyBytes(flags.maxBody))
	return srv.ListenAndServe(ctx, flags.addr)
}

// serveCache picks the cache backend from the flags.
func (c *CLI) serveCache(ctx context.Context, flags serveFlags) (cache.Cache, error) {
	if flags.noCache {
		c.Logger.Info("cache disabled")
		return cache.NewNullCache(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, backendConnectTimeout)
	defer cancel()

	var fast, durable cache.Cache
	if flags.redisURL != "" {
		err := cache.Retry(connectCtx, cache.DefaultConnectAttempts, cache.DefaultConnectDelay, func() error {
			rc, err := cache.NewRedisCache(connectCtx, flags.redisURL)
			if err != nil {
				c.Logger.Debug("redis connect failed", "err", err)
				return err
			}
			fast = rc
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
	}
	if flags.mongoURI != "" {
		err := cache.Retry(connectCtx, cache.DefaultConnectAttempts, cache.DefaultConnectDelay, func() error {
			mc, err := cache.NewMongoCache(connectCtx, flags.mongoURI, flags.mongoDB, cache.DefaultMongoCollection)
			if err != nil {
				c.Logger.Debug("mongodb connect failed", "err", err)
				return err
			}
			durable = mc
			return nil
		})
		if err != nil {
			if fast != nil {
				fast.Close()
			}
			return nil, fmt.Errorf("connect mongodb cache: %w", err)
		}
	}

	switch {
	case fast != nil && durable != nil:
		c.Logger.Info("cache", "backend", "tiered", "fast_ttl", flags.fastTTL)
		return cache.NewTieredCache(fast, durable, flags.fastTTL), nil
	case fast != nil:
		c.Logger.Info("cache", "backend", "redis")
		return fast, nil
	case durable != nil:
		c.Logger.Info("cache", "backend", "mongodb")
		return durable, nil
	}

	store, err := newCache(false)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("cache", "backend", "file")
	return store, nil
}
