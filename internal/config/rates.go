package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/iwvelando/hypothekenrechner/pkg/rates"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateProvider builds the configured rate provider. The returned close
// function releases any connection and is never nil.
func (c *Configuration) RateProvider(ctx context.Context, logger *zap.Logger) (rates.Provider, func() error, error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = zap.NewNop()
	}

	table, err := c.RateTable()
	if err != nil {
		return nil, noop, err
	}

	source := strings.ToLower(c.Rates.Source)
	switch source {
	case "", constants.RateSourceStatic:
		logger.Debug("using static rate table",
			zap.String("op", "config.RateProvider"),
		)
		return table, noop, nil
	case constants.RateSourceRedis:
	default:
		return nil, noop, fmt.Errorf("unknown rate source %q", c.Rates.Source)
	}

	if c.Rates.Redis.Address == "" {
		return nil, noop, fmt.Errorf("rates.redis.address is required for the redis rate source")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.Rates.Redis.Address,
		Password: c.Rates.Redis.Password,
		DB:       c.Rates.Redis.DB,
	})
	provider := rates.NewRedisProvider(logger, client, c.Rates.Redis.KeyPrefix, table)
	if err := provider.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, noop, fmt.Errorf("failed to connect to rate store at %s: %w", c.Rates.Redis.Address, err)
	}

	logger.Info("connected to rate store",
		zap.String("op", "config.RateProvider"),
		zap.String("address", c.Rates.Redis.Address),
	)
	return provider, client.Close, nil
}
