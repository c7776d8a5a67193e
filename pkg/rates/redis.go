package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RedisProvider resolves rates from string keys "<prefix><PRODUCT>" in Redis,
// which an external rate feed keeps up to date. Missing keys fall back to a
// static provider when one is configured.
type RedisProvider struct {
	client    redis.Cmdable
	keyPrefix string
	fallback  Provider
	logger    *zap.Logger
}

// NewRedisProvider creates a provider on top of an existing client.
func NewRedisProvider(logger *zap.Logger, client redis.Cmdable, keyPrefix string, fallback Provider) *RedisProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keyPrefix == "" {
		keyPrefix = constants.DefaultRedisKeyPrefix
	}
	return &RedisProvider{
		client:    client,
		keyPrefix: keyPrefix,
		fallback:  fallback,
		logger:    logger,
	}
}

// Key returns the Redis key holding the rate for product.
func (p *RedisProvider) Key(product Product) string {
	return p.keyPrefix + string(product)
}

// ResolveRate implements Provider.
func (p *RedisProvider) ResolveRate(ctx context.Context, product Product) (decimal.Decimal, error) {
	value, err := p.client.Get(ctx, p.Key(product)).Result()
	if errors.Is(err, redis.Nil) {
		if p.fallback == nil {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrRateNotFound, product)
		}
		p.logger.Debug(fmt.Sprintf("no live rate for %s, using fallback", product),
			zap.String("op", "rates.ResolveRate"),
		)
		return p.fallback.ResolveRate(ctx, product)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read rate for %s: %w", product, err)
	}

	rate, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q stored for %s: %w", value, product, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative rate %s stored for %s", rate, product)
	}
	return rate, nil
}

// Publish writes every rate of table to Redis in a single pipeline.
func (p *RedisProvider) Publish(ctx context.Context, table Table) error {
	if err := table.Validate(); err != nil {
		return err
	}

	pipe := p.client.Pipeline()
	for product, rate := range table {
		pipe.Set(ctx, p.Key(product), rate.String(), 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish rates: %w", err)
	}

	p.logger.Info("published rate table",
		zap.String("op", "rates.Publish"),
		zap.Int("products", len(table)),
	)
	return nil
}

// Ping checks connectivity to the Redis server.
func (p *RedisProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
