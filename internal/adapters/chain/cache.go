package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
)

// ErrCacheMiss is returned by a BalanceStore that holds no value for a key.
var ErrCacheMiss = errors.New("cache miss")

// BalanceStore is a short-lived key/value store for balances.
type BalanceStore interface {
	GetBalance(ctx context.Context, key string) (decimal.Decimal, error)
	SetBalance(ctx context.Context, key string, balance decimal.Decimal, ttl time.Duration) error
}

// RedisBalanceStore keeps balances in Redis as decimal strings.
type RedisBalanceStore struct {
	rdb *redis.Client
}

// NewRedisBalanceStore connects to Redis and verifies the connection.
func NewRedisBalanceStore(ctx context.Context, addr, password string, db int) (*RedisBalanceStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return &RedisBalanceStore{rdb: rdb}, nil
}

// NewRedisBalanceStoreFromClient wraps an existing client.
func NewRedisBalanceStoreFromClient(rdb *redis.Client) *RedisBalanceStore {
	return &RedisBalanceStore{rdb: rdb}
}

// GetBalance implements BalanceStore.
func (s *RedisBalanceStore) GetBalance(ctx context.Context, key string) (decimal.Decimal, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, ErrCacheMiss
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(val)
}

// SetBalance implements BalanceStore.
func (s *RedisBalanceStore) SetBalance(ctx context.Context, key string, balance decimal.Decimal, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, balance.String(), ttl).Err()
}

// Close closes the Redis connection.
func (s *RedisBalanceStore) Close() error {
	return s.rdb.Close()
}

// CachedDataSource memoizes balance lookups of a ChainDataSource for a short
// TTL. Transactions and transfers always go to the source. Store failures
// fall back to the source.
type CachedDataSource struct {
	domain.ChainDataSource

	chain string
	store BalanceStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedDataSource decorates source with store.
func NewCachedDataSource(chain string, source domain.ChainDataSource, store BalanceStore, ttl time.Duration, log *logger.Logger) *CachedDataSource {
	if log == nil {
		log = logger.Get()
	}
	return &CachedDataSource{
		ChainDataSource: source,
		chain:           chain,
		store:           store,
		ttl:             ttl,
		log:             log.With("component", "balance_cache", "chain", chain),
	}
}

// GetBalance serves from the store when possible.
func (c *CachedDataSource) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	key := BalanceKey(c.chain, address)

	cached, err := c.store.GetBalance(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Debugw("Balance cache read failed", "key", key, "error", err)
	}

	balance, err := c.ChainDataSource.GetBalance(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}

	if err := c.store.SetBalance(ctx, key, balance, c.ttl); err != nil {
		c.log.Debugw("Balance cache write failed", "key", key, "error", err)
	}
	return balance, nil
}

// BalanceKey is the cache key of an address balance.
func BalanceKey(chain, address string) string {
	return "whale:balance:" + chain + ":" + domain.NormalizeAddress(address)
}
