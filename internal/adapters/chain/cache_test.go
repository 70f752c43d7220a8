package chain

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
)

type memoryStore struct {
	mu      sync.Mutex
	values  map[string]decimal.Decimal
	failGet bool
}

func (s *memoryStore) GetBalance(_ context.Context, key string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return decimal.Zero, errors.New("connection refused")
	}
	v, ok := s.values[key]
	if !ok {
		return decimal.Zero, ErrCacheMiss
	}
	return v, nil
}

func (s *memoryStore) SetBalance(_ context.Context, key string, balance decimal.Decimal, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = balance
	return nil
}

type countingSource struct {
	balance decimal.Decimal
	err     error
	calls   int
}

func (s *countingSource) GetBalance(context.Context, string) (decimal.Decimal, error) {
	s.calls++
	return s.balance, s.err
}

func (s *countingSource) GetTransactions(context.Context, string, int, int) ([]domain.Transaction, error) {
	return nil, nil
}

func (s *countingSource) GetTokenTransfers(context.Context, string, int, int) ([]domain.TokenTransfer, error) {
	return nil, nil
}

func (s *countingSource) NativeSymbol() string { return "ETH" }

func TestCachedDataSource(t *testing.T) {
	t.Run("second lookup is served from the store", func(t *testing.T) {
		src := &countingSource{balance: decimal.NewFromInt(42)}
		store := &memoryStore{values: map[string]decimal.Decimal{}}
		c := NewCachedDataSource("ethereum", src, store, time.Minute, logger.Nop())

		for i := 0; i < 3; i++ {
			b, err := c.GetBalance(context.Background(), "0xABC")
			require.NoError(t, err)
			assert.True(t, b.Equal(decimal.NewFromInt(42)))
		}
		assert.Equal(t, 1, src.calls)
		assert.Contains(t, store.values, "whale:balance:ethereum:0xabc")
		assert.Equal(t, "ETH", c.NativeSymbol())
	})

	t.Run("store failure falls through", func(t *testing.T) {
		src := &countingSource{balance: decimal.NewFromInt(7)}
		store := &memoryStore{values: map[string]decimal.Decimal{}, failGet: true}
		c := NewCachedDataSource("bsc", src, store, time.Minute, logger.Nop())

		b, err := c.GetBalance(context.Background(), "0xabc")
		require.NoError(t, err)
		assert.True(t, b.Equal(decimal.NewFromInt(7)))
		assert.Equal(t, 1, src.calls)
	})

	t.Run("source errors are not cached", func(t *testing.T) {
		src := &countingSource{err: domain.ErrDataSource}
		store := &memoryStore{values: map[string]decimal.Decimal{}}
		c := NewCachedDataSource("ethereum", src, store, time.Minute, logger.Nop())

		_, err := c.GetBalance(context.Background(), "0xabc")
		assert.ErrorIs(t, err, domain.ErrDataSource)
		assert.Empty(t, store.values)
	})
}

// Runs against a live Redis when REDIS_ADDR is set.
func TestRedisBalanceStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	store := NewRedisBalanceStoreFromClient(client)
	key := BalanceKey("ethereum", testAddress)

	_, err := store.GetBalance(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.SetBalance(ctx, key, decimal.RequireFromString("1234.567891"), time.Minute))
	got, err := store.GetBalance(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "1234.567891", got.String())
}
