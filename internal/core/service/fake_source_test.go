package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
)

// fakeSource is an in-memory ChainDataSource keyed by lowercase address.
type fakeSource struct {
	mu sync.Mutex

	balances  map[string]decimal.Decimal
	txs       map[string][]domain.Transaction
	transfers map[string][]domain.TokenTransfer

	balanceErr map[string]error
	txErr      map[string]error

	calls []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		balances:   make(map[string]decimal.Decimal),
		txs:        make(map[string][]domain.Transaction),
		transfers:  make(map[string][]domain.TokenTransfer),
		balanceErr: make(map[string]error),
		txErr:      make(map[string]error),
	}
}

func (f *fakeSource) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSource) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	f.record("balance:" + address)
	if err := ctx.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrDataSource, err)
	}
	if err, ok := f.balanceErr[address]; ok {
		return decimal.Zero, err
	}
	return f.balances[address], nil
}

func (f *fakeSource) GetTransactions(ctx context.Context, address string, page, pageSize int) ([]domain.Transaction, error) {
	f.record("txs:" + address)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataSource, err)
	}
	if err, ok := f.txErr[address]; ok {
		return nil, err
	}
	txs := f.txs[address]
	if len(txs) > pageSize {
		txs = txs[:pageSize]
	}
	return txs, nil
}

func (f *fakeSource) GetTokenTransfers(ctx context.Context, address string, page, pageSize int) ([]domain.TokenTransfer, error) {
	f.record("tokens:" + address)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataSource, err)
	}
	return f.transfers[address], nil
}

func (f *fakeSource) NativeSymbol() string { return "ETH" }

type fakeEntities struct {
	whales    domain.LabelTable
	exchanges domain.LabelTable
}

func (e fakeEntities) KnownWhales(string) domain.LabelTable       { return e.whales }
func (e fakeEntities) ExchangeAddresses(string) domain.LabelTable { return e.exchanges }

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func noPacing() Limits {
	l := DefaultLimits()
	l.ComparePacing = 0
	l.DiscoveryPacing = 0
	l.BalancePacing = 0
	return l
}

func addr(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

func tx(hash, from, to string, value int64, age time.Duration) domain.Transaction {
	return domain.Transaction{
		Hash:      hash,
		From:      from,
		To:        to,
		Value:     decimal.NewFromInt(value),
		Timestamp: testNow.Add(-age),
	}
}

const day = 24 * time.Hour
