package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/adapters/chain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/service"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
)

type rangeCall struct {
	address    string
	start, end uint64
	page, size int
}

// fakeExplorer serves canned data keyed by lowercase address.
type fakeExplorer struct {
	mu sync.Mutex

	balances   map[string]decimal.Decimal
	txs        map[string][]domain.Transaction
	balanceErr error

	ranges    []rangeCall
	contracts []string
}

func newFakeExplorer() *fakeExplorer {
	return &fakeExplorer{
		balances: make(map[string]decimal.Decimal),
		txs:      make(map[string][]domain.Transaction),
	}
}

func (f *fakeExplorer) GetBalance(_ context.Context, address string) (decimal.Decimal, error) {
	if f.balanceErr != nil {
		return decimal.Zero, f.balanceErr
	}
	return f.balances[address], nil
}

func (f *fakeExplorer) GetTransactions(_ context.Context, address string, _, _ int) ([]domain.Transaction, error) {
	return f.txs[address], nil
}

func (f *fakeExplorer) GetTokenTransfers(context.Context, string, int, int) ([]domain.TokenTransfer, error) {
	return nil, nil
}

func (f *fakeExplorer) NativeSymbol() string { return "ETH" }

func (f *fakeExplorer) GetTransactionsInRange(_ context.Context, address string, start, end uint64, page, size int) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges = append(f.ranges, rangeCall{address, start, end, page, size})
	return f.txs[address], nil
}

func (f *fakeExplorer) GetTokenTransfersFor(_ context.Context, _, contract string, _, _ int) ([]domain.TokenTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contracts = append(f.contracts, contract)
	return []domain.TokenTransfer{{Hash: "0xt", TokenSymbol: "USDT", Value: decimal.NewFromInt(5)}}, nil
}

func (f *fakeExplorer) GetContractABI(context.Context, string) (string, error) {
	return `[{"type":"function","name":"balanceOf","stateMutability":"view",` +
		`"inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},` +
		`{"type":"event","name":"Transfer","anonymous":false,"inputs":[` +
		`{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},` +
		`{"name":"value","type":"uint256","indexed":false}]}]`, nil
}

func (f *fakeExplorer) GetGasPrices(context.Context) (*domain.GasPrices, error) {
	return &domain.GasPrices{Safe: "1", Standard: "2", Fast: "3"}, nil
}

type fakePricer struct{}

func (fakePricer) GetNativePrice(context.Context) (*domain.NativePrice, error) {
	return &domain.NativePrice{USD: decimal.RequireFromString("3000.5"), BTC: decimal.RequireFromString("0.05")}, nil
}

type fakeEntities struct {
	whales    domain.LabelTable
	exchanges domain.LabelTable
}

func (e fakeEntities) KnownWhales(string) domain.LabelTable       { return e.whales }
func (e fakeEntities) ExchangeAddresses(string) domain.LabelTable { return e.exchanges }

func addr(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

func testLimits() service.Limits {
	l := service.DefaultLimits()
	l.ComparePacing = 0
	l.DiscoveryPacing = 0
	l.BalancePacing = 0
	return l
}

// newTestKit builds a registry whose every chain shares one fake explorer.
func newTestKit(explorer *fakeExplorer, entities fakeEntities) (*Registry, *int) {
	builds := 0
	limits := testLimits()
	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	kit := NewToolkit(func(cfg chain.ChainConfig) (*ChainServices, error) {
		builds++
		return &ChainServices{
			Config:   cfg,
			Explorer: explorer,
			Analyzer: service.NewWhaleAnalyzer(cfg.Key, explorer, entities, limits, logger.Nop(), now),
			Price:    fakePricer{},
		}, nil
	}, func(cfg chain.ChainConfig) bool { return cfg.Key == "ethereum" }, limits)

	reg := NewRegistry()
	RegisterAll(reg, kit)
	return reg, &builds
}
