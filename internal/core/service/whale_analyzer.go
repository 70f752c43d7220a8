package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
)

// Failure stages recorded in ItemFailure.Stage.
const (
	StageAnalyze      = "analyze"
	StageTransactions = "transactions"
	StageBalance      = "balance"
)

// Limits bounds the API cost of analysis and discovery. The defaults are tuned
// for a free-tier explorer key.
type Limits struct {
	AnalyzeTxPage       int
	AnalyzeTransferPage int

	CompareMin int
	CompareMax int

	MovementSeeds   int
	MovementTxPage  int
	MovementResults int

	TopWhaleSeeds          int
	TopWhaleTxPage         int
	TopWhaleCounterparties int
	TopWhaleResults        int
	TopWhaleEdgeValue      decimal.Decimal

	ExchangeSeeds   int
	ExchangeTxPage  int
	ExchangeResults int

	// Delays inserted between consecutive data-source calls of a loop.
	ComparePacing   time.Duration
	DiscoveryPacing time.Duration
	BalancePacing   time.Duration
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{
		AnalyzeTxPage:       100,
		AnalyzeTransferPage: 50,

		CompareMin: 2,
		CompareMax: 10,

		MovementSeeds:   10,
		MovementTxPage:  20,
		MovementResults: 50,

		TopWhaleSeeds:          5,
		TopWhaleTxPage:         50,
		TopWhaleCounterparties: 30,
		TopWhaleResults:        20,
		TopWhaleEdgeValue:      decimal.NewFromInt(50),

		ExchangeSeeds:   5,
		ExchangeTxPage:  30,
		ExchangeResults: 30,

		ComparePacing:   200 * time.Millisecond,
		DiscoveryPacing: 300 * time.Millisecond,
		BalancePacing:   200 * time.Millisecond,
	}
}

// WhaleAnalyzer runs whale analysis and discovery for a single chain.
type WhaleAnalyzer struct {
	chain    string
	source   domain.ChainDataSource
	entities domain.KnownEntities
	limits   Limits
	metrics  *MetricsComputer
	log      *logger.Logger
}

// NewWhaleAnalyzer wires an analyzer. A nil clock means time.Now and a nil
// logger means the global one.
func NewWhaleAnalyzer(
	chain string,
	source domain.ChainDataSource,
	entities domain.KnownEntities,
	limits Limits,
	log *logger.Logger,
	now func() time.Time,
) *WhaleAnalyzer {
	if log == nil {
		log = logger.Get()
	}
	return &WhaleAnalyzer{
		chain:    chain,
		source:   source,
		entities: entities,
		limits:   limits,
		metrics:  NewMetricsComputer(now),
		log:      log.With("component", "whale_analyzer", "chain", chain),
	}
}

// Chain returns the chain this analyzer is bound to.
func (a *WhaleAnalyzer) Chain() string {
	return a.chain
}

// NativeSymbol returns the ticker of the chain's base currency.
func (a *WhaleAnalyzer) NativeSymbol() string {
	return a.source.NativeSymbol()
}

// AnalyzeAddress builds the full metrics snapshot of one address.
// Any data-source failure aborts the analysis.
func (a *WhaleAnalyzer) AnalyzeAddress(ctx context.Context, address string) (*domain.WhaleMetrics, error) {
	address = domain.NormalizeAddress(address)

	// 1. Balance and tier
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	balance, err := a.source.GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("get balance of %s: %w", address, err)
	}

	result := &domain.WhaleMetrics{
		Address:             address,
		Balance:             balance,
		Tier:                ClassifyTier(balance),
		AvgTransactionValue: decimal.Zero,
		MaxTransactionValue: decimal.Zero,
		Chain:               a.chain,
	}
	a.annotate(address, &result.Label, &result.Exchange)

	// 2. Recent transactions
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	txs, err := a.source.GetTransactions(ctx, address, 1, a.limits.AnalyzeTxPage)
	if err != nil {
		return nil, fmt.Errorf("get transactions of %s: %w", address, err)
	}
	if len(txs) == 0 {
		return result, nil
	}

	// 3. Statistics over the fetched page
	stats := a.metrics.Stats(txs)
	result.TotalTransactions = stats.Total
	result.LargeTransactions = stats.Large
	result.AvgTransactionValue = stats.Average
	result.MaxTransactionValue = stats.Max
	result.FirstSeen = stats.First
	result.LastActivity = stats.Last

	// 4. Scores
	result.ActivityScore = a.metrics.ActivityScore(txs)
	result.RiskScore, result.RiskFactors = a.metrics.RiskScore(address, balance, txs, a.entities.KnownWhales(a.chain))

	// 5. Token diversity
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	transfers, err := a.source.GetTokenTransfers(ctx, address, 1, a.limits.AnalyzeTransferPage)
	if err != nil {
		return nil, fmt.Errorf("get token transfers of %s: %w", address, err)
	}
	result.TokenDiversity = a.metrics.TokenDiversity(transfers)

	return result, nil
}

// ClassifyAddress performs a balance-only tier lookup.
func (a *WhaleAnalyzer) ClassifyAddress(ctx context.Context, address string) (*domain.Classification, error) {
	address = domain.NormalizeAddress(address)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	balance, err := a.source.GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("get balance of %s: %w", address, err)
	}

	label, _ := a.entities.KnownWhales(a.chain).Lookup(address)
	return &domain.Classification{
		Address: address,
		Balance: balance,
		Tier:    ClassifyTier(balance),
		Label:   label,
		Chain:   a.chain,
	}, nil
}

// CompareAddresses analyzes each address in turn and orders the successes by
// balance, largest first. Addresses that fail are reported, not fatal.
func (a *WhaleAnalyzer) CompareAddresses(ctx context.Context, addresses []string) ([]domain.WhaleMetrics, []domain.ItemFailure, error) {
	if len(addresses) < a.limits.CompareMin || len(addresses) > a.limits.CompareMax {
		return nil, nil, fmt.Errorf("%w: comparison needs %d to %d addresses, got %d",
			domain.ErrInvalidInput, a.limits.CompareMin, a.limits.CompareMax, len(addresses))
	}

	var results []domain.WhaleMetrics
	var failures []domain.ItemFailure

	for i, address := range addresses {
		if err := step(ctx, i, a.limits.ComparePacing); err != nil {
			return nil, nil, err
		}

		m, err := a.AnalyzeAddress(ctx, address)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			a.log.Warnw("Skipping address in comparison", "address", address, "error", err)
			failures = append(failures, domain.NewItemFailure(address, StageAnalyze, err))
			continue
		}
		results = append(results, *m)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Balance.GreaterThan(results[j].Balance)
	})

	return results, failures, nil
}

// DiscoverWhaleMovements scans the recent transactions of known whales and
// exchanges for transfers worth at least minValue.
func (a *WhaleAnalyzer) DiscoverWhaleMovements(ctx context.Context, minValue decimal.Decimal) ([]domain.WhaleMovement, []domain.ItemFailure, error) {
	whales := a.entities.KnownWhales(a.chain)
	exchanges := a.entities.ExchangeAddresses(a.chain)
	seeds := firstN(dedupe(append(whales.Addresses(), exchanges.Addresses()...)), a.limits.MovementSeeds)

	var movements []domain.WhaleMovement
	var failures []domain.ItemFailure

	for i, seed := range seeds {
		if err := step(ctx, i, a.limits.DiscoveryPacing); err != nil {
			return nil, nil, err
		}

		txs, err := a.source.GetTransactions(ctx, seed, 1, a.limits.MovementTxPage)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			a.log.Debugw("Skipping seed in movement discovery", "address", seed, "error", err)
			failures = append(failures, domain.NewItemFailure(seed, StageTransactions, err))
			continue
		}

		for _, tx := range txs {
			if tx.Value.LessThan(minValue) {
				continue
			}

			// Endpoints are classified fresh on every movement.
			fromTier, err := a.lookupTier(ctx, tx.From, &failures)
			if err != nil {
				return nil, nil, err
			}
			toTier, err := a.lookupTier(ctx, tx.To, &failures)
			if err != nil {
				return nil, nil, err
			}

			mv := domain.WhaleMovement{
				Hash:         tx.Hash,
				From:         domain.NormalizeAddress(tx.From),
				To:           domain.NormalizeAddress(tx.To),
				Value:        tx.Value,
				Timestamp:    tx.Timestamp,
				BlockNumber:  tx.BlockNumber,
				FromTier:     fromTier,
				ToTier:       toTier,
				Significance: MovementSignificance(tx.Value),
				Chain:        a.chain,
			}
			mv.FromLabel, _ = whales.Lookup(tx.From)
			mv.ToLabel, _ = whales.Lookup(tx.To)
			mv.FromExchange, _ = exchanges.Lookup(tx.From)
			mv.ToExchange, _ = exchanges.Lookup(tx.To)

			switch {
			case mv.ToExchange != "":
				mv.MovementType = domain.MovementDeposit
			case mv.FromExchange != "":
				mv.MovementType = domain.MovementWithdrawal
			default:
				mv.MovementType = domain.MovementUnclassified
			}

			movements = append(movements, mv)
		}
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Value.GreaterThan(movements[j].Value)
	})

	return firstN(movements, a.limits.MovementResults), failures, nil
}

// DiscoverTopWhales walks the counterparties of large transactions made by
// known whales and keeps those holding at least minBalance.
func (a *WhaleAnalyzer) DiscoverTopWhales(ctx context.Context, minBalance decimal.Decimal) ([]domain.DiscoveredWhale, []domain.ItemFailure, error) {
	whales := a.entities.KnownWhales(a.chain)
	exchanges := a.entities.ExchangeAddresses(a.chain)
	seeds := firstN(whales.Addresses(), a.limits.TopWhaleSeeds)

	var failures []domain.ItemFailure

	// Phase 1: collect counterparties in first-seen order.
	var discovered []string
	seen := make(map[string]struct{})
	for i, seed := range seeds {
		if err := step(ctx, i, a.limits.DiscoveryPacing); err != nil {
			return nil, nil, err
		}

		txs, err := a.source.GetTransactions(ctx, seed, 1, a.limits.TopWhaleTxPage)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			a.log.Debugw("Skipping seed in whale discovery", "address", seed, "error", err)
			failures = append(failures, domain.NewItemFailure(seed, StageTransactions, err))
			continue
		}

		for _, tx := range txs {
			if tx.Value.LessThan(a.limits.TopWhaleEdgeValue) {
				continue
			}
			for _, addr := range []string{tx.From, tx.To} {
				addr = domain.NormalizeAddress(addr)
				if addr == "" {
					continue
				}
				if _, ok := seen[addr]; ok {
					continue
				}
				seen[addr] = struct{}{}
				discovered = append(discovered, addr)
			}
		}
	}
	discovered = firstN(discovered, a.limits.TopWhaleCounterparties)

	// Phase 2: balance check of each counterparty.
	var found []domain.DiscoveredWhale
	for i, addr := range discovered {
		if err := step(ctx, i, a.limits.BalancePacing); err != nil {
			return nil, nil, err
		}

		balance, err := a.source.GetBalance(ctx, addr)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			a.log.Debugw("Skipping discovered address", "address", addr, "error", err)
			failures = append(failures, domain.NewItemFailure(addr, StageBalance, err))
			continue
		}
		if balance.LessThan(minBalance) {
			continue
		}

		w := domain.DiscoveredWhale{
			Address:         addr,
			Balance:         balance,
			Tier:            ClassifyTier(balance),
			DiscoveryMethod: domain.DiscoveryTransactionAnalysis,
			Chain:           a.chain,
		}
		w.Label, _ = whales.Lookup(addr)
		w.Exchange, _ = exchanges.Lookup(addr)
		found = append(found, w)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Balance.GreaterThan(found[j].Balance)
	})

	return firstN(found, a.limits.TopWhaleResults), failures, nil
}

// TrackExchangeWhales lists large deposits to and withdrawals from known
// exchanges, worth at least minAmount.
func (a *WhaleAnalyzer) TrackExchangeWhales(ctx context.Context, minAmount decimal.Decimal) ([]domain.ExchangeMovement, []domain.ItemFailure, error) {
	whales := a.entities.KnownWhales(a.chain)
	exchanges := firstN(a.entities.ExchangeAddresses(a.chain), a.limits.ExchangeSeeds)

	var movements []domain.ExchangeMovement
	var failures []domain.ItemFailure

	for i, exchange := range exchanges {
		if err := step(ctx, i, a.limits.DiscoveryPacing); err != nil {
			return nil, nil, err
		}

		exchangeAddr := domain.NormalizeAddress(exchange.Address)
		txs, err := a.source.GetTransactions(ctx, exchangeAddr, 1, a.limits.ExchangeTxPage)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			a.log.Debugw("Skipping exchange", "exchange", exchange.Label, "address", exchangeAddr, "error", err)
			failures = append(failures, domain.NewItemFailure(exchangeAddr, StageTransactions, err))
			continue
		}

		for _, tx := range txs {
			if tx.Value.LessThan(minAmount) {
				continue
			}

			movementType := domain.MovementWithdrawal
			counterparty := domain.NormalizeAddress(tx.To)
			if domain.NormalizeAddress(tx.To) == exchangeAddr {
				movementType = domain.MovementDeposit
				counterparty = domain.NormalizeAddress(tx.From)
			}

			tier, err := a.lookupTier(ctx, counterparty, &failures)
			if err != nil {
				return nil, nil, err
			}

			mv := domain.ExchangeMovement{
				Hash:             tx.Hash,
				Exchange:         exchange.Label,
				ExchangeAddress:  exchangeAddr,
				Counterparty:     counterparty,
				MovementType:     movementType,
				Value:            tx.Value,
				CounterpartyTier: tier,
				Significance:     MovementSignificance(tx.Value),
				Timestamp:        tx.Timestamp,
				BlockNumber:      tx.BlockNumber,
				Chain:            a.chain,
			}
			mv.CounterpartyLabel, _ = whales.Lookup(counterparty)
			movements = append(movements, mv)
		}
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Value.GreaterThan(movements[j].Value)
	})

	return firstN(movements, a.limits.ExchangeResults), failures, nil
}

// SummarizeExchangeFlow nets withdrawals against deposits. A positive net flow
// means coins are leaving exchanges.
func SummarizeExchangeFlow(movements []domain.ExchangeMovement) domain.ExchangeFlowSummary {
	summary := domain.ExchangeFlowSummary{
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
	}

	active := make(map[string]struct{})
	for _, m := range movements {
		active[m.Exchange] = struct{}{}
		switch m.MovementType {
		case domain.MovementDeposit:
			summary.TotalDeposits = summary.TotalDeposits.Add(m.Value)
			summary.DepositCount++
		case domain.MovementWithdrawal:
			summary.TotalWithdrawals = summary.TotalWithdrawals.Add(m.Value)
			summary.WithdrawalCount++
		}
	}

	summary.NetFlow = summary.TotalWithdrawals.Sub(summary.TotalDeposits)
	summary.ActiveExchanges = len(active)

	switch summary.NetFlow.Sign() {
	case 1:
		summary.Direction = domain.FlowAccumulation
	case -1:
		summary.Direction = domain.FlowDistribution
	default:
		summary.Direction = domain.FlowBalanced
	}

	return summary
}

// lookupTier classifies address by a fresh balance lookup. A failed lookup
// yields TierUnknown and is recorded; only cancellation is returned.
func (a *WhaleAnalyzer) lookupTier(ctx context.Context, address string, failures *[]domain.ItemFailure) (domain.WhaleTier, error) {
	if err := ctx.Err(); err != nil {
		return domain.TierUnknown, err
	}
	if address == "" {
		return domain.TierUnknown, nil
	}

	balance, err := a.source.GetBalance(ctx, address)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.TierUnknown, ctxErr
		}
		a.log.Debugw("Could not classify address", "address", address, "error", err)
		*failures = append(*failures, domain.NewItemFailure(domain.NormalizeAddress(address), StageBalance, err))
		return domain.TierUnknown, nil
	}
	return ClassifyTier(balance), nil
}

func (a *WhaleAnalyzer) annotate(address string, label, exchange *string) {
	*label, _ = a.entities.KnownWhales(a.chain).Lookup(address)
	*exchange, _ = a.entities.ExchangeAddresses(a.chain).Lookup(address)
}

// step is the checkpoint before the i-th data-source call of a loop. Every
// call after the first is preceded by a pacing delay.
func step(ctx context.Context, i int, d time.Duration) error {
	if i == 0 {
		return ctx.Err()
	}
	return pace(ctx, d)
}

// pace waits d or until ctx is done.
func pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func firstN[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func dedupe(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}
