package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
)

func newTestAnalyzer(src *fakeSource, entities fakeEntities) *WhaleAnalyzer {
	return NewWhaleAnalyzer("ethereum", src, entities, noPacing(), logger.Nop(), fixedClock)
}

func dsErr(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrDataSource, msg)
}

func TestAnalyzeAddress(t *testing.T) {
	t.Run("zero transactions", func(t *testing.T) {
		src := newFakeSource()
		src.balances[addr(1)] = decimal.NewFromInt(5000)
		a := newTestAnalyzer(src, fakeEntities{})

		m, err := a.AnalyzeAddress(context.Background(), addr(1))
		require.NoError(t, err)
		assert.Equal(t, domain.TierLarge, m.Tier)
		assert.Equal(t, 0, m.TotalTransactions)
		assert.Equal(t, 0.0, m.ActivityScore)
		assert.Equal(t, 0.0, m.RiskScore)
		assert.Nil(t, m.FirstSeen)
		assert.Nil(t, m.LastActivity)
		assert.NotContains(t, src.calls, "tokens:"+addr(1))
	})

	t.Run("full analysis", func(t *testing.T) {
		src := newFakeSource()
		whale := addr(1)
		src.balances[whale] = decimal.NewFromInt(20000)
		src.txs[whale] = []domain.Transaction{
			tx("a", whale, addr(2), 200, day),
			tx("b", addr(3), whale, 10, 10*day),
			tx("c", whale, addr(4), 300, 100*day),
		}
		src.transfers[whale] = []domain.TokenTransfer{
			{ContractAddress: addr(100)},
			{ContractAddress: addr(101)},
		}
		entities := fakeEntities{whales: domain.LabelTable{{Address: whale, Label: "Fund"}}}
		a := newTestAnalyzer(src, entities)

		m, err := a.AnalyzeAddress(context.Background(), "0X"+whale[2:])
		require.NoError(t, err)
		assert.Equal(t, whale, m.Address)
		assert.Equal(t, domain.TierMega, m.Tier)
		assert.Equal(t, "Fund", m.Label)
		assert.Equal(t, 3, m.TotalTransactions)
		assert.Equal(t, 2, m.LargeTransactions)
		assert.True(t, m.MaxTransactionValue.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, testNow.Add(-100*day), *m.FirstSeen)
		assert.Equal(t, testNow.Add(-day), *m.LastActivity)
		assert.Equal(t, 10.0, m.ActivityScore)
		// high balance + known whale + large pattern
		assert.Equal(t, 35.0, m.RiskScore)
		assert.Equal(t, 2, m.TokenDiversity)
		assert.Equal(t, "ethereum", m.Chain)
	})

	t.Run("data source failure propagates", func(t *testing.T) {
		src := newFakeSource()
		src.txErr[addr(1)] = dsErr("boom")
		a := newTestAnalyzer(src, fakeEntities{})

		m, err := a.AnalyzeAddress(context.Background(), addr(1))
		assert.Nil(t, m)
		assert.ErrorIs(t, err, domain.ErrDataSource)
	})

	t.Run("cancelled before first call", func(t *testing.T) {
		src := newFakeSource()
		a := newTestAnalyzer(src, fakeEntities{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := a.AnalyzeAddress(ctx, addr(1))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, src.calls)
	})
}

func TestClassifyAddress(t *testing.T) {
	src := newFakeSource()
	src.balances[addr(1)] = decimal.RequireFromString("9999.999999")
	a := newTestAnalyzer(src, fakeEntities{})

	c, err := a.ClassifyAddress(context.Background(), addr(1))
	require.NoError(t, err)
	assert.Equal(t, domain.TierLarge, c.Tier)

	src.balanceErr[addr(2)] = dsErr("rate limited")
	_, err = a.ClassifyAddress(context.Background(), addr(2))
	assert.ErrorIs(t, err, domain.ErrDataSource)
}

func TestCompareAddresses(t *testing.T) {
	t.Run("sorted by balance with stable ties", func(t *testing.T) {
		src := newFakeSource()
		src.balances[addr(1)] = decimal.NewFromInt(10)
		src.balances[addr(2)] = decimal.NewFromInt(500)
		src.balances[addr(3)] = decimal.NewFromInt(10)
		src.balances[addr(4)] = decimal.NewFromInt(900)
		a := newTestAnalyzer(src, fakeEntities{})

		inputs := [][]string{
			{addr(1), addr(2), addr(3), addr(4)},
			{addr(3), addr(4), addr(1), addr(2)},
		}
		wants := [][]string{
			{addr(4), addr(2), addr(1), addr(3)},
			{addr(4), addr(2), addr(3), addr(1)},
		}

		for i, in := range inputs {
			results, failures, err := a.CompareAddresses(context.Background(), in)
			require.NoError(t, err)
			assert.Empty(t, failures)

			var got []string
			for _, r := range results {
				got = append(got, r.Address)
			}
			assert.Equal(t, wants[i], got)
		}
	})

	t.Run("failed address is skipped", func(t *testing.T) {
		src := newFakeSource()
		src.balances[addr(1)] = decimal.NewFromInt(10)
		src.balanceErr[addr(2)] = dsErr("boom")
		a := newTestAnalyzer(src, fakeEntities{})

		results, failures, err := a.CompareAddresses(context.Background(), []string{addr(1), addr(2)})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, addr(1), results[0].Address)
		require.Len(t, failures, 1)
		assert.Equal(t, addr(2), failures[0].Item)
		assert.Equal(t, StageAnalyze, failures[0].Stage)
		assert.True(t, errors.Is(failures[0].Err, domain.ErrDataSource))
	})

	t.Run("address count bounds", func(t *testing.T) {
		a := newTestAnalyzer(newFakeSource(), fakeEntities{})

		_, _, err := a.CompareAddresses(context.Background(), []string{addr(1)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		many := make([]string, 11)
		for i := range many {
			many[i] = addr(i + 1)
		}
		_, _, err = a.CompareAddresses(context.Background(), many)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDiscoverWhaleMovements(t *testing.T) {
	whale := addr(1)
	exchange := addr(2)
	entities := fakeEntities{
		whales:    domain.LabelTable{{Address: whale, Label: "Fund"}},
		exchanges: domain.LabelTable{{Address: exchange, Label: "Binance"}, {Address: whale, Label: "Dup"}},
	}

	t.Run("filters classifies and sorts", func(t *testing.T) {
		src := newFakeSource()
		src.txs[whale] = []domain.Transaction{
			tx("small", whale, addr(9), 10, day),
			tx("deposit", whale, exchange, 700, day),
			tx("big", addr(8), whale, 12000, day),
		}
		src.txs[exchange] = []domain.Transaction{
			tx("withdrawal", exchange, addr(7), 1500, day),
			tx("other", addr(10), addr(11), 900, day),
		}
		src.balances[whale] = decimal.NewFromInt(50000)
		src.balances[addr(8)] = decimal.NewFromInt(150)
		src.balanceErr[addr(7)] = dsErr("boom")
		a := newTestAnalyzer(src, entities)

		movements, failures, err := a.DiscoverWhaleMovements(context.Background(), decimal.NewFromInt(500))
		require.NoError(t, err)
		require.Len(t, movements, 4)

		assert.Equal(t, "big", movements[0].Hash)
		assert.Equal(t, domain.SignificanceMega, movements[0].Significance)
		assert.Equal(t, domain.TierMedium, movements[0].FromTier)
		assert.Equal(t, domain.TierMega, movements[0].ToTier)
		assert.Equal(t, "Fund", movements[0].ToLabel)
		assert.Equal(t, "Dup", movements[0].ToExchange)
		assert.Equal(t, domain.MovementDeposit, movements[0].MovementType)

		assert.Equal(t, "withdrawal", movements[1].Hash)
		assert.Equal(t, domain.MovementWithdrawal, movements[1].MovementType)
		assert.Equal(t, "Binance", movements[1].FromExchange)
		assert.Equal(t, domain.TierUnknown, movements[1].ToTier)

		assert.Equal(t, "other", movements[2].Hash)
		assert.Equal(t, domain.MovementUnclassified, movements[2].MovementType)
		assert.Equal(t, domain.TierShrimp, movements[2].FromTier)

		assert.Equal(t, "deposit", movements[3].Hash)
		assert.Equal(t, domain.MovementDeposit, movements[3].MovementType)
		assert.Equal(t, domain.SignificanceSignificant, movements[3].Significance)

		require.Len(t, failures, 1)
		assert.Equal(t, addr(7), failures[0].Item)
		assert.Equal(t, StageBalance, failures[0].Stage)
	})

	t.Run("seed failure is skipped", func(t *testing.T) {
		src := newFakeSource()
		src.txErr[whale] = dsErr("boom")
		src.txs[exchange] = []domain.Transaction{tx("w", exchange, addr(7), 600, day)}
		a := newTestAnalyzer(src, entities)

		movements, failures, err := a.DiscoverWhaleMovements(context.Background(), decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.Len(t, movements, 1)
		require.Len(t, failures, 1)
		assert.Equal(t, StageTransactions, failures[0].Stage)
	})

	t.Run("results capped at 50", func(t *testing.T) {
		seeds := domain.LabelTable{{Address: addr(11)}, {Address: addr(12)}, {Address: addr(13)}}
		src := newFakeSource()
		for s, seed := range seeds {
			for i := 0; i < 20; i++ {
				v := int64(1000 + s*100 + i)
				src.txs[seed.Address] = append(src.txs[seed.Address], tx(fmt.Sprintf("m%d-%d", s, i), seed.Address, addr(500+s*20+i), v, day))
			}
		}
		a := newTestAnalyzer(src, fakeEntities{whales: seeds})

		movements, failures, err := a.DiscoverWhaleMovements(context.Background(), decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.Empty(t, failures)
		require.Len(t, movements, 50)
		for i := 1; i < len(movements); i++ {
			assert.True(t, movements[i-1].Value.GreaterThanOrEqual(movements[i].Value))
		}
		assert.True(t, movements[0].Value.Equal(decimal.NewFromInt(1219)))
		assert.True(t, movements[49].Value.Equal(decimal.NewFromInt(1010)))
	})
}

func TestDiscoverTopWhales(t *testing.T) {
	seed := addr(1)
	entities := fakeEntities{
		whales:    domain.LabelTable{{Address: seed, Label: "Fund"}},
		exchanges: domain.LabelTable{{Address: addr(3), Label: "Kraken"}},
	}

	src := newFakeSource()
	src.txs[seed] = []domain.Transaction{
		tx("a", seed, addr(2), 100, day),
		tx("b", addr(3), seed, 60, day),
		tx("c", seed, addr(4), 49, day),
		tx("d", addr(5), addr(2), 80, day),
	}
	src.balances[seed] = decimal.NewFromInt(3000)
	src.balances[addr(2)] = decimal.NewFromInt(20000)
	src.balances[addr(3)] = decimal.NewFromInt(3000)
	src.balances[addr(4)] = decimal.NewFromInt(99999)
	src.balances[addr(5)] = decimal.NewFromInt(10)
	a := newTestAnalyzer(src, entities)

	whales, failures, err := a.DiscoverTopWhales(context.Background(), decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Empty(t, failures)

	var got []string
	for _, w := range whales {
		got = append(got, w.Address)
		assert.Equal(t, domain.DiscoveryTransactionAnalysis, w.DiscoveryMethod)
	}
	// addr(4) only appears below the edge value; seed and addr(3) tie on balance
	// and keep first-seen order.
	assert.Equal(t, []string{addr(2), seed, addr(3)}, got)
	assert.Equal(t, "Kraken", whales[2].Exchange)
	assert.Equal(t, "Fund", whales[1].Label)
	assert.Equal(t, domain.TierMega, whales[0].Tier)

	t.Run("counterparty cap", func(t *testing.T) {
		src := newFakeSource()
		for i := 0; i < 40; i++ {
			src.txs[seed] = append(src.txs[seed], tx("x", addr(100+i), addr(200+i), 60, day))
		}
		l := noPacing()
		l.TopWhaleCounterparties = 30
		a := NewWhaleAnalyzer("ethereum", src, entities, l, logger.Nop(), fixedClock)

		_, _, err := a.DiscoverTopWhales(context.Background(), decimal.NewFromInt(1))
		require.NoError(t, err)

		balanceCalls := 0
		for _, c := range src.calls {
			if len(c) > 8 && c[:8] == "balance:" {
				balanceCalls++
			}
		}
		assert.Equal(t, 30, balanceCalls)
	})

	t.Run("results capped at 20", func(t *testing.T) {
		src := newFakeSource()
		for i := 0; i < 20; i++ {
			src.txs[seed] = append(src.txs[seed], tx(fmt.Sprintf("t%d", i), addr(100+i), addr(200+i), 60, day))
			src.balances[addr(100+i)] = decimal.NewFromInt(int64(1000 + i))
			src.balances[addr(200+i)] = decimal.NewFromInt(int64(5000 + i))
		}
		a := newTestAnalyzer(src, entities)

		whales, failures, err := a.DiscoverTopWhales(context.Background(), decimal.NewFromInt(1000))
		require.NoError(t, err)
		assert.Empty(t, failures)
		require.Len(t, whales, 20)
		for i := 1; i < len(whales); i++ {
			assert.True(t, whales[i-1].Balance.GreaterThanOrEqual(whales[i].Balance))
		}
		// Only the first 30 counterparties (i < 15) are checked.
		assert.Equal(t, addr(214), whales[0].Address)
		assert.Equal(t, addr(110), whales[19].Address)
	})
}

func TestTrackExchangeWhales(t *testing.T) {
	exchange := addr(2)
	sender := addr(5)
	entities := fakeEntities{
		whales:    domain.LabelTable{{Address: sender, Label: "Fund"}},
		exchanges: domain.LabelTable{{Address: exchange, Label: "Binance"}},
	}

	src := newFakeSource()
	src.txs[exchange] = []domain.Transaction{
		tx("dep", sender, exchange, 600, day),
		tx("wd", exchange, addr(6), 800, day),
		tx("tiny", sender, exchange, 499, day),
	}
	src.balances[sender] = decimal.NewFromInt(2000)
	src.balances[addr(6)] = decimal.NewFromInt(20)
	a := newTestAnalyzer(src, entities)

	movements, failures, err := a.TrackExchangeWhales(context.Background(), decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, movements, 2)

	assert.Equal(t, "wd", movements[0].Hash)
	assert.Equal(t, domain.MovementWithdrawal, movements[0].MovementType)
	assert.Equal(t, addr(6), movements[0].Counterparty)
	assert.Equal(t, domain.TierSmall, movements[0].CounterpartyTier)

	dep := movements[1]
	assert.Equal(t, domain.MovementDeposit, dep.MovementType)
	assert.Equal(t, sender, dep.Counterparty)
	assert.Equal(t, "Binance", dep.Exchange)
	assert.Equal(t, "Fund", dep.CounterpartyLabel)
	assert.Equal(t, domain.TierLarge, dep.CounterpartyTier)
	assert.Equal(t, domain.SignificanceSignificant, dep.Significance)

	summary := SummarizeExchangeFlow(movements)
	assert.True(t, summary.NetFlow.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, domain.FlowAccumulation, summary.Direction)
	assert.Equal(t, 1, summary.ActiveExchanges)
	assert.Equal(t, 1, summary.DepositCount)
	assert.Equal(t, 1, summary.WithdrawalCount)
}

func TestTrackExchangeWhalesCapsAndSkips(t *testing.T) {
	var exchanges domain.LabelTable
	for k := 0; k < 6; k++ {
		exchanges = append(exchanges, domain.KnownEntity{Address: addr(10 + k), Label: fmt.Sprintf("Exchange %d", k)})
	}

	src := newFakeSource()
	for k, ex := range exchanges {
		for i := 0; i < 40; i++ {
			src.txs[ex.Address] = append(src.txs[ex.Address], tx(fmt.Sprintf("x%d-%d", k, i), addr(300+k*40+i), ex.Address, int64(600+k*10+i), day))
		}
	}
	src.txErr[addr(10)] = dsErr("exchange down")
	a := newTestAnalyzer(src, fakeEntities{exchanges: exchanges})

	movements, failures, err := a.TrackExchangeWhales(context.Background(), decimal.NewFromInt(500))
	require.NoError(t, err)

	require.Len(t, failures, 1)
	assert.Equal(t, addr(10), failures[0].Item)
	assert.Equal(t, StageTransactions, failures[0].Stage)
	assert.ErrorIs(t, failures[0].Err, domain.ErrDataSource)

	require.Len(t, movements, 30)
	for i := 1; i < len(movements); i++ {
		assert.True(t, movements[i-1].Value.GreaterThanOrEqual(movements[i].Value))
	}
	// Five seeds at most; each page is cut at 30 transactions.
	assert.True(t, movements[0].Value.Equal(decimal.NewFromInt(669)))
	assert.Equal(t, "Exchange 4", movements[0].Exchange)
	assert.NotContains(t, src.calls, "txs:"+addr(15))
}

func TestSummarizeExchangeFlow(t *testing.T) {
	mv := func(ex string, typ domain.MovementType, v int64) domain.ExchangeMovement {
		return domain.ExchangeMovement{Exchange: ex, MovementType: typ, Value: decimal.NewFromInt(v)}
	}

	t.Run("empty is balanced", func(t *testing.T) {
		s := SummarizeExchangeFlow(nil)
		assert.Equal(t, domain.FlowBalanced, s.Direction)
		assert.True(t, s.NetFlow.IsZero())
		assert.Equal(t, 0, s.ActiveExchanges)
	})

	t.Run("distribution", func(t *testing.T) {
		s := SummarizeExchangeFlow([]domain.ExchangeMovement{
			mv("Binance", domain.MovementDeposit, 1000),
			mv("Kraken", domain.MovementDeposit, 500),
			mv("Binance", domain.MovementWithdrawal, 700),
		})
		assert.True(t, s.NetFlow.Equal(decimal.NewFromInt(-800)))
		assert.Equal(t, domain.FlowDistribution, s.Direction)
		assert.Equal(t, 2, s.ActiveExchanges)
	})
}

func TestDiscoveryCancellation(t *testing.T) {
	entities := fakeEntities{
		whales:    domain.LabelTable{{Address: addr(1)}, {Address: addr(2)}},
		exchanges: domain.LabelTable{{Address: addr(3)}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := newFakeSource()
	a := newTestAnalyzer(src, entities)

	_, _, err := a.DiscoverWhaleMovements(ctx, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = a.DiscoverTopWhales(ctx, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = a.TrackExchangeWhales(ctx, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = a.CompareAddresses(ctx, []string{addr(1), addr(2)})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, src.calls)
}

func TestPaceHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pace(ctx, DefaultLimits().DiscoveryPacing), context.Canceled)
	assert.NoError(t, pace(context.Background(), 0))
}
