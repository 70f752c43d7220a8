package service

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
)

const (
	activityWindow     = 20
	activityRecentDays = 30
	newAddressDays     = 30

	riskHighBalance    = 30.0
	riskKnownWhale     = -20.0
	riskLargeTxPattern = 25.0
	riskNewAddress     = 40.0
)

var (
	largeTxThreshold     = decimal.NewFromInt(50)
	riskBalanceThreshold = decimal.NewFromInt(1000)
	riskLargeTxThreshold = decimal.NewFromInt(100)
)

// Risk factor names reported in WhaleMetrics.RiskFactors.
const (
	FactorHighBalance    = "high_balance"
	FactorKnownWhale     = "known_whale"
	FactorLargeTxPattern = "large_tx_pattern"
	FactorNewAddress     = "new_address"
)

// TxStats are aggregate statistics over a fetched transaction page.
type TxStats struct {
	Total   int
	Large   int
	Average decimal.Decimal
	Max     decimal.Decimal
	First   *time.Time
	Last    *time.Time
}

// MetricsComputer derives scores and statistics from transaction sets.
type MetricsComputer struct {
	now func() time.Time
}

// NewMetricsComputer creates a MetricsComputer. A nil clock means time.Now.
func NewMetricsComputer(now func() time.Time) *MetricsComputer {
	if now == nil {
		now = time.Now
	}
	return &MetricsComputer{now: now}
}

// ActivityScore rewards recent engagement: the share of the newest 20
// transactions that are at most 30 whole days old, scaled to 0-100.
func (m *MetricsComputer) ActivityScore(txs []domain.Transaction) float64 {
	if len(txs) == 0 {
		return 0
	}

	now := m.now()
	recent := 0
	for i, tx := range txs {
		if i >= activityWindow {
			break
		}
		if ageDays(now, tx.Timestamp) <= activityRecentDays {
			recent++
		}
	}

	return math.Min(100, float64(recent)/activityWindow*100)
}

// RiskScore sums the applicable risk contributions and clamps to [0,100].
// txs must be newest-first; the last element is treated as the oldest.
func (m *MetricsComputer) RiskScore(address string, balance decimal.Decimal, txs []domain.Transaction, knownWhales domain.LabelTable) (float64, []domain.RiskFactor) {
	var factors []domain.RiskFactor

	if balance.GreaterThan(riskBalanceThreshold) {
		factors = append(factors, domain.RiskFactor{Name: FactorHighBalance, Weight: riskHighBalance})
	}

	if knownWhales.Contains(address) {
		factors = append(factors, domain.RiskFactor{Name: FactorKnownWhale, Weight: riskKnownWhale})
	}

	if len(txs) > 0 {
		large := 0
		for _, tx := range txs {
			if tx.Value.GreaterThan(riskLargeTxThreshold) {
				large++
			}
		}
		// large/len > 0.5
		if 2*large > len(txs) {
			factors = append(factors, domain.RiskFactor{Name: FactorLargeTxPattern, Weight: riskLargeTxPattern})
		}

		oldest := txs[len(txs)-1]
		if ageDays(m.now(), oldest.Timestamp) < newAddressDays {
			factors = append(factors, domain.RiskFactor{Name: FactorNewAddress, Weight: riskNewAddress})
		}
	}

	total := 0.0
	for _, f := range factors {
		total += f.Weight
	}

	return clamp(total, 0, 100), factors
}

// TokenDiversity counts distinct token contracts in a transfer list.
// Contract addresses are compared lowercase and empty ones are ignored.
func (m *MetricsComputer) TokenDiversity(transfers []domain.TokenTransfer) int {
	seen := make(map[string]struct{}, len(transfers))
	for _, t := range transfers {
		contract := domain.NormalizeAddress(t.ContractAddress)
		if contract == "" {
			continue
		}
		seen[contract] = struct{}{}
	}
	return len(seen)
}

// Stats computes count, large count, average and maximum value over txs,
// plus the timestamps of the oldest and newest transaction.
func (m *MetricsComputer) Stats(txs []domain.Transaction) TxStats {
	stats := TxStats{
		Average: decimal.Zero,
		Max:     decimal.Zero,
	}
	if len(txs) == 0 {
		return stats
	}

	sum := decimal.Zero
	for i, tx := range txs {
		sum = sum.Add(tx.Value)
		if tx.Value.GreaterThan(largeTxThreshold) {
			stats.Large++
		}
		if i == 0 || tx.Value.GreaterThan(stats.Max) {
			stats.Max = tx.Value
		}
	}

	stats.Total = len(txs)
	stats.Average = sum.Div(decimal.NewFromInt(int64(len(txs))))

	first := txs[len(txs)-1].Timestamp
	last := txs[0].Timestamp
	stats.First = &first
	stats.Last = &last

	return stats
}

// ageDays is the whole number of days between t and now, floored.
func ageDays(now, t time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
