package service

import (
	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
)

type tierThreshold struct {
	min  decimal.Decimal
	tier domain.WhaleTier
}

type significanceThreshold struct {
	min decimal.Decimal
	tag domain.Significance
}

// Ordered from the highest bound down; the first inclusive match wins.
var tierTable = []tierThreshold{
	{decimal.NewFromInt(10000), domain.TierMega},
	{decimal.NewFromInt(1000), domain.TierLarge},
	{decimal.NewFromInt(100), domain.TierMedium},
	{decimal.NewFromInt(10), domain.TierSmall},
}

var significanceTable = []significanceThreshold{
	{decimal.NewFromInt(10000), domain.SignificanceMega},
	{decimal.NewFromInt(5000), domain.SignificanceCritical},
	{decimal.NewFromInt(1000), domain.SignificanceMajor},
	{decimal.NewFromInt(500), domain.SignificanceSignificant},
}

// ClassifyTier maps a native-token balance to its whale tier.
// Zero and negative balances are SHRIMP.
func ClassifyTier(balance decimal.Decimal) domain.WhaleTier {
	for _, t := range tierTable {
		if balance.GreaterThanOrEqual(t.min) {
			return t.tier
		}
	}
	return domain.TierShrimp
}

// MovementSignificance tags a movement value. Its thresholds are independent
// of the tier table.
func MovementSignificance(value decimal.Decimal) domain.Significance {
	for _, t := range significanceTable {
		if value.GreaterThanOrEqual(t.min) {
			return t.tag
		}
	}
	return domain.SignificanceNotable
}
