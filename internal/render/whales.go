package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/tools"
)

const (
	movementPreview = 15
	exchangePreview = 8
)

type tierInfo struct {
	name        string
	description string
}

var tiers = map[domain.WhaleTier]tierInfo{
	domain.TierMega:   {"MEGA WHALE", "Institutional-level holdings"},
	domain.TierLarge:  {"LARGE WHALE", "Major market participant"},
	domain.TierMedium: {"MEDIUM WHALE", "Significant holder"},
	domain.TierSmall:  {"SMALL WHALE", "Notable position"},
	domain.TierShrimp: {"SHRIMP", "Retail holder"},
}

// tierRange is the balance band of a tier in the chain's native symbol.
func tierRange(t domain.WhaleTier, symbol string) string {
	switch t {
	case domain.TierMega:
		return ">10,000 " + symbol
	case domain.TierLarge:
		return "1,000-10,000 " + symbol
	case domain.TierMedium:
		return "100-1,000 " + symbol
	case domain.TierSmall:
		return "10-100 " + symbol
	default:
		return "<10 " + symbol
	}
}

func activityBand(score float64) string {
	switch {
	case score > 70:
		return "Very Active"
	case score > 40:
		return "Active"
	default:
		return "Inactive"
	}
}

func riskBand(score float64) string {
	switch {
	case score > 70:
		return "High Risk"
	case score > 40:
		return "Medium Risk"
	default:
		return "Low Risk"
	}
}

func analysis(r *tools.AnalysisResult) string {
	m := r.Metrics
	sym := r.Symbol

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s WHALE ANALYSIS: %s\n", header(r.Header), m.Address)
	sb.WriteString(rule(50))

	fmt.Fprintf(&sb, "Classification: [%s] %s\n", tiers[m.Tier].name, tierRange(m.Tier, sym))
	fmt.Fprintf(&sb, "%s Balance: %s %s\n\n", sym, m.Balance.StringFixed(6), sym)

	if m.Label != "" {
		fmt.Fprintf(&sb, "Known Entity: %s\n", m.Label)
	}
	if m.Exchange != "" {
		fmt.Fprintf(&sb, "Exchange: %s\n", m.Exchange)
	}
	sb.WriteString("\n")

	sb.WriteString("ACTIVITY METRICS:\n")
	fmt.Fprintf(&sb, "Total Transactions: %s\n", humanize.Comma(int64(m.TotalTransactions)))
	fmt.Fprintf(&sb, "Large Transactions (>50 %s): %s\n", sym, humanize.Comma(int64(m.LargeTransactions)))
	fmt.Fprintf(&sb, "Average Transaction: %s %s\n", m.AvgTransactionValue.StringFixed(6), sym)
	fmt.Fprintf(&sb, "Largest Transaction: %s %s\n\n", m.MaxTransactionValue.StringFixed(6), sym)

	sb.WriteString("ANALYSIS SCORES:\n")
	fmt.Fprintf(&sb, "Activity Score: %.1f/100 (%s)\n", m.ActivityScore, activityBand(m.ActivityScore))
	fmt.Fprintf(&sb, "Risk Score: %.1f/100 (%s)\n", m.RiskScore, riskBand(m.RiskScore))
	fmt.Fprintf(&sb, "Token Diversity: %d different tokens\n\n", m.TokenDiversity)

	if m.FirstSeen != nil {
		fmt.Fprintf(&sb, "First Activity: %s\n", when(*m.FirstSeen))
	}
	if m.LastActivity != nil {
		fmt.Fprintf(&sb, "Last Activity: %s\n", when(*m.LastActivity))
	}
	return sb.String()
}

func classification(r *tools.ClassificationResult) string {
	c := r.Classification
	info := tiers[c.Tier]

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s WHALE CLASSIFICATION: %s\n\n", header(r.Header), c.Address)
	fmt.Fprintf(&sb, "Class: %s\n", info.name)
	fmt.Fprintf(&sb, "Balance: %s %s\n", c.Balance.StringFixed(6), r.Symbol)
	fmt.Fprintf(&sb, "Description: %s\n", info.description)
	if c.Label != "" {
		fmt.Fprintf(&sb, "Known as: %s\n", c.Label)
	}

	switch c.Tier {
	case domain.TierMega, domain.TierLarge:
		fmt.Fprintf(&sb, "\n[!] This address holds significant %s - movements may impact market", r.Symbol)
	case domain.TierMedium:
		sb.WriteString("\n[i] Moderate holder - worth monitoring for large movements")
	}
	return sb.String()
}

func comparison(r *tools.CompareResult) string {
	sym := r.Symbol

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s WHALE COMPARISON (%d addresses)\n", header(r.Header), len(r.Whales))
	sb.WriteString(rule(60))

	total := decimal.Zero
	activity := 0.0
	for i, m := range r.Whales {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, tierTag(m.Tier), short(m.Address))
		fmt.Fprintf(&sb, "   Balance: %s %s | Class: %s\n", amount(m.Balance, 2), sym, tierTitle(m.Tier))
		fmt.Fprintf(&sb, "   Activity: %.0f/100 | Risk: %.0f/100 | Tokens: %d\n", m.ActivityScore, m.RiskScore, m.TokenDiversity)
		if m.Label != "" {
			fmt.Fprintf(&sb, "   Known as: %s\n", m.Label)
		}
		sb.WriteString("\n")

		total = total.Add(m.Balance)
		activity += m.ActivityScore
	}

	writeFailures(&sb, r.Failures)

	sb.WriteString("SUMMARY:\n")
	fmt.Fprintf(&sb, "Total %s: %s %s\n", sym, amount(total, 2), sym)
	if len(r.Whales) > 0 {
		fmt.Fprintf(&sb, "Average Activity Score: %.1f/100\n", activity/float64(len(r.Whales)))
		fmt.Fprintf(&sb, "Largest Whale: %s %s\n", amount(r.Whales[0].Balance, 2), sym)
	}
	return sb.String()
}

func party(sb *strings.Builder, address, label, exchange string, tier domain.WhaleTier) {
	sb.WriteString(short(address))
	switch {
	case label != "":
		fmt.Fprintf(sb, " (%s)", label)
	case exchange != "":
		fmt.Fprintf(sb, " (%s Exchange)", exchange)
	case tier != "":
		fmt.Fprintf(sb, " [%s]", tierTitle(tier))
	}
}

func movements(r *tools.MovementsResult) string {
	sym := r.Symbol
	if len(r.Movements) == 0 {
		return fmt.Sprintf("%s No whale movements found above %s %s", header(r.Header), r.MinValue, sym)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s RECENT WHALE MOVEMENTS (>%s %s)\n", header(r.Header), r.MinValue, sym)
	sb.WriteString(rule(60))

	total := decimal.Zero
	for i, mv := range r.Movements {
		total = total.Add(mv.Value)
		if i >= movementPreview {
			continue
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, significance(mv.Significance))
		fmt.Fprintf(&sb, "Amount: %s %s\n", amount(mv.Value, 2), sym)
		sb.WriteString("From: ")
		party(&sb, mv.From, mv.FromLabel, mv.FromExchange, mv.FromTier)
		sb.WriteString("\nTo: ")
		party(&sb, mv.To, mv.ToLabel, mv.ToExchange, mv.ToTier)
		fmt.Fprintf(&sb, "\nTx Hash: %s\n", mv.Hash)
		fmt.Fprintf(&sb, "Block: %d\n\n", mv.BlockNumber)
	}

	writeFailures(&sb, r.Failures)

	sb.WriteString("SUMMARY:\n")
	fmt.Fprintf(&sb, "Total movements found: %d\n", len(r.Movements))
	fmt.Fprintf(&sb, "Total value: %s %s\n", amount(total, 2), sym)
	fmt.Fprintf(&sb, "Largest movement: %s %s\n", amount(r.Movements[0].Value, 2), sym)
	return sb.String()
}

func topWhales(r *tools.TopWhalesResult) string {
	sym := r.Symbol
	if len(r.Whales) == 0 {
		return fmt.Sprintf("%s No whales discovered with balance >%s %s", header(r.Header), r.MinBalance, sym)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s DISCOVERED TOP WHALES (>%s %s)\n", header(r.Header), r.MinBalance, sym)
	sb.WriteString(rule(60))

	total := decimal.Zero
	mega, large := 0, 0
	for i, w := range r.Whales {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, tierTag(w.Tier), short(w.Address))
		fmt.Fprintf(&sb, "   Balance: %s %s\n", amount(w.Balance, 2), sym)
		fmt.Fprintf(&sb, "   Class: %s\n", tierTitle(w.Tier))
		if w.Label != "" {
			fmt.Fprintf(&sb, "   Known as: %s\n", w.Label)
		}
		if w.Exchange != "" {
			fmt.Fprintf(&sb, "   Exchange: %s\n", w.Exchange)
		}
		fmt.Fprintf(&sb, "   Discovery: %s\n\n", title(w.DiscoveryMethod))

		total = total.Add(w.Balance)
		switch w.Tier {
		case domain.TierMega:
			mega++
		case domain.TierLarge:
			large++
		}
	}

	writeFailures(&sb, r.Failures)

	sb.WriteString("DISCOVERY SUMMARY:\n")
	fmt.Fprintf(&sb, "Whales discovered: %d\n", len(r.Whales))
	fmt.Fprintf(&sb, "Total %s discovered: %s %s\n", sym, amount(total, 2), sym)
	fmt.Fprintf(&sb, "Mega whales (>10K): %d\n", mega)
	fmt.Fprintf(&sb, "Large whales (1K-10K): %d\n", large)
	fmt.Fprintf(&sb, "Largest whale: %s %s\n", amount(r.Whales[0].Balance, 2), sym)
	return sb.String()
}

func exchangeFlow(r *tools.ExchangeResult) string {
	sym := r.Symbol
	if len(r.Movements) == 0 {
		return fmt.Sprintf("%s No exchange whale movements found above %s %s", header(r.Header), r.MinAmount, sym)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s EXCHANGE WHALE TRACKING (>%s %s)\n", header(r.Header), r.MinAmount, sym)
	sb.WriteString(rule(60))

	var deposits, withdrawals []domain.ExchangeMovement
	for _, mv := range r.Movements {
		switch mv.MovementType {
		case domain.MovementDeposit:
			deposits = append(deposits, mv)
		case domain.MovementWithdrawal:
			withdrawals = append(withdrawals, mv)
		}
	}

	writeExchangeSection(&sb, "WHALE DEPOSITS (Potential Selling Pressure):", "→", deposits, sym)
	writeExchangeSection(&sb, "WHALE WITHDRAWALS (Potential Accumulation):", "←", withdrawals, sym)
	writeFailures(&sb, r.Failures)

	s := r.Summary
	sb.WriteString("MARKET IMPACT ANALYSIS:\n")
	fmt.Fprintf(&sb, "Total Deposits: %s %s (Selling pressure)\n", amount(s.TotalDeposits, 2), sym)
	fmt.Fprintf(&sb, "Total Withdrawals: %s %s (Accumulation)\n", amount(s.TotalWithdrawals, 2), sym)
	fmt.Fprintf(&sb, "Net Flow: %s %s ", amount(s.NetFlow, 2), sym)
	switch s.Direction {
	case domain.FlowAccumulation:
		sb.WriteString("(Net accumulation - Bullish signal)\n")
	case domain.FlowDistribution:
		sb.WriteString("(Net selling - Bearish signal)\n")
	default:
		sb.WriteString("(Balanced flow)\n")
	}
	fmt.Fprintf(&sb, "Active exchanges: %d\n", s.ActiveExchanges)
	return sb.String()
}

func writeExchangeSection(sb *strings.Builder, title, arrow string, list []domain.ExchangeMovement, sym string) {
	if len(list) == 0 {
		return
	}
	sb.WriteString(title + "\n\n")
	for i, mv := range list {
		if i == exchangePreview {
			break
		}
		fmt.Fprintf(sb, "%d. %s\n", i+1, significance(mv.Significance))
		fmt.Fprintf(sb, "   Amount: %s %s %s %s\n", amount(mv.Value, 2), sym, arrow, mv.Exchange)
		sb.WriteString("   Whale: ")
		party(sb, mv.Counterparty, mv.CounterpartyLabel, "", mv.CounterpartyTier)
		fmt.Fprintf(sb, "\n   Tx: %s\n\n", mv.Hash)
	}
}

// writeFailures lists items skipped during a batch so partial results are visible.
func writeFailures(sb *strings.Builder, failures []domain.ItemFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(sb, "SKIPPED (%d):\n", len(failures))
	for _, f := range failures {
		fmt.Fprintf(sb, "- %s [%s]: %s\n", short(f.Item), f.Stage, f.Message)
	}
	sb.WriteString("\n")
}
