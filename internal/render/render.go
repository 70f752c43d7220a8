// Package render formats tool results as human-readable text reports.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/tools"
)

const timeLayout = "2006-01-02 15:04:05"

var errorPrefixes = map[string]string{
	tools.ToolCheckBalance:     "Error getting balance",
	tools.ToolTransactions:     "Error getting transactions",
	tools.ToolTokenTransfers:   "Error getting token transfers",
	tools.ToolContractABI:      "Error getting contract ABI",
	tools.ToolGasPrices:        "Error getting gas prices",
	tools.ToolNativePrice:      "Error getting native price",
	tools.ToolAnalyzeWhale:     "Error analyzing whale",
	tools.ToolDetectWhaleClass: "Error detecting whale class",
	tools.ToolCompareWhales:    "Error comparing whales",
	tools.ToolWhaleMovements:   "Error discovering whale movements",
	tools.ToolTopWhales:        "Error discovering top whales",
	tools.ToolExchangeWhales:   "Error tracking exchange whales",
}

// Error formats a tool failure the way text reports present it.
func Error(tool string, err error) string {
	prefix, ok := errorPrefixes[tool]
	if !ok {
		prefix = "Error"
	}
	return prefix + ": " + err.Error()
}

// Text renders a result returned by one of the tools.
func Text(result interface{}) (string, error) {
	switch r := result.(type) {
	case *tools.ChainsResult:
		return chains(r), nil
	case *tools.BalanceResult:
		return balance(r), nil
	case *tools.TransactionsResult:
		return transactions(r), nil
	case *tools.TokenTransfersResult:
		return tokenTransfers(r), nil
	case *tools.ContractABIResult:
		return contractABI(r), nil
	case *tools.GasPricesResult:
		return gasPrices(r), nil
	case *tools.NativePriceResult:
		return nativePrice(r), nil
	case *tools.AnalysisResult:
		return analysis(r), nil
	case *tools.ClassificationResult:
		return classification(r), nil
	case *tools.CompareResult:
		return comparison(r), nil
	case *tools.MovementsResult:
		return movements(r), nil
	case *tools.TopWhalesResult:
		return topWhales(r), nil
	case *tools.ExchangeResult:
		return exchangeFlow(r), nil
	default:
		return "", fmt.Errorf("render: unsupported result type %T", result)
	}
}

func header(h tools.Header) string {
	return "[" + h.ChainName + "]"
}

func rule(n int) string {
	return strings.Repeat("=", n) + "\n\n"
}

// amount formats a value with thousands separators and fixed decimals.
func amount(d decimal.Decimal, places int) string {
	f, _ := d.Float64()
	return humanize.FormatFloat("#,###."+strings.Repeat("#", places), f)
}

func short(address string) string {
	if len(address) < 16 {
		return address
	}
	return address[:10] + "..." + address[len(address)-6:]
}

func tierTitle(t domain.WhaleTier) string {
	return title(string(t))
}

// title turns snake_case into Title Case.
func title(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func tierTag(t domain.WhaleTier) string {
	return "[" + strings.ToUpper(string(t)) + "]"
}

func significance(s domain.Significance) string {
	switch s {
	case domain.SignificanceMega:
		return "[!!!] MEGA MOVEMENT"
	case domain.SignificanceCritical:
		return "[!!] CRITICAL"
	case domain.SignificanceMajor:
		return "[!] MAJOR"
	case domain.SignificanceSignificant:
		return "[*] SIGNIFICANT"
	default:
		return "[-] NOTABLE"
	}
}

func when(t time.Time) string {
	return t.UTC().Format(timeLayout) + " (" + humanize.Time(t) + ")"
}
