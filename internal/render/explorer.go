package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/tools"
)

// Raw listings show only the head of the page.
const listPreview = 5

func chains(r *tools.ChainsResult) string {
	var sb strings.Builder
	sb.WriteString("SUPPORTED BLOCKCHAIN NETWORKS:\n")
	sb.WriteString(rule(40))

	for _, c := range r.Chains {
		status := "[!] API key missing"
		if c.Configured {
			status = "[OK] Configured"
		}
		fmt.Fprintf(&sb, "- %s (%s)\n", c.Name, c.Key)
		fmt.Fprintf(&sb, "  Symbol: %s\n", c.Symbol)
		fmt.Fprintf(&sb, "  Chain ID: %d\n", c.ChainID)
		fmt.Fprintf(&sb, "  Explorer: %s\n", c.ExplorerURL)
		fmt.Fprintf(&sb, "  Status: %s\n\n", status)
	}

	sb.WriteString("To use a chain, set the 'chain' parameter in any tool.\n")
	sb.WriteString("Example: check_balance(address='0x...', chain='bsc')")
	return sb.String()
}

func balance(r *tools.BalanceResult) string {
	return fmt.Sprintf("%s %s balance for %s: %s %s",
		header(r.Header), r.Symbol, r.Address, r.Balance.StringFixed(6), r.Symbol)
}

func transactions(r *tools.TransactionsResult) string {
	if len(r.Transactions) == 0 {
		return fmt.Sprintf("%s No transactions found for %s", header(r.Header), r.Address)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Found %d transactions for %s:\n\n", header(r.Header), len(r.Transactions), r.Address)
	for i, tx := range r.Transactions {
		if i == listPreview {
			break
		}
		fmt.Fprintf(&sb, "Hash: %s\n", tx.Hash)
		fmt.Fprintf(&sb, "From: %s\n", tx.From)
		fmt.Fprintf(&sb, "To: %s\n", tx.To)
		fmt.Fprintf(&sb, "Value: %s %s\n", tx.Value.StringFixed(6), r.Symbol)
		fmt.Fprintf(&sb, "Gas Used: %s\n", humanize.Comma(int64(tx.GasUsed)))
		fmt.Fprintf(&sb, "Block: %d\n\n", tx.BlockNumber)
	}
	return sb.String()
}

func tokenTransfers(r *tools.TokenTransfersResult) string {
	if len(r.Transfers) == 0 {
		return fmt.Sprintf("%s No token transfers found for %s", header(r.Header), r.Address)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Found %d token transfers for %s:\n\n", header(r.Header), len(r.Transfers), r.Address)
	for i, t := range r.Transfers {
		if i == listPreview {
			break
		}
		fmt.Fprintf(&sb, "Hash: %s\n", t.Hash)
		fmt.Fprintf(&sb, "Token: %s (%s)\n", t.TokenName, t.TokenSymbol)
		fmt.Fprintf(&sb, "From: %s\n", t.From)
		fmt.Fprintf(&sb, "To: %s\n", t.To)
		fmt.Fprintf(&sb, "Value: %s %s\n", t.Value.StringFixed(6), t.TokenSymbol)
		fmt.Fprintf(&sb, "Block: %d\n\n", t.BlockNumber)
	}
	return sb.String()
}

func contractABI(r *tools.ContractABIResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Contract ABI for %s:\n\n", header(r.Header), r.Address)
	if len(r.Methods) > 0 {
		fmt.Fprintf(&sb, "Methods: %s\n", strings.Join(r.Methods, ", "))
	}
	if len(r.Events) > 0 {
		fmt.Fprintf(&sb, "Events: %s\n", strings.Join(r.Events, ", "))
	}
	if len(r.Methods)+len(r.Events) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(r.ABI)
	return sb.String()
}

func gasPrices(r *tools.GasPricesResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Current gas prices (in Gwei):\n", header(r.Header))
	fmt.Fprintf(&sb, "Safe: %s Gwei\n", r.Prices.Safe)
	fmt.Fprintf(&sb, "Standard: %s Gwei\n", r.Prices.Standard)
	fmt.Fprintf(&sb, "Fast: %s Gwei", r.Prices.Fast)
	return sb.String()
}

func nativePrice(r *tools.NativePriceResult) string {
	return fmt.Sprintf("%s %s price: $%s (%s BTC)",
		header(r.Header), r.Symbol, amount(r.Price.USD, 2), r.Price.BTC.String())
}
