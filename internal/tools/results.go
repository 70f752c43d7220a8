package tools

import (
	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/adapters/chain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
)

// Header identifies the chain a result was produced on.
type Header struct {
	Chain     string `json:"chain"`
	ChainName string `json:"chain_name"`
	Symbol    string `json:"symbol"`
}

func headerOf(cfg chain.ChainConfig) Header {
	return Header{Chain: cfg.Key, ChainName: cfg.Name, Symbol: cfg.Symbol}
}

// ChainInfo is one entry of the supported chains listing.
type ChainInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	ChainID     int64  `json:"chain_id"`
	ExplorerURL string `json:"explorer_url"`
	Configured  bool   `json:"configured"`
}

type ChainsResult struct {
	Chains []ChainInfo `json:"chains"`
}

type BalanceResult struct {
	Header
	Address     string          `json:"address"`
	Balance     decimal.Decimal `json:"balance"`
	ExplorerURL string          `json:"explorer_url"`
}

type TransactionsResult struct {
	Header
	Address      string               `json:"address"`
	Transactions []domain.Transaction `json:"transactions"`
}

type TokenTransfersResult struct {
	Header
	Address   string                 `json:"address"`
	Contract  string                 `json:"contract,omitempty"`
	Transfers []domain.TokenTransfer `json:"transfers"`
}

type ContractABIResult struct {
	Header
	Address string   `json:"address"`
	ABI     string   `json:"abi"`
	Methods []string `json:"methods,omitempty"`
	Events  []string `json:"events,omitempty"`
}

type GasPricesResult struct {
	Header
	Prices domain.GasPrices `json:"prices"`
}

type NativePriceResult struct {
	Header
	Price domain.NativePrice `json:"price"`
}

type AnalysisResult struct {
	Header
	Metrics domain.WhaleMetrics `json:"metrics"`
}

type ClassificationResult struct {
	Header
	Classification domain.Classification `json:"classification"`
}

// CompareResult holds the analyzed addresses ordered by balance, largest first.
type CompareResult struct {
	Header
	Whales   []domain.WhaleMetrics `json:"whales"`
	Failures []domain.ItemFailure  `json:"failures,omitempty"`
}

type MovementsResult struct {
	Header
	MinValue  decimal.Decimal        `json:"min_value"`
	Movements []domain.WhaleMovement `json:"movements"`
	Failures  []domain.ItemFailure   `json:"failures,omitempty"`
}

type TopWhalesResult struct {
	Header
	MinBalance decimal.Decimal          `json:"min_balance"`
	Whales     []domain.DiscoveredWhale `json:"whales"`
	Failures   []domain.ItemFailure     `json:"failures,omitempty"`
}

type ExchangeResult struct {
	Header
	MinAmount decimal.Decimal            `json:"min_amount"`
	Movements []domain.ExchangeMovement  `json:"movements"`
	Summary   domain.ExchangeFlowSummary `json:"summary"`
	Failures  []domain.ItemFailure       `json:"failures,omitempty"`
}
