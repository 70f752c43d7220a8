package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WhaleTier is the discrete whale bucket derived from a native-token balance.
type WhaleTier string

const (
	TierShrimp WhaleTier = "shrimp"
	TierSmall  WhaleTier = "small_whale"
	TierMedium WhaleTier = "medium_whale"
	TierLarge  WhaleTier = "large_whale"
	TierMega   WhaleTier = "mega_whale"

	// TierUnknown marks a movement endpoint whose balance could not be fetched.
	// The classifier never produces it.
	TierUnknown WhaleTier = "unknown"
)

// Rank orders tiers from SHRIMP (0) to MEGA (4). Unknown ranks below everything.
func (t WhaleTier) Rank() int {
	switch t {
	case TierShrimp:
		return 0
	case TierSmall:
		return 1
	case TierMedium:
		return 2
	case TierLarge:
		return 3
	case TierMega:
		return 4
	default:
		return -1
	}
}

// Significance tags a movement by its value.
type Significance string

const (
	SignificanceNotable     Significance = "notable"
	SignificanceSignificant Significance = "significant"
	SignificanceMajor       Significance = "major"
	SignificanceCritical    Significance = "critical"
	SignificanceMega        Significance = "mega"
)

// MovementType describes the direction of a movement relative to an exchange.
type MovementType string

const (
	MovementDeposit      MovementType = "deposit"
	MovementWithdrawal   MovementType = "withdrawal"
	MovementUnclassified MovementType = "unclassified"
)

// DiscoveryTransactionAnalysis is the only discovery method implemented so far.
const DiscoveryTransactionAnalysis = "transaction_analysis"

// Transaction is a native-token transaction as returned by an explorer,
// already converted to native units.
type Transaction struct {
	Hash        string          `json:"hash"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Value       decimal.Decimal `json:"value"`
	Timestamp   time.Time       `json:"timestamp"`
	BlockNumber uint64          `json:"block_number"`
	GasUsed     uint64          `json:"gas_used"`
	IsError     bool            `json:"is_error"`
}

// TokenTransfer is a single ERC20/BEP20 transfer event.
type TokenTransfer struct {
	Hash            string          `json:"hash"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	ContractAddress string          `json:"contract_address"`
	TokenName       string          `json:"token_name"`
	TokenSymbol     string          `json:"token_symbol"`
	TokenDecimals   int32           `json:"token_decimals"`
	Value           decimal.Decimal `json:"value"`
	BlockNumber     uint64          `json:"block_number"`
	Timestamp       time.Time       `json:"timestamp"`
}

// WhaleMetrics is the per-address analysis snapshot.
//
// Transaction statistics are computed over the fetched page only (the most
// recent transactions), not the full history of the address.
type WhaleMetrics struct {
	Address             string          `json:"address"`
	Balance             decimal.Decimal `json:"balance"`
	Tier                WhaleTier       `json:"tier"`
	TotalTransactions   int             `json:"total_transactions"`
	LargeTransactions   int             `json:"large_transactions"`
	AvgTransactionValue decimal.Decimal `json:"avg_transaction_value"`
	MaxTransactionValue decimal.Decimal `json:"max_transaction_value"`
	FirstSeen           *time.Time      `json:"first_seen"`
	LastActivity        *time.Time      `json:"last_activity"`
	ActivityScore       float64         `json:"activity_score"`
	RiskScore           float64         `json:"risk_score"`
	RiskFactors         []RiskFactor    `json:"risk_factors,omitempty"`
	TokenDiversity      int             `json:"token_diversity"`
	Label               string          `json:"label,omitempty"`
	Exchange            string          `json:"exchange,omitempty"`
	Chain               string          `json:"chain"`
}

// RiskFactor is one signed contribution to a risk score.
type RiskFactor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Classification is the result of a balance-only tier lookup.
type Classification struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
	Tier    WhaleTier       `json:"tier"`
	Label   string          `json:"label,omitempty"`
	Chain   string          `json:"chain"`
}

// WhaleMovement is a transaction reinterpreted as a transfer between classified parties.
type WhaleMovement struct {
	Hash         string          `json:"hash"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	Value        decimal.Decimal `json:"value"`
	Timestamp    time.Time       `json:"timestamp"`
	BlockNumber  uint64          `json:"block_number"`
	FromTier     WhaleTier       `json:"from_tier"`
	ToTier       WhaleTier       `json:"to_tier"`
	FromLabel    string          `json:"from_label,omitempty"`
	ToLabel      string          `json:"to_label,omitempty"`
	FromExchange string          `json:"from_exchange,omitempty"`
	ToExchange   string          `json:"to_exchange,omitempty"`
	MovementType MovementType    `json:"movement_type"`
	Significance Significance    `json:"significance"`
	Chain        string          `json:"chain"`
}

// DiscoveredWhale is a large holder found by walking transaction counterparties.
type DiscoveredWhale struct {
	Address         string          `json:"address"`
	Balance         decimal.Decimal `json:"balance"`
	Tier            WhaleTier       `json:"tier"`
	Label           string          `json:"label,omitempty"`
	Exchange        string          `json:"exchange,omitempty"`
	DiscoveryMethod string          `json:"discovery_method"`
	Chain           string          `json:"chain"`
}

// ExchangeMovement is a large deposit to or withdrawal from a known exchange.
type ExchangeMovement struct {
	Hash              string          `json:"hash"`
	Exchange          string          `json:"exchange"`
	ExchangeAddress   string          `json:"exchange_address"`
	Counterparty      string          `json:"counterparty"`
	MovementType      MovementType    `json:"movement_type"`
	Value             decimal.Decimal `json:"value"`
	CounterpartyTier  WhaleTier       `json:"counterparty_tier"`
	CounterpartyLabel string          `json:"counterparty_label,omitempty"`
	Significance      Significance    `json:"significance"`
	Timestamp         time.Time       `json:"timestamp"`
	BlockNumber       uint64          `json:"block_number"`
	Chain             string          `json:"chain"`
}

// FlowDirection summarizes the sign of an exchange net flow.
type FlowDirection string

const (
	FlowAccumulation FlowDirection = "accumulation"
	FlowDistribution FlowDirection = "distribution"
	FlowBalanced     FlowDirection = "balanced"
)

// ExchangeFlowSummary aggregates exchange movements into a net-flow indicator.
// NetFlow is withdrawals minus deposits: positive means coins leave exchanges.
type ExchangeFlowSummary struct {
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	NetFlow          decimal.Decimal `json:"net_flow"`
	Direction        FlowDirection   `json:"direction"`
	DepositCount     int             `json:"deposit_count"`
	WithdrawalCount  int             `json:"withdrawal_count"`
	ActiveExchanges  int             `json:"active_exchanges"`
}

// ItemFailure records a per-item error swallowed by a batch or discovery loop.
type ItemFailure struct {
	Item    string `json:"item"`
	Stage   string `json:"stage"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

// NewItemFailure builds an ItemFailure keeping both the error and its text.
func NewItemFailure(item, stage string, err error) ItemFailure {
	return ItemFailure{Item: item, Stage: stage, Err: err, Message: err.Error()}
}

// GasPrices holds the explorer gas oracle quotes in Gwei.
type GasPrices struct {
	Safe     string `json:"safe"`
	Standard string `json:"standard"`
	Fast     string `json:"fast"`
}

// NativePrice is the native token price in USD and BTC.
type NativePrice struct {
	USD decimal.Decimal `json:"usd"`
	BTC decimal.Decimal `json:"btc"`
}
