package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChainDataSource supplies raw explorer data for a single chain.
type ChainDataSource interface {
	// GetBalance returns the native-token balance of address in native units.
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)

	// GetTransactions returns a page of transactions, newest first.
	// An address without history yields an empty slice and no error.
	GetTransactions(ctx context.Context, address string, page, pageSize int) ([]Transaction, error)

	// GetTokenTransfers returns a page of token transfer events, newest first.
	GetTokenTransfers(ctx context.Context, address string, page, pageSize int) ([]TokenTransfer, error)

	// NativeSymbol is the ticker of the chain's base currency (ETH, BNB).
	NativeSymbol() string
}

// KnownEntities is the read-only label table of known whales and exchanges.
// Unknown chains yield an empty table.
type KnownEntities interface {
	KnownWhales(chain string) LabelTable
	ExchangeAddresses(chain string) LabelTable
}
