package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/adapters/chain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
)

// StatsCaller is the part of the explorer client used for price lookups.
type StatsCaller interface {
	Call(ctx context.Context, module, action string, params url.Values) (json.RawMessage, error)
	Chain() chain.ChainConfig
}

// ExplorerPriceService reads the native token price from the explorer stats module.
type ExplorerPriceService struct {
	caller StatsCaller
}

func NewExplorerPriceService(caller StatsCaller) *ExplorerPriceService {
	return &ExplorerPriceService{caller: caller}
}

// GetNativePrice returns the native token price in USD and BTC.
func (s *ExplorerPriceService) GetNativePrice(ctx context.Context) (*domain.NativePrice, error) {
	cfg := s.caller.Chain()

	raw, err := s.caller.Call(ctx, "stats", cfg.PriceAction, nil)
	if err != nil {
		return nil, err
	}

	var result map[string]string
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrDataSource, cfg.PriceAction, err)
	}

	usd, err := pick(result, "ethusd", "bnbusd")
	if err != nil {
		return nil, err
	}
	btc, err := pick(result, "ethbtc", "bnbbtc")
	if err != nil {
		return nil, err
	}

	return &domain.NativePrice{USD: usd, BTC: btc}, nil
}

// pick returns the first non-empty key, or zero when none is present.
func pick(result map[string]string, keys ...string) (decimal.Decimal, error) {
	for _, k := range keys {
		v := result[k]
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: invalid %s %q", domain.ErrDataSource, k, v)
		}
		return d, nil
	}
	return decimal.Zero, nil
}
