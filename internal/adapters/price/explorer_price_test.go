package price

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/adapters/chain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
)

type stubCaller struct {
	cfg    chain.ChainConfig
	body   string
	err    error
	action string
}

func (s *stubCaller) Call(_ context.Context, module, action string, _ url.Values) (json.RawMessage, error) {
	s.action = module + "/" + action
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.body), nil
}

func (s *stubCaller) Chain() chain.ChainConfig { return s.cfg }

func TestGetNativePrice(t *testing.T) {
	bsc, err := chain.Lookup("bsc")
	require.NoError(t, err)

	t.Run("bnb keys", func(t *testing.T) {
		caller := &stubCaller{cfg: bsc, body: `{"bnbbtc":"0.0091","bnbusd":"612.35","bnbusd_timestamp":"1700000000"}`}
		p, err := NewExplorerPriceService(caller).GetNativePrice(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "stats/bnbprice", caller.action)
		assert.True(t, p.USD.Equal(decimal.RequireFromString("612.35")))
		assert.True(t, p.BTC.Equal(decimal.RequireFromString("0.0091")))
	})

	t.Run("missing keys are zero", func(t *testing.T) {
		caller := &stubCaller{cfg: bsc, body: `{}`}
		p, err := NewExplorerPriceService(caller).GetNativePrice(context.Background())
		require.NoError(t, err)
		assert.True(t, p.USD.IsZero())
	})

	t.Run("errors propagate", func(t *testing.T) {
		caller := &stubCaller{cfg: bsc, err: domain.ErrDataSource}
		_, err := NewExplorerPriceService(caller).GetNativePrice(context.Background())
		assert.ErrorIs(t, err, domain.ErrDataSource)
	})

	t.Run("garbage price", func(t *testing.T) {
		caller := &stubCaller{cfg: bsc, body: `{"ethusd":"n/a"}`}
		_, err := NewExplorerPriceService(caller).GetNativePrice(context.Background())
		assert.ErrorIs(t, err, domain.ErrDataSource)
	})
}
