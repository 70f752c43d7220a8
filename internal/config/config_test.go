package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/service"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ETHERSCAN_API_KEY", "ABCDEFGH1234")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Explorer.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.Explorer.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr())
	assert.False(t, cfg.OpenAI.Enabled())
	assert.Equal(t, "****1234", cfg.MaskedAPIKey())

	want := service.DefaultLimits()
	got := cfg.Discovery.Limits()
	assert.True(t, want.TopWhaleEdgeValue.Equal(got.TopWhaleEdgeValue))
	want.TopWhaleEdgeValue = decimal.Zero
	got.TopWhaleEdgeValue = decimal.Zero
	assert.Equal(t, want, got)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCOVERY_MOVEMENT_SEEDS", "3")
	t.Setenv("DISCOVERY_SEED_PACING", "1s")
	t.Setenv("DISCOVERY_TOP_WHALE_EDGE_VALUE", "12.5")

	cfg, err := Load()
	require.NoError(t, err)

	l := cfg.Discovery.Limits()
	assert.Equal(t, 3, l.MovementSeeds)
	assert.Equal(t, time.Second, l.DiscoveryPacing)
	assert.Equal(t, "12.5", l.TopWhaleEdgeValue.String())
}

func TestValidate(t *testing.T) {
	t.Run("bad rate limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "RATE_LIMIT")
	})

	t.Run("bad seed count", func(t *testing.T) {
		t.Setenv("DISCOVERY_EXCHANGE_SEEDS", "-1")
		_, err := Load()
		assert.ErrorContains(t, err, "DISCOVERY_EXCHANGE_SEEDS")
	})
}

func TestMaskedAPIKey(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "", cfg.MaskedAPIKey())
	cfg.Explorer.APIKey = "abc"
	assert.Equal(t, "****", cfg.MaskedAPIKey())
}
