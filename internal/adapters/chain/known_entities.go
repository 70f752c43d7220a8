package chain

import (
	"strings"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
)

var knownWhales = map[string]domain.LabelTable{
	"ethereum": {
		{Address: "0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae", Label: "Ethereum Foundation"},
		{Address: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", Label: "WETH Contract"},
		{Address: "0xbe0eb53f46cd790cd13851d5eff43d12404d33e8", Label: "Binance 7"},
		{Address: "0x28c6c06298d514db089934071355e5743bf21d60", Label: "Binance 14"},
		{Address: "0xdfd5293d8e347dfe59e90efd55b2956a1343963d", Label: "Binance 8"},
		{Address: "0x47ac0fb4f2d84898e4d9e7b4dab3c24507a6d503", Label: "Binance: Binance-Peg Tokens"},
	},
	"bsc": {
		{Address: "0xf977814e90da44bfa03b6295a0616a897441acec", Label: "Binance Hot Wallet 20"},
		{Address: "0x8894e0a0c962cb723c1976a4421c95949be2d4e3", Label: "Binance Hot Wallet 6"},
		{Address: "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c", Label: "WBNB Contract"},
		{Address: "0x0000000000000000000000000000000000001004", Label: "BSC Token Hub"},
		{Address: "0x10ed43c718714eb63d5aa57b78b54704e256024e", Label: "PancakeSwap Router v2"},
		{Address: "0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82", Label: "CAKE Token"},
		{Address: "0x55d398326f99059ff775485246999027b3197955", Label: "Binance-Peg USDT"},
	},
}

var exchangeAddresses = map[string]domain.LabelTable{
	"ethereum": {
		{Address: "0x28c6c06298d514db089934071355e5743bf21d60", Label: "Binance"},
		{Address: "0xa090e606e30bd747d4e6245a1517ebe430f0057e", Label: "Gemini"},
		{Address: "0x6cc5f688a315f3dc28a7781717a9a798a59fda7b", Label: "OKEx"},
		{Address: "0x2b5634c42055806a59e9107ed44d43c426e58258", Label: "KuCoin"},
		{Address: "0x71660c4005ba85c37ccec55d0c4493e66fe775d3", Label: "Coinbase"},
		{Address: "0xfbb1b73c4f0bda4f67dca266ce6ef42f520fbb98", Label: "Bittrex"},
	},
	"bsc": {
		{Address: "0xf977814e90da44bfa03b6295a0616a897441acec", Label: "Binance"},
		{Address: "0x8894e0a0c962cb723c1976a4421c95949be2d4e3", Label: "Binance 6"},
		{Address: "0x28c6c06298d514db089934071355e5743bf21d60", Label: "Binance 14"},
		{Address: "0x7c0629bbbaf7d68ffaa393e3fedc9b633679fa5f", Label: "OKX"},
		{Address: "0xf89d7b9c864f589bbf53a82105107622b35eaa40", Label: "Bybit"},
		{Address: "0x53f78a071d04224b8e254e243fffc6d9f2f3fa23", Label: "KuCoin"},
		{Address: "0x0d0707963952f2fba59dd06f2b425ace40b492fe", Label: "Gate.io"},
		{Address: "0x72a53cdbbcc1b9efa39c834a540550e23463aacb", Label: "Crypto.com"},
		{Address: "0xefdca55e4bce6c1d535cb2d0687b5567eef2ae83", Label: "Huobi"},
	},
}

// StaticEntities serves the built-in whale and exchange label tables.
type StaticEntities struct{}

// NewStaticEntities returns the built-in label tables.
func NewStaticEntities() StaticEntities {
	return StaticEntities{}
}

// KnownWhales returns the whale table of chain; unknown chains yield nil.
func (StaticEntities) KnownWhales(chain string) domain.LabelTable {
	return knownWhales[strings.ToLower(chain)]
}

// ExchangeAddresses returns the exchange table of chain; unknown chains yield nil.
func (StaticEntities) ExchangeAddresses(chain string) domain.LabelTable {
	return exchangeAddresses[strings.ToLower(chain)]
}
