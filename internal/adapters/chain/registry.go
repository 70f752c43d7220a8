package chain

import (
	"fmt"
	"strings"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
)

// EtherscanV2API serves every supported chain, selected by the chainid param.
const EtherscanV2API = "https://api.etherscan.io/v2/api"

// ChainConfig describes one explorer-backed network.
type ChainConfig struct {
	Key          string
	Name         string
	Symbol       string
	APIURL       string
	APIKeyEnv    string
	ExplorerURL  string
	ChainID      int64
	PriceAction  string
	SupplyAction string
}

// TxURL links a transaction on the chain's explorer site.
func (c ChainConfig) TxURL(hash string) string {
	return c.ExplorerURL + "/tx/" + hash
}

// AddressURL links an address on the chain's explorer site.
func (c ChainConfig) AddressURL(address string) string {
	return c.ExplorerURL + "/address/" + address
}

var registry = []ChainConfig{
	{
		Key:          "ethereum",
		Name:         "Ethereum",
		Symbol:       "ETH",
		APIURL:       EtherscanV2API,
		APIKeyEnv:    "ETHERSCAN_API_KEY",
		ExplorerURL:  "https://etherscan.io",
		ChainID:      1,
		PriceAction:  "ethprice",
		SupplyAction: "ethsupply",
	},
	{
		// BSC on the V2 API needs a paid plan; the key is shared with Ethereum.
		Key:          "bsc",
		Name:         "BNB Smart Chain",
		Symbol:       "BNB",
		APIURL:       EtherscanV2API,
		APIKeyEnv:    "ETHERSCAN_API_KEY",
		ExplorerURL:  "https://bscscan.com",
		ChainID:      56,
		PriceAction:  "bnbprice",
		SupplyAction: "bnbsupply",
	},
}

// Lookup returns the configuration of chain, matched case-insensitively.
func Lookup(chain string) (ChainConfig, error) {
	key := strings.ToLower(strings.TrimSpace(chain))
	for _, c := range registry {
		if c.Key == key {
			return c, nil
		}
	}
	return ChainConfig{}, fmt.Errorf("%w: %s (available: %s)", domain.ErrUnknownChain, chain, strings.Join(SupportedChains(), ", "))
}

// SupportedChains lists chain keys in registry order.
func SupportedChains() []string {
	keys := make([]string, 0, len(registry))
	for _, c := range registry {
		keys = append(keys, c.Key)
	}
	return keys
}
