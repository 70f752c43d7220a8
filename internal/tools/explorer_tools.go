package tools

import (
	"context"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/adapters/chain"
)

// Tool names of the raw explorer surface.
const (
	ToolListChains     = "list_supported_chains"
	ToolCheckBalance   = "check_balance"
	ToolTransactions   = "get_transactions"
	ToolTokenTransfers = "get_token_transfers"
	ToolContractABI    = "get_contract_abi"
	ToolGasPrices      = "get_gas_prices"
	ToolNativePrice    = "get_native_price"
)

var (
	chainParam = jsonschema.Definition{
		Type:        jsonschema.String,
		Description: "Blockchain to query",
		Enum:        chain.SupportedChains(),
	}
	addressParam = jsonschema.Definition{
		Type:        jsonschema.String,
		Description: "0x-prefixed 20-byte address",
	}
)

func listChainsTool(kit *Toolkit) Tool {
	return New(ToolListChains, "List all supported blockchain networks and whether their API key is configured",
		object(nil, nil),
		func(ctx context.Context, args Args) (interface{}, error) {
			var out ChainsResult
			for _, key := range chain.SupportedChains() {
				cfg, err := chain.Lookup(key)
				if err != nil {
					return nil, err
				}
				out.Chains = append(out.Chains, ChainInfo{
					Key:         cfg.Key,
					Name:        cfg.Name,
					Symbol:      cfg.Symbol,
					ChainID:     cfg.ChainID,
					ExplorerURL: cfg.ExplorerURL,
					Configured:  kit.Configured(cfg),
				})
			}
			return &out, nil
		})
}

func checkBalanceTool(kit *Toolkit) Tool {
	return New(ToolCheckBalance, "Get the native token balance of an address",
		object([]string{"address"}, map[string]jsonschema.Definition{
			"address": addressParam,
			"chain":   chainParam,
		}),
		func(ctx context.Context, args Args) (interface{}, error) {
			address, err := args.Address("address")
			if err != nil {
				return nil, err
			}
			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			balance, err := svc.Explorer.GetBalance(ctx, address)
			if err != nil {
				return nil, err
			}
			return &BalanceResult{
				Header:      headerOf(svc.Config),
				Address:     address,
				Balance:     balance,
				ExplorerURL: svc.Config.AddressURL(address),
			}, nil
		})
}

func transactionsTool(kit *Toolkit) Tool {
	return New(ToolTransactions, "Get recent native token transactions of an address, newest first",
		object([]string{"address"}, map[string]jsonschema.Definition{
			"address":     addressParam,
			"chain":       chainParam,
			"start_block": {Type: jsonschema.Integer, Description: "First block to include (default 0)"},
			"end_block":   {Type: jsonschema.Integer, Description: "Last block to include (default 99999999)"},
			"page":        {Type: jsonschema.Integer, Description: "Page number (default 1)"},
			"offset":      {Type: jsonschema.Integer, Description: "Page size (default 10)"},
		}),
		func(ctx context.Context, args Args) (interface{}, error) {
			address, err := args.Address("address")
			if err != nil {
				return nil, err
			}
			start, err := args.Int("start_block", 0)
			if err != nil {
				return nil, err
			}
			end, err := args.Int("end_block", 99999999)
			if err != nil {
				return nil, err
			}
			page, err := args.Int("page", 1)
			if err != nil {
				return nil, err
			}
			offset, err := args.Int("offset", 10)
			if err != nil {
				return nil, err
			}
			for _, c := range []struct {
				key   string
				v, lo int
			}{{"start_block", start, 0}, {"end_block", end, 0}, {"page", page, 1}, {"offset", offset, 1}} {
				if err := atLeast(c.key, c.v, c.lo); err != nil {
					return nil, err
				}
			}

			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			txs, err := svc.Explorer.GetTransactionsInRange(ctx, address, uint64(start), uint64(end), page, offset)
			if err != nil {
				return nil, err
			}
			return &TransactionsResult{Header: headerOf(svc.Config), Address: address, Transactions: txs}, nil
		})
}

func tokenTransfersTool(kit *Toolkit) Tool {
	return New(ToolTokenTransfers, "Get ERC20/BEP20 token transfers of an address",
		object([]string{"address"}, map[string]jsonschema.Definition{
			"address":          addressParam,
			"chain":            chainParam,
			"contract_address": {Type: jsonschema.String, Description: "Only transfers of this token contract"},
			"page":             {Type: jsonschema.Integer, Description: "Page number (default 1)"},
			"offset":           {Type: jsonschema.Integer, Description: "Page size (default 10)"},
		}),
		func(ctx context.Context, args Args) (interface{}, error) {
			address, err := args.Address("address")
			if err != nil {
				return nil, err
			}
			contract, err := args.OptionalAddress("contract_address")
			if err != nil {
				return nil, err
			}
			page, err := args.Int("page", 1)
			if err != nil {
				return nil, err
			}
			offset, err := args.Int("offset", 10)
			if err != nil {
				return nil, err
			}
			if err := atLeast("page", page, 1); err != nil {
				return nil, err
			}
			if err := atLeast("offset", offset, 1); err != nil {
				return nil, err
			}

			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			transfers, err := svc.Explorer.GetTokenTransfersFor(ctx, address, contract, page, offset)
			if err != nil {
				return nil, err
			}
			return &TokenTransfersResult{
				Header:    headerOf(svc.Config),
				Address:   address,
				Contract:  contract,
				Transfers: transfers,
			}, nil
		})
}

func contractABITool(kit *Toolkit) Tool {
	return New(ToolContractABI, "Get the ABI of a verified smart contract",
		object([]string{"address"}, map[string]jsonschema.Definition{
			"address": addressParam,
			"chain":   chainParam,
		}),
		func(ctx context.Context, args Args) (interface{}, error) {
			address, err := args.Address("address")
			if err != nil {
				return nil, err
			}
			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			raw, err := svc.Explorer.GetContractABI(ctx, address)
			if err != nil {
				return nil, err
			}
			res := &ContractABIResult{Header: headerOf(svc.Config), Address: address, ABI: raw}
			res.Methods, res.Events = abiSignatures(raw)
			return res, nil
		})
}

func gasPricesTool(kit *Toolkit) Tool {
	return New(ToolGasPrices, "Get current gas price recommendations in Gwei",
		object(nil, map[string]jsonschema.Definition{"chain": chainParam}),
		func(ctx context.Context, args Args) (interface{}, error) {
			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			prices, err := svc.Explorer.GetGasPrices(ctx)
			if err != nil {
				return nil, err
			}
			return &GasPricesResult{Header: headerOf(svc.Config), Prices: *prices}, nil
		})
}

func nativePriceTool(kit *Toolkit) Tool {
	return New(ToolNativePrice, "Get the native token price in USD and BTC",
		object(nil, map[string]jsonschema.Definition{"chain": chainParam}),
		func(ctx context.Context, args Args) (interface{}, error) {
			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			p, err := svc.Price.GetNativePrice(ctx)
			if err != nil {
				return nil, err
			}
			return &NativePriceResult{Header: headerOf(svc.Config), Price: *p}, nil
		})
}

// abiSignatures lists method and event signatures of a JSON ABI, sorted.
// An ABI that does not parse yields no signatures.
func abiSignatures(raw string) (methods, events []string) {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		return nil, nil
	}
	for _, m := range parsed.Methods {
		methods = append(methods, m.Sig)
	}
	for _, e := range parsed.Events {
		events = append(events, e.Sig)
	}
	sort.Strings(methods)
	sort.Strings(events)
	return methods, events
}
