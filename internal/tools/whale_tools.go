package tools

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/service"
)

// Tool names of the whale analytics surface.
const (
	ToolAnalyzeWhale     = "analyze_whale"
	ToolDetectWhaleClass = "detect_whale_class"
	ToolCompareWhales    = "compare_whales"
	ToolWhaleMovements   = "discover_whale_movements"
	ToolTopWhales        = "discover_top_whales"
	ToolExchangeWhales   = "track_exchange_whales"
)

var (
	defaultMinMovement = decimal.NewFromInt(100)
	defaultMinBalance  = decimal.NewFromInt(1000)
	defaultMinExchange = decimal.NewFromInt(500)
)

// ErrNoComparableAddresses is returned when every address of a comparison failed.
var ErrNoComparableAddresses = fmt.Errorf("%w: could not analyze any of the provided addresses", domain.ErrDataSource)

func analyzeWhaleTool(kit *Toolkit) Tool {
	return New(ToolAnalyzeWhale, "Comprehensive whale analysis: tier, transaction statistics, activity and risk scores, token diversity",
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
			m, err := svc.Analyzer.AnalyzeAddress(ctx, address)
			if err != nil {
				return nil, err
			}
			return &AnalysisResult{Header: headerOf(svc.Config), Metrics: *m}, nil
		})
}

func detectWhaleClassTool(kit *Toolkit) Tool {
	return New(ToolDetectWhaleClass, "Quickly classify an address into a whale tier from its balance",
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
			c, err := svc.Analyzer.ClassifyAddress(ctx, address)
			if err != nil {
				return nil, err
			}
			return &ClassificationResult{Header: headerOf(svc.Config), Classification: *c}, nil
		})
}

func compareWhalesTool(kit *Toolkit) Tool {
	limits := kit.Limits()
	return New(ToolCompareWhales,
		fmt.Sprintf("Compare %d to %d addresses side by side, ordered by balance", limits.CompareMin, limits.CompareMax),
		object([]string{"addresses"}, map[string]jsonschema.Definition{
			"addresses": {Type: jsonschema.String, Description: "Comma-separated list of addresses"},
			"chain":     chainParam,
		}),
		func(ctx context.Context, args Args) (interface{}, error) {
			addresses, err := args.AddressList("addresses", limits.CompareMin, limits.CompareMax)
			if err != nil {
				return nil, err
			}
			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			whales, failures, err := svc.Analyzer.CompareAddresses(ctx, addresses)
			if err != nil {
				return nil, err
			}
			if len(whales) == 0 {
				return nil, ErrNoComparableAddresses
			}
			return &CompareResult{Header: headerOf(svc.Config), Whales: whales, Failures: failures}, nil
		})
}

func whaleMovementsTool(kit *Toolkit) Tool {
	return New(ToolWhaleMovements, "Discover recent large transfers made by known whales and exchanges",
		object(nil, map[string]jsonschema.Definition{
			"min_value": {Type: jsonschema.Number, Description: "Minimum transfer value in native units (default 100)"},
			"chain":     chainParam,
		}),
		func(ctx context.Context, args Args) (interface{}, error) {
			minValue, err := args.Positive("min_value", defaultMinMovement)
			if err != nil {
				return nil, err
			}
			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			movements, failures, err := svc.Analyzer.DiscoverWhaleMovements(ctx, minValue)
			if err != nil {
				return nil, err
			}
			return &MovementsResult{
				Header:    headerOf(svc.Config),
				MinValue:  minValue,
				Movements: movements,
				Failures:  failures,
			}, nil
		})
}

func topWhalesTool(kit *Toolkit) Tool {
	return New(ToolTopWhales, "Discover large holders by walking counterparties of known whales",
		object(nil, map[string]jsonschema.Definition{
			"min_balance": {Type: jsonschema.Number, Description: "Minimum balance in native units (default 1000)"},
			"chain":       chainParam,
		}),
		func(ctx context.Context, args Args) (interface{}, error) {
			minBalance, err := args.Positive("min_balance", defaultMinBalance)
			if err != nil {
				return nil, err
			}
			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			whales, failures, err := svc.Analyzer.DiscoverTopWhales(ctx, minBalance)
			if err != nil {
				return nil, err
			}
			return &TopWhalesResult{
				Header:     headerOf(svc.Config),
				MinBalance: minBalance,
				Whales:     whales,
				Failures:   failures,
			}, nil
		})
}

func exchangeWhalesTool(kit *Toolkit) Tool {
	return New(ToolExchangeWhales, "Track large deposits to and withdrawals from known exchanges",
		object(nil, map[string]jsonschema.Definition{
			"min_amount": {Type: jsonschema.Number, Description: "Minimum movement value in native units (default 500)"},
			"chain":      chainParam,
		}),
		func(ctx context.Context, args Args) (interface{}, error) {
			minAmount, err := args.Positive("min_amount", defaultMinExchange)
			if err != nil {
				return nil, err
			}
			svc, err := kit.servicesFor(args)
			if err != nil {
				return nil, err
			}
			movements, failures, err := svc.Analyzer.TrackExchangeWhales(ctx, minAmount)
			if err != nil {
				return nil, err
			}
			return &ExchangeResult{
				Header:    headerOf(svc.Config),
				MinAmount: minAmount,
				Movements: movements,
				Summary:   service.SummarizeExchangeFlow(movements),
				Failures:  failures,
			}, nil
		})
}

// RegisterAll registers every tool backed by kit.
func RegisterAll(reg *Registry, kit *Toolkit) {
	for _, t := range []Tool{
		listChainsTool(kit),
		checkBalanceTool(kit),
		transactionsTool(kit),
		tokenTransfersTool(kit),
		contractABITool(kit),
		gasPricesTool(kit),
		nativePriceTool(kit),
		analyzeWhaleTool(kit),
		detectWhaleClassTool(kit),
		compareWhalesTool(kit),
		whaleMovementsTool(kit),
		topWhalesTool(kit),
		exchangeWhalesTool(kit),
	} {
		reg.Register(t)
	}
}
