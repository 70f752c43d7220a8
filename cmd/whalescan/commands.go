package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/config"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/scanner"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/tools"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/agent"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/types"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/version"
)

// executor runs a single tool request and returns the formatted output.
type executor func(ctx context.Context, req *types.TaskRequest) (string, error)

type cli struct {
	chain   string
	json    bool
	verbose bool

	exec executor
	app  *scanner.App
}

// newRootCommand builds the command tree. A nil exec wires the real scanner
// on first use.
func newRootCommand(exec executor) *cobra.Command {
	c := &cli{exec: exec}

	root := &cobra.Command{
		Use:   "whalescan",
		Short: "Whale analytics over Etherscan-compatible explorers",
		Long: `whalescan classifies large holders, tracks their movements and
follows exchange flows on Ethereum and BNB Smart Chain.

The explorer API key is read from ETHERSCAN_API_KEY (or a .env file).`,
		Version:       version.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}
	root.PersistentFlags().StringVar(&c.chain, "chain", "ethereum", "chain to query: ethereum or bsc")
	root.PersistentFlags().BoolVar(&c.json, "json", false, "print the structured result as JSON")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log explorer activity to stderr")

	root.AddCommand(
		c.chainsCommand(),
		c.balanceCommand(),
		c.txsCommand(),
		c.tokensCommand(),
		c.abiCommand(),
		c.gasCommand(),
		c.priceCommand(),
		c.analyzeCommand(),
		c.classifyCommand(),
		c.compareCommand(),
		c.movementsCommand(),
		c.topCommand(),
		c.exchangesCommand(),
		c.serveCommand(),
	)
	return root
}

func (c *cli) chainsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List supported chains and their configuration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolListChains, map[string]interface{}{})
		},
	}
}

func (c *cli) balanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the native balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolCheckBalance, map[string]interface{}{"address": args[0]})
		},
	}
}

func (c *cli) txsCommand() *cobra.Command {
	var start, end, page, offset int

	cmd := &cobra.Command{
		Use:   "txs <address>",
		Short: "List normal transactions of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolTransactions, map[string]interface{}{
				"address":     args[0],
				"start_block": start,
				"end_block":   end,
				"page":        page,
				"offset":      offset,
			})
		},
	}
	cmd.Flags().IntVar(&start, "start-block", 0, "first block")
	cmd.Flags().IntVar(&end, "end-block", 99999999, "last block")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	cmd.Flags().IntVar(&offset, "offset", 10, "results per page")
	return cmd
}

func (c *cli) tokensCommand() *cobra.Command {
	var contract string
	var page, offset int

	cmd := &cobra.Command{
		Use:   "tokens <address>",
		Short: "List ERC-20 transfers of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolTokenTransfers, map[string]interface{}{
				"address":          args[0],
				"contract_address": contract,
				"page":             page,
				"offset":           offset,
			})
		},
	}
	cmd.Flags().StringVar(&contract, "contract", "", "only transfers of this token contract")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	cmd.Flags().IntVar(&offset, "offset", 10, "results per page")
	return cmd
}

func (c *cli) abiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "abi <contract>",
		Short: "Fetch the verified ABI of a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolContractABI, map[string]interface{}{"address": args[0]})
		},
	}
}

func (c *cli) gasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gas",
		Short: "Show the gas oracle prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolGasPrices, map[string]interface{}{})
		},
	}
}

func (c *cli) priceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Show the native token price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolNativePrice, map[string]interface{}{})
		},
	}
}

func (c *cli) analyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <address>",
		Short: "Full whale analysis of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolAnalyzeWhale, map[string]interface{}{"address": args[0]})
		},
	}
}

func (c *cli) classifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <address>",
		Short: "Classify an address into a whale tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolDetectWhaleClass, map[string]interface{}{"address": args[0]})
		},
	}
}

func (c *cli) compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <address> <address> [address...]",
		Short: "Rank two to ten addresses by balance",
		Example: `  whalescan compare 0xabc...,0xdef...
  whalescan compare 0xabc... 0xdef... --chain bsc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolCompareWhales, map[string]interface{}{
				"addresses": strings.Join(args, ","),
			})
		},
	}
}

func (c *cli) movementsCommand() *cobra.Command {
	var minValue float64

	cmd := &cobra.Command{
		Use:   "movements",
		Short: "Discover recent large transfers around known whales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolWhaleMovements, map[string]interface{}{"min_value": minValue})
		},
	}
	cmd.Flags().Float64Var(&minValue, "min-value", 100, "minimum transfer value in native units")
	return cmd
}

func (c *cli) topCommand() *cobra.Command {
	var minBalance float64

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Discover the largest holders reachable from known whales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolTopWhales, map[string]interface{}{"min_balance": minBalance})
		},
	}
	cmd.Flags().Float64Var(&minBalance, "min-balance", 1000, "minimum balance in native units")
	return cmd
}

func (c *cli) exchangesCommand() *cobra.Command {
	var minAmount float64

	cmd := &cobra.Command{
		Use:   "exchanges",
		Short: "Track large deposits to and withdrawals from exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, tools.ToolExchangeWhales, map[string]interface{}{"min_amount": minAmount})
		},
	}
	cmd.Flags().Float64Var(&minAmount, "min-amount", 500, "minimum transfer amount in native units")
	return cmd
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the websocket agent host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.scanner(cmd.Context())
			if err != nil {
				return err
			}
			host, err := app.Host()
			if err != nil {
				return err
			}
			return agent.Run(cmd.Context(), host)
		},
	}
}

// run executes tool with the persistent flags merged into args.
func (c *cli) run(cmd *cobra.Command, tool string, args map[string]interface{}) error {
	if tool != tools.ToolListChains {
		args["chain"] = c.chain
	}
	req := &types.TaskRequest{Tool: tool, Args: args, Format: types.ResponseFormatText}
	if c.json {
		req.Format = types.ResponseFormatJSON
	}

	exec := c.exec
	if exec == nil {
		app, err := c.scanner(cmd.Context())
		if err != nil {
			return err
		}
		exec = app.Agent.Execute
	}

	out, err := exec(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func (c *cli) scanner(ctx context.Context) (*scanner.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	if err := logger.Init(level, cfg.App.Env); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app, err := scanner.New(ctx, cfg, logger.Get())
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}
