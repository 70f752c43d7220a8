package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
)

const (
	nativeDecimals   = 18
	balanceDecimals  = 6
	defaultEndBlock  = 99999999
	noTransactionMsg = "No transactions found"
)

// ExplorerOptions configures an ExplorerClient.
type ExplorerOptions struct {
	APIKey string
	// BaseURL overrides the registry API URL when set.
	BaseURL string
	// RateLimit is the request budget in requests per second.
	RateLimit  float64
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *ExplorerMetrics
	Logger     *logger.Logger
}

// ExplorerClient talks to an Etherscan-style explorer API for one chain.
// It keeps a single request in flight and spaces requests by the rate limit.
type ExplorerClient struct {
	cfg     ChainConfig
	apiKey  string
	apiURL  string
	client  *http.Client
	limiter *rate.Limiter
	metrics *ExplorerMetrics
	log     *logger.Logger

	mu sync.Mutex
}

// NewExplorerClient creates a client for cfg. The API key is mandatory.
func NewExplorerClient(cfg ChainConfig, opts ExplorerOptions) (*ExplorerClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: %s environment variable is required for %s",
			domain.ErrInvalidInput, cfg.APIKeyEnv, cfg.Name)
	}

	apiURL := cfg.APIURL
	if opts.BaseURL != "" {
		apiURL = opts.BaseURL
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Get()
	}

	return &ExplorerClient{
		cfg:     cfg,
		apiKey:  opts.APIKey,
		apiURL:  apiURL,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		metrics: opts.Metrics,
		log:     log.With("component", "explorer", "chain", cfg.Key),
	}, nil
}

// Chain returns the chain configuration.
func (c *ExplorerClient) Chain() ChainConfig {
	return c.cfg
}

// NativeSymbol implements domain.ChainDataSource.
func (c *ExplorerClient) NativeSymbol() string {
	return c.cfg.Symbol
}

// GetBalance returns the native balance rounded to 6 decimals.
func (c *ExplorerClient) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	raw, err := c.Call(ctx, "account", "balance", url.Values{
		"address": {address},
		"tag":     {"latest"},
	})
	if err != nil {
		return decimal.Zero, err
	}

	var wei string
	if err := json.Unmarshal(raw, &wei); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode balance: %v", domain.ErrDataSource, err)
	}
	balance, err := weiToNative(wei)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Round(balanceDecimals), nil
}

type rawTransaction struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	TimeStamp   string `json:"timeStamp"`
	BlockNumber string `json:"blockNumber"`
	GasUsed     string `json:"gasUsed"`
	IsError     string `json:"isError"`
}

// GetTransactions implements domain.ChainDataSource over the full block range.
func (c *ExplorerClient) GetTransactions(ctx context.Context, address string, page, pageSize int) ([]domain.Transaction, error) {
	return c.GetTransactionsInRange(ctx, address, 0, defaultEndBlock, page, pageSize)
}

// GetTransactionsInRange lists normal transactions between two blocks, newest first.
func (c *ExplorerClient) GetTransactionsInRange(ctx context.Context, address string, startBlock, endBlock uint64, page, pageSize int) ([]domain.Transaction, error) {
	raw, err := c.Call(ctx, "account", "txlist", url.Values{
		"address":    {address},
		"startblock": {strconv.FormatUint(startBlock, 10)},
		"endblock":   {strconv.FormatUint(endBlock, 10)},
		"page":       {strconv.Itoa(page)},
		"offset":     {strconv.Itoa(pageSize)},
		"sort":       {"desc"},
	})
	if err != nil {
		return nil, err
	}

	var items []rawTransaction
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode txlist: %v", domain.ErrDataSource, err)
	}

	txs := make([]domain.Transaction, 0, len(items))
	for _, it := range items {
		value, err := weiToNative(it.Value)
		if err != nil {
			return nil, err
		}
		ts, err := parseUnix(it.TimeStamp)
		if err != nil {
			return nil, err
		}
		txs = append(txs, domain.Transaction{
			Hash:        it.Hash,
			From:        it.From,
			To:          it.To,
			Value:       value,
			Timestamp:   ts,
			BlockNumber: parseUint(it.BlockNumber),
			GasUsed:     parseUint(it.GasUsed),
			IsError:     it.IsError == "1",
		})
	}
	return txs, nil
}

type rawTokenTransfer struct {
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	ContractAddress string `json:"contractAddress"`
	TokenName       string `json:"tokenName"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
	Value           string `json:"value"`
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
}

// GetTokenTransfers implements domain.ChainDataSource for all token contracts.
func (c *ExplorerClient) GetTokenTransfers(ctx context.Context, address string, page, pageSize int) ([]domain.TokenTransfer, error) {
	return c.GetTokenTransfersFor(ctx, address, "", page, pageSize)
}

// GetTokenTransfersFor lists ERC20/BEP20 transfers, optionally restricted to
// one token contract.
func (c *ExplorerClient) GetTokenTransfersFor(ctx context.Context, address, contract string, page, pageSize int) ([]domain.TokenTransfer, error) {
	params := url.Values{
		"address": {address},
		"page":    {strconv.Itoa(page)},
		"offset":  {strconv.Itoa(pageSize)},
		"sort":    {"desc"},
	}
	if contract != "" {
		params.Set("contractaddress", contract)
	}

	raw, err := c.Call(ctx, "account", "tokentx", params)
	if err != nil {
		return nil, err
	}

	var items []rawTokenTransfer
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode tokentx: %v", domain.ErrDataSource, err)
	}

	transfers := make([]domain.TokenTransfer, 0, len(items))
	for _, it := range items {
		decimals, err := parseTokenDecimals(it.TokenDecimal)
		if err != nil {
			return nil, err
		}
		value, err := scaleInteger(it.Value, decimals)
		if err != nil {
			return nil, err
		}
		ts, err := parseUnix(it.TimeStamp)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, domain.TokenTransfer{
			Hash:            it.Hash,
			From:            it.From,
			To:              it.To,
			ContractAddress: it.ContractAddress,
			TokenName:       it.TokenName,
			TokenSymbol:     it.TokenSymbol,
			TokenDecimals:   decimals,
			Value:           value,
			BlockNumber:     parseUint(it.BlockNumber),
			Timestamp:       ts,
		})
	}
	return transfers, nil
}

// GetContractABI returns the ABI JSON of a verified contract.
func (c *ExplorerClient) GetContractABI(ctx context.Context, address string) (string, error) {
	raw, err := c.Call(ctx, "contract", "getabi", url.Values{"address": {address}})
	if err != nil {
		return "", err
	}
	var abi string
	if err := json.Unmarshal(raw, &abi); err != nil {
		return "", fmt.Errorf("%w: decode abi: %v", domain.ErrDataSource, err)
	}
	return abi, nil
}

// GetGasPrices returns the gas oracle quotes in Gwei.
func (c *ExplorerClient) GetGasPrices(ctx context.Context) (*domain.GasPrices, error) {
	raw, err := c.Call(ctx, "gastracker", "gasoracle", nil)
	if err != nil {
		return nil, err
	}
	var oracle struct {
		Safe     string `json:"SafeGasPrice"`
		Standard string `json:"ProposeGasPrice"`
		Fast     string `json:"FastGasPrice"`
	}
	if err := json.Unmarshal(raw, &oracle); err != nil {
		return nil, fmt.Errorf("%w: decode gasoracle: %v", domain.ErrDataSource, err)
	}
	return &domain.GasPrices{Safe: oracle.Safe, Standard: oracle.Standard, Fast: oracle.Fast}, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Call performs one explorer request and returns its "result" field.
// An explorer "No transactions found" reply yields an empty JSON array.
func (c *ExplorerClient) Call(ctx context.Context, module, action string, params url.Values) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter %s: %w", c.cfg.Key, err)
	}

	start := time.Now()
	result, outcome, err := c.do(ctx, module, action, params)
	c.metrics.Observe(c.cfg.Key, action, outcome, time.Since(start))
	if err != nil {
		c.log.Debugw("Explorer request failed", "action", action, "error", err)
		return nil, err
	}
	return result, nil
}

func (c *ExplorerClient) do(ctx context.Context, module, action string, params url.Values) (json.RawMessage, string, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("module", module)
	q.Set("action", action)
	if strings.Contains(c.apiURL, "/v2/") {
		q.Set("chainid", strconv.FormatInt(c.cfg.ChainID, 10))
	}
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, OutcomeError, fmt.Errorf("%w: build request: %v", domain.ErrDataSource, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, OutcomeError, fmt.Errorf("%w: %s: %w", domain.ErrDataSource, c.cfg.Name, ctx.Err())
		}
		return nil, OutcomeError, fmt.Errorf("%w: HTTP error on %s: %v", domain.ErrDataSource, c.cfg.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, OutcomeError, fmt.Errorf("%w: %s returned status %d: %s",
			domain.ErrDataSource, c.cfg.Name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, OutcomeError, fmt.Errorf("%w: decode %s response: %v", domain.ErrDataSource, c.cfg.Name, err)
	}

	if env.Status == "0" {
		if strings.Contains(env.Message, noTransactionMsg) {
			return json.RawMessage("[]"), OutcomeEmpty, nil
		}
		msg := env.Message
		var detail string
		if json.Unmarshal(env.Result, &detail) == nil && detail != "" {
			msg += ": " + detail
		}
		return nil, OutcomeError, fmt.Errorf("%w: %s API error: %s", domain.ErrDataSource, c.cfg.Name, msg)
	}

	return env.Result, OutcomeSuccess, nil
}

// weiToNative converts an integer wei string into native units.
func weiToNative(wei string) (decimal.Decimal, error) {
	return scaleInteger(wei, nativeDecimals)
}

func scaleInteger(s string, decimals int32) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: invalid integer value %q", domain.ErrDataSource, s)
	}
	return decimal.NewFromBigInt(v, -decimals), nil
}

// parseTokenDecimals accepts 0-255, the range of an ERC-20 decimals() value.
// An empty field means 0.
func parseTokenDecimals(s string) (int32, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid token decimals %q", domain.ErrDataSource, s)
	}
	return int32(v), nil
}

func parseUnix(s string) (time.Time, error) {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", domain.ErrDataSource, s)
	}
	return time.Unix(sec, 0).UTC(), nil
}

func parseUint(s string) uint64 {
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}
