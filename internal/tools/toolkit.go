package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/adapters/chain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/adapters/price"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/service"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
)

// Explorer is the raw explorer surface used by the query tools.
type Explorer interface {
	domain.ChainDataSource
	GetTransactionsInRange(ctx context.Context, address string, startBlock, endBlock uint64, page, pageSize int) ([]domain.Transaction, error)
	GetTokenTransfersFor(ctx context.Context, address, contract string, page, pageSize int) ([]domain.TokenTransfer, error)
	GetContractABI(ctx context.Context, address string) (string, error)
	GetGasPrices(ctx context.Context) (*domain.GasPrices, error)
}

// NativePricer quotes the native token.
type NativePricer interface {
	GetNativePrice(ctx context.Context) (*domain.NativePrice, error)
}

// ChainServices bundles everything the tools need for one chain.
type ChainServices struct {
	Config   chain.ChainConfig
	Explorer Explorer
	Analyzer *service.WhaleAnalyzer
	Price    NativePricer
}

// Builder creates the services of a chain on first use.
type Builder func(cfg chain.ChainConfig) (*ChainServices, error)

// BuilderOptions configures the explorer-backed Builder.
type BuilderOptions struct {
	Explorer chain.ExplorerOptions
	Entities domain.KnownEntities
	Limits   service.Limits
	// Store enables the balance cache when set.
	Store    chain.BalanceStore
	CacheTTL time.Duration
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewExplorerBuilder returns a Builder backed by the explorer API.
func NewExplorerBuilder(opts BuilderOptions) Builder {
	return func(cfg chain.ChainConfig) (*ChainServices, error) {
		client, err := chain.NewExplorerClient(cfg, opts.Explorer)
		if err != nil {
			return nil, err
		}

		var source domain.ChainDataSource = client
		if opts.Store != nil {
			source = chain.NewCachedDataSource(cfg.Key, client, opts.Store, opts.CacheTTL, opts.Logger)
		}

		entities := opts.Entities
		if entities == nil {
			entities = chain.NewStaticEntities()
		}

		return &ChainServices{
			Config:   cfg,
			Explorer: client,
			Analyzer: service.NewWhaleAnalyzer(cfg.Key, source, entities, opts.Limits, opts.Logger, opts.Now),
			Price:    price.NewExplorerPriceService(client),
		}, nil
	}
}

// Toolkit builds chain services lazily and caches them per chain.
type Toolkit struct {
	build      Builder
	configured func(chain.ChainConfig) bool
	limits     service.Limits

	mu       sync.Mutex
	services map[string]*ChainServices
}

// NewToolkit creates a toolkit. configured reports whether a chain has its
// API key; a nil func reports every chain as configured.
func NewToolkit(build Builder, configured func(chain.ChainConfig) bool, limits service.Limits) *Toolkit {
	if configured == nil {
		configured = func(chain.ChainConfig) bool { return true }
	}
	return &Toolkit{
		build:      build,
		configured: configured,
		limits:     limits,
		services:   make(map[string]*ChainServices),
	}
}

// Services returns the services of cfg, building them on first use.
func (k *Toolkit) Services(cfg chain.ChainConfig) (*ChainServices, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	key := strings.ToLower(cfg.Key)
	if s, ok := k.services[key]; ok {
		return s, nil
	}

	s, err := k.build(cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize %s: %w", key, err)
	}
	k.services[key] = s
	return s, nil
}

// Configured reports whether cfg has an API key.
func (k *Toolkit) Configured(cfg chain.ChainConfig) bool {
	return k.configured(cfg)
}

// Limits returns the analyzer limits the toolkit validates against.
func (k *Toolkit) Limits() service.Limits {
	return k.limits
}

// servicesFor resolves the chain argument and its services.
func (k *Toolkit) servicesFor(args Args) (*ChainServices, error) {
	cfg, err := args.Chain()
	if err != nil {
		return nil, err
	}
	return k.Services(cfg)
}
