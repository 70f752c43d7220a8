package scanner

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sashabaranov/go-openai"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/adapters/chain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/config"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/tools"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/agent"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
)

// App holds the wired components of the scanner.
type App struct {
	Config   *config.Config
	Registry *tools.Registry
	Agent    *Agent
	Metrics  *prometheus.Registry

	log     *logger.Logger
	closers []func() error
}

// New wires configuration into tools, the agent and its metrics registry.
// A configured but unreachable Redis disables the balance cache.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Get()
	}

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := &App{Config: cfg, Metrics: metrics, log: log}

	var store chain.BalanceStore
	if cfg.Cache.Enabled {
		rs, err := chain.NewRedisBalanceStore(ctx, cfg.Cache.Addr(), cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			log.Warnw("Balance cache unavailable, continuing without it", "addr", cfg.Cache.Addr(), "error", err)
		} else {
			log.Infow("Balance cache enabled", "addr", cfg.Cache.Addr(), "ttl", cfg.Cache.TTL)
			store = rs
			app.closers = append(app.closers, rs.Close)
		}
	}

	limits := cfg.Discovery.Limits()
	build := tools.NewExplorerBuilder(tools.BuilderOptions{
		Explorer: chain.ExplorerOptions{
			APIKey:    cfg.Explorer.APIKey,
			BaseURL:   cfg.Explorer.BaseURL,
			RateLimit: cfg.Explorer.RateLimit,
			Timeout:   cfg.Explorer.Timeout,
			Metrics:   chain.NewExplorerMetrics(metrics),
			Logger:    log,
		},
		Entities: chain.NewStaticEntities(),
		Limits:   limits,
		Store:    store,
		CacheTTL: cfg.Cache.TTL,
		Logger:   log,
	})
	configured := func(chain.ChainConfig) bool { return cfg.Explorer.APIKey != "" }

	app.Registry = tools.NewRegistry()
	tools.RegisterAll(app.Registry, tools.NewToolkit(build, configured, limits))

	var router Router
	if cfg.OpenAI.Enabled() {
		router = agent.NewNLPRouter(openai.NewClient(cfg.OpenAI.APIKey), cfg.OpenAI.Model, tools.Definitions(app.Registry), log)
		log.Infow("Natural-language routing enabled", "model", cfg.OpenAI.Model)
	}

	app.Agent = NewAgent(app.Registry, router, log)
	app.Agent.cleanup = app.Close

	log.Infow("Scanner initialized",
		"chains", chain.SupportedChains(),
		"api_key", cfg.MaskedAPIKey(),
		"tools", len(app.Registry.List()),
	)
	return app, nil
}

// Host builds the websocket host serving the agent.
func (a *App) Host() (*agent.Host, error) {
	return agent.NewHost(agent.HostConfig{
		Name:         a.Config.Host.AgentName,
		ListenAddr:   a.Config.Host.ListenAddr,
		MetricsPath:  a.Config.Host.MetricsPath,
		Capabilities: a.Registry.List(),
		TaskTimeout:  a.Config.Host.TaskTimeout,
		Registry:     a.Metrics,
	}, a.Agent, a.log)
}

// Close releases external connections. It is safe to call more than once.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
