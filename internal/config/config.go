package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/service"
)

type Config struct {
	App       AppConfig
	Explorer  ExplorerConfig
	Cache     CacheConfig
	Discovery DiscoveryConfig
	Host      HostConfig
	OpenAI    OpenAIConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"whale-scanner"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type ExplorerConfig struct {
	// The same key serves every chain on the V2 API.
	APIKey    string        `envconfig:"ETHERSCAN_API_KEY"`
	BaseURL   string        `envconfig:"EXPLORER_BASE_URL"`
	RateLimit float64       `envconfig:"RATE_LIMIT" default:"5"`
	Timeout   time.Duration `envconfig:"EXPLORER_TIMEOUT" default:"30s"`
}

type CacheConfig struct {
	Enabled  bool          `envconfig:"CACHE_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"CACHE_BALANCE_TTL" default:"30s"`
}

func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DiscoveryConfig struct {
	AnalyzeTxPage       int `envconfig:"DISCOVERY_ANALYZE_TX_PAGE" default:"100"`
	AnalyzeTransferPage int `envconfig:"DISCOVERY_ANALYZE_TRANSFER_PAGE" default:"50"`

	MovementSeeds   int `envconfig:"DISCOVERY_MOVEMENT_SEEDS" default:"10"`
	MovementTxPage  int `envconfig:"DISCOVERY_MOVEMENT_TX_PAGE" default:"20"`
	MovementResults int `envconfig:"DISCOVERY_MOVEMENT_RESULTS" default:"50"`

	TopWhaleSeeds          int             `envconfig:"DISCOVERY_TOP_WHALE_SEEDS" default:"5"`
	TopWhaleTxPage         int             `envconfig:"DISCOVERY_TOP_WHALE_TX_PAGE" default:"50"`
	TopWhaleCounterparties int             `envconfig:"DISCOVERY_TOP_WHALE_COUNTERPARTIES" default:"30"`
	TopWhaleResults        int             `envconfig:"DISCOVERY_TOP_WHALE_RESULTS" default:"20"`
	TopWhaleEdgeValue      decimal.Decimal `envconfig:"DISCOVERY_TOP_WHALE_EDGE_VALUE" default:"50"`

	ExchangeSeeds   int `envconfig:"DISCOVERY_EXCHANGE_SEEDS" default:"5"`
	ExchangeTxPage  int `envconfig:"DISCOVERY_EXCHANGE_TX_PAGE" default:"30"`
	ExchangeResults int `envconfig:"DISCOVERY_EXCHANGE_RESULTS" default:"30"`

	ComparePacing   time.Duration `envconfig:"DISCOVERY_COMPARE_PACING" default:"200ms"`
	DiscoveryPacing time.Duration `envconfig:"DISCOVERY_SEED_PACING" default:"300ms"`
	BalancePacing   time.Duration `envconfig:"DISCOVERY_BALANCE_PACING" default:"200ms"`
}

// Limits converts the discovery settings into analyzer limits.
func (c DiscoveryConfig) Limits() service.Limits {
	l := service.DefaultLimits()
	l.AnalyzeTxPage = c.AnalyzeTxPage
	l.AnalyzeTransferPage = c.AnalyzeTransferPage
	l.MovementSeeds = c.MovementSeeds
	l.MovementTxPage = c.MovementTxPage
	l.MovementResults = c.MovementResults
	l.TopWhaleSeeds = c.TopWhaleSeeds
	l.TopWhaleTxPage = c.TopWhaleTxPage
	l.TopWhaleCounterparties = c.TopWhaleCounterparties
	l.TopWhaleResults = c.TopWhaleResults
	l.TopWhaleEdgeValue = c.TopWhaleEdgeValue
	l.ExchangeSeeds = c.ExchangeSeeds
	l.ExchangeTxPage = c.ExchangeTxPage
	l.ExchangeResults = c.ExchangeResults
	l.ComparePacing = c.ComparePacing
	l.DiscoveryPacing = c.DiscoveryPacing
	l.BalancePacing = c.BalancePacing
	return l
}

type HostConfig struct {
	ListenAddr  string        `envconfig:"HOST_LISTEN_ADDR" default:":8080"`
	MetricsPath string        `envconfig:"HOST_METRICS_PATH" default:"/metrics"`
	AgentName   string        `envconfig:"AGENT_NAME" default:"whale-scanner"`
	TaskTimeout time.Duration `envconfig:"HOST_TASK_TIMEOUT" default:"120s"`
}

type OpenAIConfig struct {
	APIKey string `envconfig:"OPENAI_API_KEY"`
	Model  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
}

// Enabled reports whether natural-language routing can be used.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. A missing explorer key is not an error here;
// it is reported per chain when a client is built.
func (c *Config) Validate() error {
	if c.Explorer.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %v", c.Explorer.RateLimit)
	}
	if c.Explorer.Timeout <= 0 {
		return fmt.Errorf("EXPLORER_TIMEOUT must be positive, got %s", c.Explorer.Timeout)
	}
	if c.Host.TaskTimeout < 0 {
		return fmt.Errorf("HOST_TASK_TIMEOUT must not be negative")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_BALANCE_TTL must be positive when the cache is enabled")
	}

	d := c.Discovery
	positive := map[string]int{
		"DISCOVERY_ANALYZE_TX_PAGE":          d.AnalyzeTxPage,
		"DISCOVERY_ANALYZE_TRANSFER_PAGE":    d.AnalyzeTransferPage,
		"DISCOVERY_MOVEMENT_SEEDS":           d.MovementSeeds,
		"DISCOVERY_MOVEMENT_TX_PAGE":         d.MovementTxPage,
		"DISCOVERY_MOVEMENT_RESULTS":         d.MovementResults,
		"DISCOVERY_TOP_WHALE_SEEDS":          d.TopWhaleSeeds,
		"DISCOVERY_TOP_WHALE_TX_PAGE":        d.TopWhaleTxPage,
		"DISCOVERY_TOP_WHALE_COUNTERPARTIES": d.TopWhaleCounterparties,
		"DISCOVERY_TOP_WHALE_RESULTS":        d.TopWhaleResults,
		"DISCOVERY_EXCHANGE_SEEDS":           d.ExchangeSeeds,
		"DISCOVERY_EXCHANGE_TX_PAGE":         d.ExchangeTxPage,
		"DISCOVERY_EXCHANGE_RESULTS":         d.ExchangeResults,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if d.TopWhaleEdgeValue.IsNegative() {
		return fmt.Errorf("DISCOVERY_TOP_WHALE_EDGE_VALUE must not be negative")
	}
	if d.ComparePacing < 0 || d.DiscoveryPacing < 0 || d.BalancePacing < 0 {
		return fmt.Errorf("discovery pacing delays must not be negative")
	}
	return nil
}

// MaskedAPIKey returns the explorer key with all but the last 4 characters hidden.
func (c *Config) MaskedAPIKey() string {
	key := c.Explorer.APIKey
	if len(key) <= 4 {
		if key == "" {
			return ""
		}
		return "****"
	}
	return "****" + key[len(key)-4:]
}
