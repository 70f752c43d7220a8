package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/adapters/chain"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/core/domain"
)

const defaultChain = "ethereum"

// Args are tool arguments as decoded from JSON or parsed from key=value pairs.
// Numbers may arrive as float64, json.Number or string.
type Args map[string]interface{}

// String returns a string argument or def when absent.
func (a Args) String(key, def string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return def
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Int returns an integer argument or def when absent.
func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != float64(int64(t)) {
			return 0, fmt.Errorf("%w: %s must be an integer, got %v", domain.ErrInvalidInput, key, t)
		}
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer, got %s", domain.ErrInvalidInput, key, t)
		}
		return int(n), nil
	case string:
		if t == "" {
			return def, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidInput, key, t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
}

// Decimal returns a numeric argument or def when absent.
func (a Args) Decimal(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case json.Number:
		return parseDecimal(key, t.String())
	case string:
		if t == "" {
			return def, nil
		}
		return parseDecimal(key, t)
	default:
		return decimal.Zero, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
	}
}

func parseDecimal(key, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, s)
	}
	return d, nil
}

// Chain returns the validated, lowercase chain argument.
func (a Args) Chain() (chain.ChainConfig, error) {
	name := a.String("chain", defaultChain)
	cfg, err := chain.Lookup(name)
	if err != nil {
		return chain.ChainConfig{}, fmt.Errorf("%w: unsupported chain: %s. Available: %s",
			domain.ErrInvalidInput, name, strings.Join(chain.SupportedChains(), ", "))
	}
	return cfg, nil
}

// Address returns a validated lowercase address argument.
func (a Args) Address(key string) (string, error) {
	raw := a.String(key, "")
	if raw == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, key)
	}
	return domain.ValidateAddress(raw)
}

// OptionalAddress is Address but returns "" when the argument is absent.
func (a Args) OptionalAddress(key string) (string, error) {
	if a.String(key, "") == "" {
		return "", nil
	}
	return a.Address(key)
}

// Positive returns a numeric argument that must be greater than zero.
func (a Args) Positive(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v, err := a.Decimal(key, def)
	if err != nil {
		return decimal.Zero, err
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be positive, got %s", domain.ErrInvalidInput, key, v)
	}
	return v, nil
}

// AddressList accepts a comma-separated string or a JSON array of addresses.
// Empty entries are dropped; count bounds are checked before format.
func (a Args) AddressList(key string, minCount, maxCount int) ([]string, error) {
	var raw []string
	switch t := a[key].(type) {
	case nil:
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []interface{}:
		for _, v := range t {
			raw = append(raw, fmt.Sprint(v))
		}
	default:
		return nil, fmt.Errorf("%w: %s must be a comma-separated list", domain.ErrInvalidInput, key)
	}

	var list []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}

	if len(list) > maxCount {
		return nil, fmt.Errorf("%w: maximum %d addresses allowed for comparison", domain.ErrInvalidInput, maxCount)
	}
	if len(list) < minCount {
		return nil, fmt.Errorf("%w: at least %d addresses required for comparison", domain.ErrInvalidInput, minCount)
	}

	out := make([]string, 0, len(list))
	for _, s := range list {
		addr, err := domain.ValidateAddress(s)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func atLeast(key string, v, lo int) error {
	if v < lo {
		return fmt.Errorf("%w: %s must be at least %d, got %d", domain.ErrInvalidInput, key, lo, v)
	}
	return nil
}
