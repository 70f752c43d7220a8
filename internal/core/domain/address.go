package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress lowercases an address for map lookups and comparisons.
// It is idempotent and does not validate.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ValidateAddress checks the 0x-prefixed 40-hex-digit format and returns the
// lowercase form.
func ValidateAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !strings.HasPrefix(address, "0x") && !strings.HasPrefix(address, "0X") {
		return "", fmt.Errorf("%w: invalid address format: %q", ErrInvalidInput, address)
	}
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: invalid address format: %q", ErrInvalidInput, address)
	}
	return strings.ToLower(common.HexToAddress(address).Hex()), nil
}
