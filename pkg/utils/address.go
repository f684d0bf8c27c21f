package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidHexAddress checks if a string is a valid account-model (0x) address
func IsValidHexAddress(address string) bool {
	return common.IsHexAddress(address)
}

// NormalizeAddress lowercases an address for use as a lookup key
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ShortAddress abbreviates an address for log output
func ShortAddress(value string) string {
	if len(value) <= 15 {
		return value
	}
	return fmt.Sprintf("%s…%s", value[:6], value[len(value)-4:])
}
