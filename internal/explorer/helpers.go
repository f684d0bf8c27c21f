package explorer

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/archeblow/riskcore/internal/models"
)

// Native-unit divisors per network family
const (
	satoshiPerCoin = 100_000_000
	weiPerEther    = 1e18
	sunPerTRX      = 1_000_000
)

// coerceFloat converts a loosely typed numeric field to float64. Invalid or
// missing values coerce to 0 rather than failing the whole payload.
func coerceFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// coerceTimestamp converts a loosely typed timestamp field to Unix seconds,
// applying multiplier first (e.g. 0.001 for millisecond timestamps).
// Unparsable values coerce to now.
func coerceTimestamp(value interface{}, multiplier float64, now int64) int64 {
	switch v := value.(type) {
	case float64:
		return int64(v * multiplier)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return now
		}
		return int64(f * multiplier)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return now
		}
		return int64(f * multiplier)
	default:
		return now
	}
}

// parseISOTimestamp parses an RFC3339 timestamp, substituting now on failure
func parseISOTimestamp(value string, now int64) int64 {
	if value == "" {
		return now
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return now
		}
	}
	return parsed.Unix()
}

// safeAddress substitutes the sentinel marker for missing addresses
func safeAddress(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return UnknownAddress
	}
	return trimmed
}

func satoshiToCoin(value interface{}) float64 {
	return coerceFloat(value) / satoshiPerCoin
}

func weiToEth(value interface{}) float64 {
	return coerceFloat(value) / weiPerEther
}

func sunToTRX(value interface{}) float64 {
	return coerceFloat(value) / sunPerTRX
}

// sortAndCapHops orders hops newest first and enforces the per-address cap.
// This happens once at the client boundary; downstream consumers never
// re-sort.
func sortAndCapHops(hops []models.TransactionHop) []models.TransactionHop {
	sort.SliceStable(hops, func(i, j int) bool {
		return hops[i].Timestamp > hops[j].Timestamp
	})
	if len(hops) > maxHops {
		hops = hops[:maxHops]
	}
	return hops
}
