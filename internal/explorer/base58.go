package explorer

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var base58Radix = big.NewInt(58)

// base58CheckEncode appends the 4-byte double-SHA256 checksum to the payload
// and encodes the result as base58, preserving leading zero bytes as literal
// '1' characters.
func base58CheckEncode(data []byte) string {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	payload := append(append([]byte{}, data...), second[:4]...)

	num := new(big.Int).SetBytes(payload)
	var encoded []byte
	mod := new(big.Int)
	for num.Sign() > 0 {
		num.DivMod(num, base58Radix, mod)
		encoded = append(encoded, base58Alphabet[mod.Int64()])
	}
	for i, j := 0, len(encoded)-1; i < j; i, j = i+1, j-1 {
		encoded[i], encoded[j] = encoded[j], encoded[i]
	}

	leadingZeros := 0
	for _, b := range payload {
		if b != 0 {
			break
		}
		leadingZeros++
	}

	result := strings.Repeat("1", leadingZeros) + string(encoded)
	if result == "" {
		return "1"
	}
	return result
}

// tronAddress converts a hex-encoded TRON identifier to its base58check
// display form. Values that already look like display addresses pass through.
func tronAddress(raw string) string {
	value := safeAddress(raw)
	if value == UnknownAddress {
		return value
	}
	if strings.HasPrefix(value, "T") {
		return value
	}
	if len(value) >= 42 && isHexString(value) {
		data, err := hex.DecodeString(value)
		if err != nil {
			return value
		}
		return base58CheckEncode(data)
	}
	return value
}

func isHexString(value string) bool {
	for _, ch := range value {
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}
