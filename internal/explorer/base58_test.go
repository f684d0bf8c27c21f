package explorer

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase58CheckEncode(t *testing.T) {
	payload, err := hex.DecodeString("418840E6C55B9ADA326D211D818C34A994AECED808")
	require.NoError(t, err)
	assert.Equal(t, "TNPeeaaFB7K9cmo4uQpcU32zGK8G1NYqeL", base58CheckEncode(payload))
}

func TestBase58CheckEncodeLeadingZeros(t *testing.T) {
	payload, err := hex.DecodeString("0000000000000000000000000000000000000000")
	require.NoError(t, err)

	encoded := base58CheckEncode(payload)
	assert.True(t, strings.HasPrefix(encoded, strings.Repeat("1", 20)))
	assert.Equal(t, "111111111111111111117K4nzc", encoded)
}

func TestTronAddress(t *testing.T) {
	assert.Equal(t, "TNPeeaaFB7K9cmo4uQpcU32zGK8G1NYqeL",
		tronAddress("418840E6C55B9ADA326D211D818C34A994AECED808"))

	// Display-form addresses and short values pass through untouched
	assert.Equal(t, "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", tronAddress("TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"))
	assert.Equal(t, "abc123", tronAddress("abc123"))
	assert.Equal(t, UnknownAddress, tronAddress(""))
}
