package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelFromScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected RiskLevel
	}{
		{0.0, RiskLevelLow},
		{0.249999, RiskLevelLow},
		{0.25, RiskLevelModerate},
		{0.499999, RiskLevelModerate},
		{0.5, RiskLevelHigh},
		{0.749999, RiskLevelHigh},
		{0.75, RiskLevelCritical},
		{1.0, RiskLevelCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RiskLevelFromScore(tt.score), "score %v", tt.score)
	}
}

func TestParseNetwork(t *testing.T) {
	network, err := ParseNetwork(" Bitcoin ")
	assert.NoError(t, err)
	assert.Equal(t, NetworkBitcoin, network)

	_, err = ParseNetwork("dogecoin")
	assert.Error(t, err)
}

func TestNetworkValid(t *testing.T) {
	for _, network := range SupportedNetworks {
		assert.True(t, network.Valid())
	}
	assert.False(t, Network("solana").Valid())
}
