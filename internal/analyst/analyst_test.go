package analyst

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeblow/riskcore/internal/models"
)

const fixedNow = int64(1_700_000_000)

func newFixedAnalyst() *Analyst {
	return New(WithClock(func() int64 { return fixedNow }))
}

func criticalResult() *models.AddressAnalysisResult {
	// 20 counterparties and over 10 native units of volume, all within the
	// last 24 hours
	hops := make([]models.TransactionHop, 0, 20)
	for i := 0; i < 20; i++ {
		hops = append(hops, models.TransactionHop{
			TxHash:      fmt.Sprintf("tx%02d", i),
			FromAddress: "addr1",
			ToAddress:   fmt.Sprintf("peer%02d", i),
			Amount:      0.75,
			Timestamp:   fixedNow - int64(i+1)*600,
		})
	}
	return &models.AddressAnalysisResult{
		Address:   "addr1",
		Network:   models.NetworkBitcoin,
		RiskScore: 0.9,
		RiskLevel: models.RiskLevelCritical,
		Hops:      hops,
		Mixers:    []models.MixerMatch{{MixerName: "Sample Tumbler", Confidence: 0.7}},
		Notes:     []string{"Matches with known cryptocurrency mixers detected."},
		Sources:   []string{"Stub Explorer"},
	}
}

func TestGenerateBriefingCriticalAddress(t *testing.T) {
	briefing := newFixedAnalyst().GenerateBriefing(criticalResult())

	assert.Equal(t, "addr1", briefing.Address)
	assert.Equal(t, models.RiskLevelCritical, briefing.RiskLevel)
	assert.Equal(t, fixedNow, briefing.GeneratedAt)

	require.Len(t, briefing.Recommendations, 5)
	assert.Equal(t, "Immediate containment measures", briefing.Recommendations[0].Title)
	assert.Equal(t, "Suspicious service review", briefing.Recommendations[1].Title)
	assert.Equal(t, "Fresh activity monitoring", briefing.Recommendations[2].Title)
	assert.Equal(t, "Financial audit", briefing.Recommendations[3].Title)
	assert.Equal(t, "Counterparty clustering", briefing.Recommendations[4].Title)
	assert.Equal(t, models.PriorityHigh, briefing.Recommendations[0].Priority)

	// base 0.4 + coverage min(0.45, 20*0.02) + 0.1 mixers + 0.05 recent
	assert.InDelta(t, 0.4+0.4+0.1+0.05, briefing.Confidence, 1e-9)

	require.Len(t, briefing.Alerts, 3)
	assert.Contains(t, briefing.Alerts[0], "immediate response required")
	assert.Contains(t, briefing.Alerts[1], "mixer associations")
	assert.Contains(t, briefing.Alerts[2], "fresh activity")

	assert.Contains(t, briefing.Summary, "risk level assessed as critical (0.90)")
	assert.Contains(t, briefing.Summary, "transactions analyzed: 20")
	assert.Contains(t, briefing.Summary, "fresh activity detected within the last 24 hours")
}

func TestGenerateBriefingCriticalWithoutRecentActivity(t *testing.T) {
	result := criticalResult()
	for i := range result.Hops {
		result.Hops[i].Timestamp = fixedNow - 72*3600 - int64(i)*600
	}

	briefing := newFixedAnalyst().GenerateBriefing(result)

	require.Len(t, briefing.Recommendations, 4)
	assert.Equal(t, "Immediate containment measures", briefing.Recommendations[0].Title)
	assert.Equal(t, "Suspicious service review", briefing.Recommendations[1].Title)
	assert.Equal(t, "Financial audit", briefing.Recommendations[2].Title)
	assert.Equal(t, "Counterparty clustering", briefing.Recommendations[3].Title)

	assert.InDelta(t, 0.4+0.4+0.1, briefing.Confidence, 1e-9)
	require.Len(t, briefing.Alerts, 2)
}

func TestGenerateBriefingHighlights(t *testing.T) {
	briefing := newFixedAnalyst().GenerateBriefing(criticalResult())

	assert.Contains(t, briefing.Highlights, "Mixer associations detected: Sample Tumbler")
	assert.Contains(t, briefing.Highlights, "Matches with known cryptocurrency mixers detected.")
	assert.Contains(t, briefing.Highlights, "Estimated wallet volume: 15.0000")
	assert.Contains(t, briefing.Highlights, "High network interaction: 20 unique counterparties observed")
	assert.Contains(t, briefing.Highlights, "Last activity 0.2 hours ago")
}

func TestGenerateBriefingQuietAddress(t *testing.T) {
	result := &models.AddressAnalysisResult{
		Address:   "addr2",
		Network:   models.NetworkEthereum,
		RiskScore: 0.05,
		RiskLevel: models.RiskLevelLow,
	}
	briefing := newFixedAnalyst().GenerateBriefing(result)

	require.Len(t, briefing.Recommendations, 1)
	assert.Equal(t, "Routine review", briefing.Recommendations[0].Title)
	assert.Equal(t, models.PriorityLow, briefing.Recommendations[0].Priority)
	assert.Empty(t, briefing.Alerts)
	assert.InDelta(t, 0.25, briefing.Confidence, 1e-9)
	assert.NotContains(t, briefing.Summary, "transactions analyzed")
}

func TestGenerateBriefingModerateAddress(t *testing.T) {
	result := &models.AddressAnalysisResult{
		Address:   "addr3",
		Network:   models.NetworkBitcoin,
		RiskScore: 0.3,
		RiskLevel: models.RiskLevelModerate,
		Hops: []models.TransactionHop{
			{TxHash: "tx1", FromAddress: "peer", ToAddress: "addr3", Amount: 1.0, Timestamp: fixedNow - 48*3600},
		},
	}
	briefing := newFixedAnalyst().GenerateBriefing(result)

	require.Len(t, briefing.Recommendations, 1)
	assert.Equal(t, "Extended monitoring", briefing.Recommendations[0].Title)
	// single hop keeps the base confidence at 0.25 plus one hop of coverage
	assert.InDelta(t, 0.25+0.02, briefing.Confidence, 1e-9)
	assert.Contains(t, briefing.Highlights, "Last activity 48.0 hours ago")
}

func TestEstimateConfidenceClamped(t *testing.T) {
	assert.Equal(t, 1.0, estimateConfidence(500, true, true))
}

func TestCollectCounterparties(t *testing.T) {
	hops := []models.TransactionHop{
		{FromAddress: "ADDR1", ToAddress: "peerB"},
		{FromAddress: "peerA", ToAddress: "addr1"},
		{FromAddress: "peerA", ToAddress: ""},
	}
	parties := collectCounterparties("addr1", hops)
	assert.Equal(t, []string{"peerA", "peerB"}, parties)
}

func TestPlaybookMentionsWorkflow(t *testing.T) {
	text := Playbook()
	assert.Contains(t, text, "recommendations")
	assert.Contains(t, text, "risk level")
}
