package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeblow/riskcore/internal/models"
)

func hop(from, to string, timestamp int64) models.TransactionHop {
	return models.TransactionHop{
		TxHash:      "tx",
		FromAddress: from,
		ToAddress:   to,
		Amount:      1,
		Timestamp:   timestamp,
	}
}

func TestEvaluateNoSignals(t *testing.T) {
	model := NewModel(nil)

	score, notes := model.Evaluate(nil, nil)
	assert.Equal(t, 0.0, score)
	assert.Empty(t, notes)
}

func TestEvaluateMixerDetected(t *testing.T) {
	model := NewModel(nil)
	mixers := []models.MixerMatch{
		{MixerName: "SampleMixer", Confidence: 0.5},
		{MixerName: "OtherMixer", Confidence: 0.9},
	}

	score, notes := model.Evaluate(mixers, nil)

	// mixer weight plus 0.1 times the highest match confidence
	assert.InDelta(t, 0.6+0.09, score, 1e-9)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "mixers")
}

func TestEvaluateFanOut(t *testing.T) {
	model := NewModel(nil)

	// One sender fanning out to 10 distinct destinations, spread out in
	// time so the freshness and circulation heuristics stay quiet
	var hops []models.TransactionHop
	for i := 0; i < 10; i++ {
		hops = append(hops, hop("sender", string(rune('a'+i)), int64(i)*200_000))
	}

	score, _ := model.Evaluate(nil, hops)
	// fan-out ratio 10/20 = 0.5 weighted by 0.15; circulation is negligible
	// at an average delta of 200k seconds
	assert.InDelta(t, 0.5*0.15, score, 0.01)
}

func TestEvaluateFreshFunds(t *testing.T) {
	model := NewModel(map[Heuristic]float64{
		HeuristicRapidCirculation: 0,
		HeuristicFanOut:           0,
	})

	hops := []models.TransactionHop{
		hop("a", "b", 1_000_000),
		hop("b", "c", 1_000_000+86_399),
	}
	score, notes := model.Evaluate(nil, hops)
	assert.InDelta(t, 0.1, score, 1e-9)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "recently")

	// Exactly one day span is no longer fresh
	hops[1].Timestamp = 1_000_000 + 86_400
	score, notes = model.Evaluate(nil, hops)
	assert.Equal(t, 0.0, score)
	assert.Empty(t, notes)
}

func TestEvaluateRapidCirculation(t *testing.T) {
	model := NewModel(map[Heuristic]float64{
		HeuristicFreshFunds: 0,
		HeuristicFanOut:     0,
	})

	// Average delta of 60 seconds is ten times faster than the baseline,
	// so the heuristic saturates at 1.0
	hops := []models.TransactionHop{
		hop("a", "b", 0),
		hop("b", "c", 60),
		hop("c", "d", 120),
	}
	score, notes := model.Evaluate(nil, hops)
	assert.InDelta(t, 0.15, score, 1e-9)
	// The short span also fires the freshness note even with its weight
	// zeroed out
	require.Len(t, notes, 2)
	assert.Contains(t, notes[1], "velocity")
}

func TestEvaluateZeroDurationSpanIsMaximal(t *testing.T) {
	model := NewModel(map[Heuristic]float64{
		HeuristicFreshFunds: 0,
		HeuristicFanOut:     0,
	})

	hops := []models.TransactionHop{
		hop("a", "b", 100),
		hop("b", "c", 100),
	}
	score, _ := model.Evaluate(nil, hops)
	assert.InDelta(t, 0.15, score, 1e-9)
}

func TestEvaluateScoreBounds(t *testing.T) {
	model := NewModel(nil)

	// Every heuristic firing at once must still clamp to 1.0
	mixers := []models.MixerMatch{{MixerName: "SampleMixer", Confidence: 1.0}}
	var hops []models.TransactionHop
	for i := 0; i < 25; i++ {
		hops = append(hops, hop("sender", string(rune('a'+i)), 100))
	}

	score, _ := model.Evaluate(mixers, hops)
	assert.Equal(t, 1.0, score)

	// Degenerate cases stay within bounds as well
	for _, hopSet := range [][]models.TransactionHop{nil, {hop("a", "b", 0)}} {
		score, _ := model.Evaluate(nil, hopSet)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestEvaluateCustomWeights(t *testing.T) {
	model := NewModel(map[Heuristic]float64{HeuristicMixerDetected: 0.3})

	score, _ := model.Evaluate([]models.MixerMatch{{MixerName: "SampleMixer", Confidence: 1.0}}, nil)
	assert.InDelta(t, 0.3+0.1, score, 1e-9)
}
