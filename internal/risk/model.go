// File: internal/risk/model.go
package risk

import (
	"sort"

	"github.com/archeblow/riskcore/internal/models"
)

// Heuristic identifies one of the independently weighted scoring heuristics
type Heuristic string

const (
	HeuristicMixerDetected    Heuristic = "mixer_detected"
	HeuristicFanOut           Heuristic = "fan_out"
	HeuristicFreshFunds       Heuristic = "fresh_funds"
	HeuristicRapidCirculation Heuristic = "rapid_circulation"
)

// DefaultWeights returns the default heuristic weights
func DefaultWeights() map[Heuristic]float64 {
	return map[Heuristic]float64{
		HeuristicMixerDetected:    0.6,
		HeuristicFanOut:           0.15,
		HeuristicFreshFunds:       0.1,
		HeuristicRapidCirculation: 0.15,
	}
}

const (
	// fanOutNormalizer converts the maximum distinct-destination count per
	// sender into a [0,1] ratio
	fanOutNormalizer = 20
	// freshWindowSeconds bounds the observed timestamp span considered fresh
	freshWindowSeconds = 86_400
	// circulationBaselineSeconds is the 10-minute average-delta baseline
	circulationBaselineSeconds = 600
)

// Model combines heuristic scores into a normalized risk indicator. The model
// is pure and deterministic: identical inputs always produce identical scores
// and notes, which keeps the assessment auditable.
type Model struct {
	weights map[Heuristic]float64
}

// NewModel creates a risk model. Supplied weights override the defaults
// per heuristic.
func NewModel(weights map[Heuristic]float64) *Model {
	merged := DefaultWeights()
	for heuristic, weight := range weights {
		merged[heuristic] = weight
	}
	return &Model{weights: merged}
}

// Evaluate returns a score between 0 (clean) and 1 (high risk) along with
// ordered human-readable notes explaining which heuristics fired.
func (m *Model) Evaluate(mixers []models.MixerMatch, hops []models.TransactionHop) (float64, []string) {
	score := 0.0
	var notes []string

	if len(mixers) > 0 {
		score += m.weights[HeuristicMixerDetected]
		highest := 0.0
		for _, match := range mixers {
			if match.Confidence > highest {
				highest = match.Confidence
			}
		}
		score += 0.1 * highest
		notes = append(notes, "Matches with known cryptocurrency mixers detected.")
	}

	fanOut := estimateFanOut(hops)
	score += fanOut * m.weights[HeuristicFanOut]
	if fanOut > 0.5 {
		notes = append(notes, "High degree of fund splitting across many addresses.")
	}

	if len(hops) > 0 && isFreshFunds(hops) {
		score += m.weights[HeuristicFreshFunds]
		notes = append(notes, "Funds arrived at the address recently; additional review required.")
	}

	circulation := estimateRapidCirculation(hops)
	score += circulation * m.weights[HeuristicRapidCirculation]
	if circulation > 0.5 {
		notes = append(notes, "Funds move through the network at high velocity, which may indicate trail obfuscation.")
	}

	// Clamp once after summation, not per-term
	if score > 1.0 {
		score = 1.0
	}
	return score, notes
}

// estimateFanOut computes, per distinct sending address, the count of
// distinct destinations, takes the maximum across senders, and normalizes it.
func estimateFanOut(hops []models.TransactionHop) float64 {
	if len(hops) == 0 {
		return 0
	}
	outgoing := make(map[string]map[string]struct{})
	for _, hop := range hops {
		destinations, ok := outgoing[hop.FromAddress]
		if !ok {
			destinations = make(map[string]struct{})
			outgoing[hop.FromAddress] = destinations
		}
		destinations[hop.ToAddress] = struct{}{}
	}
	maxBranches := 0
	for _, destinations := range outgoing {
		if len(destinations) > maxBranches {
			maxBranches = len(destinations)
		}
	}
	normalized := float64(maxBranches) / fanOutNormalizer
	if normalized > 1.0 {
		normalized = 1.0
	}
	return normalized
}

// isFreshFunds reports whether the span between the earliest and latest
// observed hop timestamps is under one day. This measures the observed
// window, not account age.
func isFreshFunds(hops []models.TransactionHop) bool {
	latest := hops[0].Timestamp
	earliest := hops[0].Timestamp
	for _, hop := range hops[1:] {
		if hop.Timestamp > latest {
			latest = hop.Timestamp
		}
		if hop.Timestamp < earliest {
			earliest = hop.Timestamp
		}
	}
	return latest-earliest < freshWindowSeconds
}

// estimateRapidCirculation returns a normalized indicator of rapid fund
// movement based on the average delta between consecutive hop timestamps.
func estimateRapidCirculation(hops []models.TransactionHop) float64 {
	if len(hops) < 2 {
		return 0
	}
	timestamps := make([]int64, len(hops))
	for i, hop := range hops {
		timestamps[i] = hop.Timestamp
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	var total int64
	for i := 1; i < len(timestamps); i++ {
		total += timestamps[i] - timestamps[i-1]
	}
	average := float64(total) / float64(len(timestamps)-1)
	if average <= 0 {
		return 1.0
	}
	normalized := 1.0 / (average / circulationBaselineSeconds)
	if normalized > 1.0 {
		normalized = 1.0
	}
	return normalized
}
