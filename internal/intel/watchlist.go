package intel

import (
	"context"

	"github.com/archeblow/riskcore/internal/models"
	"github.com/archeblow/riskcore/pkg/utils"
)

// defaultBaseConfidence is assigned to a direct watchlist hit on the analyzed
// address; hop destinations are discounted slightly below it.
const defaultBaseConfidence = 0.7

// hopConfidenceFactor discounts matches found on hop destinations
const hopConfidenceFactor = 0.9

// WatchlistSource is a deterministic mixer intelligence source backed by a
// static, case-insensitive table of known illicit-service addresses.
type WatchlistSource struct {
	watchlist      map[string]string
	baseConfidence float64
	serviceID      string
	serviceName    string
}

// WatchlistOption customizes a WatchlistSource
type WatchlistOption func(*WatchlistSource)

// WithBaseConfidence overrides the confidence assigned to direct matches
func WithBaseConfidence(confidence float64) WatchlistOption {
	return func(s *WatchlistSource) {
		s.baseConfidence = confidence
	}
}

// WithServiceIdentity overrides the source's id and display name
func WithServiceIdentity(serviceID, serviceName string) WatchlistOption {
	return func(s *WatchlistSource) {
		s.serviceID = serviceID
		s.serviceName = serviceName
	}
}

// NewWatchlistSource creates a watchlist-backed mixer intelligence source.
// Keys of the watchlist are addresses, values are mixer display names.
func NewWatchlistSource(watchlist map[string]string, opts ...WatchlistOption) *WatchlistSource {
	normalized := make(map[string]string, len(watchlist))
	for addr, name := range watchlist {
		normalized[utils.NormalizeAddress(addr)] = name
	}
	source := &WatchlistSource{
		watchlist:      normalized,
		baseConfidence: defaultBaseConfidence,
		serviceID:      "heuristic_mixer",
		serviceName:    "Heuristic Mixer Watchlist",
	}
	for _, opt := range opts {
		opt(source)
	}
	return source
}

// DefaultWatchlist returns the built-in public sample entries
func DefaultWatchlist() map[string]string {
	return map[string]string{
		"1Jz2Jv7wYyh9wA8Ski38p8h9Cwz9zmXo4H":      "ChipMixer (public sample)",
		"bc1qwasab1example0000000000000000v2a8d0": "Wasabi Wallet Cluster",
		"3JZq4atUahhuA9rLhXLMhhTo133J9rF97j":      "Bitcoin Fog (historic)",
	}
}

func (s *WatchlistSource) ServiceID() string {
	return s.serviceID
}

func (s *WatchlistSource) ServiceName() string {
	return s.serviceName
}

// DetectMixers checks the analyzed address itself at full base confidence and
// every hop destination at a discounted confidence. Deterministic: no
// randomness, no external state.
func (s *WatchlistSource) DetectMixers(ctx context.Context, address string, hops []models.TransactionHop) ([]models.MixerMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []models.MixerMatch
	if name, ok := s.watchlist[utils.NormalizeAddress(address)]; ok {
		matches = append(matches, models.MixerMatch{
			MixerName:  name,
			Confidence: s.baseConfidence,
			Evidence:   map[string]interface{}{"match": address},
		})
	}
	for _, hop := range hops {
		candidate := utils.NormalizeAddress(hop.ToAddress)
		if name, ok := s.watchlist[candidate]; ok {
			matches = append(matches, models.MixerMatch{
				MixerName:  name,
				Confidence: s.baseConfidence * hopConfidenceFactor,
				Evidence: map[string]interface{}{
					"tx_hash": hop.TxHash,
					"match":   hop.ToAddress,
				},
			})
		}
	}
	return matches, nil
}
