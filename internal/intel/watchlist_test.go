package intel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeblow/riskcore/internal/models"
)

func TestDetectMixersDirectMatch(t *testing.T) {
	source := NewWatchlistSource(map[string]string{"MixerAddr": "Sample Tumbler"})

	matches, err := source.DetectMixers(context.Background(), "mixeraddr", nil)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "Sample Tumbler", matches[0].MixerName)
	assert.Equal(t, 0.7, matches[0].Confidence)
	assert.Equal(t, "mixeraddr", matches[0].Evidence["match"])
}

func TestDetectMixersHopMatch(t *testing.T) {
	source := NewWatchlistSource(map[string]string{"mixeraddr": "Sample Tumbler"})
	hops := []models.TransactionHop{
		{TxHash: "tx1", FromAddress: "a", ToAddress: "MixerAddr"},
		{TxHash: "tx2", FromAddress: "a", ToAddress: "clean"},
	}

	matches, err := source.DetectMixers(context.Background(), "a", hops)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.InDelta(t, 0.63, matches[0].Confidence, 1e-9)
	assert.Equal(t, "tx1", matches[0].Evidence["tx_hash"])
}

func TestDetectMixersNoMatch(t *testing.T) {
	source := NewWatchlistSource(DefaultWatchlist())

	matches, err := source.DetectMixers(context.Background(), "cleanaddr", nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDetectMixersCancelledContext(t *testing.T) {
	source := NewWatchlistSource(DefaultWatchlist())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.DetectMixers(ctx, "addr", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatchlistOptions(t *testing.T) {
	source := NewWatchlistSource(
		map[string]string{"mixeraddr": "Sample Tumbler"},
		WithBaseConfidence(0.5),
		WithServiceIdentity("custom_intel", "Custom Intel Feed"),
	)

	assert.Equal(t, "custom_intel", source.ServiceID())
	assert.Equal(t, "Custom Intel Feed", source.ServiceName())

	matches, err := source.DetectMixers(context.Background(), "mixeraddr", nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 0.5, matches[0].Confidence)
}

func TestDefaultWatchlistEntries(t *testing.T) {
	watchlist := DefaultWatchlist()
	assert.Len(t, watchlist, 3)
	assert.Contains(t, watchlist, "1Jz2Jv7wYyh9wA8Ski38p8h9Cwz9zmXo4H")
}
