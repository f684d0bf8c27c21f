package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeblow/riskcore/internal/config"
	"github.com/archeblow/riskcore/internal/models"
)

func TestCreateClientsBitcoin(t *testing.T) {
	cfg := &config.Config{}

	// Both bitcoin providers work without credentials
	clients, err := CreateClients(cfg, models.NetworkBitcoin, nil)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "blockchain_com", clients[0].ServiceID())
	assert.Equal(t, "blockcypher", clients[1].ServiceID())
}

func TestCreateClientsEthereumWithKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.Keys = map[string]string{"etherscan": "test-key"}

	clients, err := CreateClients(cfg, models.NetworkEthereum, nil)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "etherscan", clients[0].ServiceID())
	assert.Equal(t, models.NetworkEthereum, clients[0].Network())
}

func TestCreateClientsMissingCredential(t *testing.T) {
	t.Setenv("TRONGRID_API_KEY", "")
	cfg := &config.Config{}

	_, err := CreateClients(cfg, models.NetworkTron, nil)

	var unsupported *UnsupportedNetworkError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "trongrid", unsupported.Provider)
}

func TestCreateClientsUnknownNetwork(t *testing.T) {
	cfg := &config.Config{}

	_, err := CreateClients(cfg, models.Network("dogecoin"), nil)

	var unsupported *UnsupportedNetworkError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "registry", unsupported.Provider)
}
