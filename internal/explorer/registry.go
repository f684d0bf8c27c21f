package explorer

import (
	"net/http"

	"github.com/archeblow/riskcore/internal/config"
	"github.com/archeblow/riskcore/internal/models"
	"github.com/archeblow/riskcore/pkg/utils"
)

// Constructor builds one provider client for a network using the supplied
// configuration for credential lookup.
type Constructor func(cfg *config.Config, network models.Network, httpClient *http.Client) (Client, error)

// registry maps each network to its ordered provider constructors. Ordering
// is an operator decision: the orchestrator's default flow uses the first
// successfully constructed client and performs no cross-provider retry.
var registry = map[models.Network][]Constructor{
	models.NetworkBitcoin: {
		func(cfg *config.Config, network models.Network, httpClient *http.Client) (Client, error) {
			return NewBlockchainComClient(network, cfg.APIKey("blockchain_com"), httpClient)
		},
		func(cfg *config.Config, network models.Network, httpClient *http.Client) (Client, error) {
			return NewBlockCypherClient(network, cfg.APIKey("blockcypher"), httpClient)
		},
	},
	models.NetworkLitecoin: {
		func(cfg *config.Config, network models.Network, httpClient *http.Client) (Client, error) {
			return NewBlockCypherClient(network, cfg.APIKey("blockcypher"), httpClient)
		},
	},
	models.NetworkEthereum: {
		func(cfg *config.Config, network models.Network, httpClient *http.Client) (Client, error) {
			return NewEtherscanClient(network, cfg.APIKey("etherscan"), "etherscan", httpClient)
		},
	},
	models.NetworkPolygon: {
		func(cfg *config.Config, network models.Network, httpClient *http.Client) (Client, error) {
			return NewEtherscanClient(network, cfg.APIKey("polygonscan"), "polygonscan", httpClient)
		},
	},
	models.NetworkTron: {
		func(cfg *config.Config, network models.Network, httpClient *http.Client) (Client, error) {
			return NewTronGridClient(network, cfg.APIKey("trongrid"), httpClient)
		},
	},
}

// CreateClients instantiates every provider client available for the network.
// Providers whose construction fails (typically a missing credential) are
// skipped; when no provider remains the last construction error is returned,
// or an UnsupportedNetworkError for networks with no registered providers.
func CreateClients(cfg *config.Config, network models.Network, httpClient *http.Client) ([]Client, error) {
	constructors, ok := registry[network]
	if !ok || len(constructors) == 0 {
		return nil, &UnsupportedNetworkError{
			Provider: "registry",
			Network:  network,
			Reason:   "no public integration covers this network",
		}
	}

	logger := utils.ComponentLogger("explorer_registry")
	var clients []Client
	var lastErr error
	for _, construct := range constructors {
		client, err := construct(cfg, network, httpClient)
		if err != nil {
			lastErr = err
			logger.WithField("network", network.String()).WithError(err).Debug("Provider unavailable")
			continue
		}
		clients = append(clients, client)
	}

	if len(clients) == 0 {
		return nil, lastErr
	}
	return clients, nil
}
