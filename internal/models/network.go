package models

import (
	"fmt"
	"strings"
)

// Network identifies a supported blockchain network
type Network string

const (
	NetworkBitcoin  Network = "bitcoin"
	NetworkEthereum Network = "ethereum"
	NetworkLitecoin Network = "litecoin"
	NetworkPolygon  Network = "polygon"
	NetworkTron     Network = "tron"
)

// SupportedNetworks lists all networks the engine can analyze
var SupportedNetworks = []Network{
	NetworkBitcoin,
	NetworkEthereum,
	NetworkLitecoin,
	NetworkPolygon,
	NetworkTron,
}

// ParseNetwork converts a user-supplied string into a Network
func ParseNetwork(value string) (Network, error) {
	network := Network(strings.ToLower(strings.TrimSpace(value)))
	if !network.Valid() {
		return "", fmt.Errorf("unknown network: %q", value)
	}
	return network, nil
}

// Valid reports whether the network is part of the closed set
func (n Network) Valid() bool {
	switch n {
	case NetworkBitcoin, NetworkEthereum, NetworkLitecoin, NetworkPolygon, NetworkTron:
		return true
	}
	return false
}

func (n Network) String() string {
	return string(n)
}

// DisplayName returns the network name formatted for operator-facing output
func (n Network) DisplayName() string {
	return strings.ToUpper(string(n))
}
