package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/archeblow/riskcore/internal/models"
)

// blockCypherBaseURLs maps the networks covered by the free BlockCypher API
var blockCypherBaseURLs = map[models.Network]string{
	models.NetworkBitcoin:  "https://api.blockcypher.com/v1/btc/main",
	models.NetworkLitecoin: "https://api.blockcypher.com/v1/ltc/main",
}

// BlockCypherClient pulls transactions from the free BlockCypher API
type BlockCypherClient struct {
	baseClient
	baseURL string
	token   string
}

// NewBlockCypherClient creates a BlockCypher explorer client. The token is
// optional and only raises the rate limit.
func NewBlockCypherClient(network models.Network, token string, httpClient *http.Client) (*BlockCypherClient, error) {
	baseURL, ok := blockCypherBaseURLs[network]
	if !ok {
		return nil, &UnsupportedNetworkError{
			Provider: "blockcypher",
			Network:  network,
			Reason:   "the public BlockCypher API covers bitcoin and litecoin",
		}
	}
	return &BlockCypherClient{
		baseClient: newBaseClient(network, "blockcypher", "BlockCypher API", httpClient),
		baseURL:    baseURL,
		token:      token,
	}, nil
}

type blockCypherPayload struct {
	Txs []struct {
		Hash        string      `json:"hash"`
		Confirmed   string      `json:"confirmed"`
		Received    string      `json:"received"`
		BlockHeight interface{} `json:"block_height"`
		Inputs      []struct {
			Addresses []string `json:"addresses"`
		} `json:"inputs"`
		Outputs []struct {
			Addresses []string    `json:"addresses"`
			Value     interface{} `json:"value"`
		} `json:"outputs"`
	} `json:"txs"`
}

// FetchTransactionHops returns hops for the address, newest first. As with
// every UTXO provider one hop is synthesized per (input, output) pair.
func (c *BlockCypherClient) FetchTransactionHops(ctx context.Context, address string) ([]models.TransactionHop, error) {
	params := url.Values{}
	params.Set("limit", "50")
	params.Set("txlimit", "50")
	if c.token != "" {
		params.Set("token", c.token)
	}

	var payload blockCypherPayload
	endpoint := fmt.Sprintf("%s/addrs/%s/full", c.baseURL, url.PathEscape(address))
	if err := c.getJSON(ctx, endpoint, params, nil, &payload); err != nil {
		return nil, err
	}

	now := c.now()
	var hops []models.TransactionHop
	for _, tx := range payload.Txs {
		confirmed := tx.Confirmed
		if confirmed == "" {
			confirmed = tx.Received
		}
		timestamp := parseISOTimestamp(confirmed, now)
		for _, input := range tx.Inputs {
			fromAddr := firstAddress(input.Addresses)
			for _, out := range tx.Outputs {
				hops = append(hops, models.TransactionHop{
					TxHash:      tx.Hash,
					FromAddress: fromAddr,
					ToAddress:   firstAddress(out.Addresses),
					Amount:      satoshiToCoin(out.Value),
					Timestamp:   timestamp,
					Metadata: map[string]interface{}{
						"block_height": tx.BlockHeight,
					},
				})
			}
		}
	}

	return sortAndCapHops(hops), nil
}

func firstAddress(addresses []string) string {
	if len(addresses) == 0 {
		return UnknownAddress
	}
	return safeAddress(addresses[0])
}
