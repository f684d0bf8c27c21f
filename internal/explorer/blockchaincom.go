package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/archeblow/riskcore/internal/models"
)

// blockchainComBaseURLs maps the networks covered by blockchain.com
var blockchainComBaseURLs = map[models.Network]string{
	models.NetworkBitcoin: "https://blockchain.info",
}

// BlockchainComClient pulls Bitcoin transactions from the blockchain.com API
type BlockchainComClient struct {
	baseClient
	baseURL string
	apiCode string
}

// NewBlockchainComClient creates a blockchain.com explorer client. The API
// code is optional; without it the free request quota applies.
func NewBlockchainComClient(network models.Network, apiCode string, httpClient *http.Client) (*BlockchainComClient, error) {
	baseURL, ok := blockchainComBaseURLs[network]
	if !ok {
		return nil, &UnsupportedNetworkError{
			Provider: "blockchain_com",
			Network:  network,
			Reason:   "blockchain.com only covers bitcoin",
		}
	}
	return &BlockchainComClient{
		baseClient: newBaseClient(network, "blockchain_com", "Blockchain.com Explorer", httpClient),
		baseURL:    baseURL,
		apiCode:    apiCode,
	}, nil
}

type blockchainComPayload struct {
	Txs []struct {
		Hash        string      `json:"hash"`
		Time        interface{} `json:"time"`
		BlockHeight interface{} `json:"block_height"`
		Inputs      []struct {
			PrevOut *struct {
				Addr string `json:"addr"`
			} `json:"prev_out"`
			Addr string `json:"addr"`
		} `json:"inputs"`
		Out []struct {
			Addr  string      `json:"addr"`
			Value interface{} `json:"value"`
		} `json:"out"`
	} `json:"txs"`
}

// FetchTransactionHops returns hops for the address, newest first. For UTXO
// transactions one hop is synthesized per (input, output) pair, which can
// overcount gross volume for multi-input/output transactions.
func (c *BlockchainComClient) FetchTransactionHops(ctx context.Context, address string) ([]models.TransactionHop, error) {
	params := url.Values{}
	params.Set("limit", "50")
	if c.apiCode != "" {
		params.Set("api_code", c.apiCode)
	}

	var payload blockchainComPayload
	endpoint := fmt.Sprintf("%s/rawaddr/%s", c.baseURL, url.PathEscape(address))
	if err := c.getJSON(ctx, endpoint, params, nil, &payload); err != nil {
		return nil, err
	}

	now := c.now()
	var hops []models.TransactionHop
	for _, tx := range payload.Txs {
		timestamp := coerceTimestamp(tx.Time, 1, now)
		for _, input := range tx.Inputs {
			fromAddr := safeAddress(input.Addr)
			if input.PrevOut != nil {
				fromAddr = safeAddress(input.PrevOut.Addr)
			}
			for _, out := range tx.Out {
				hops = append(hops, models.TransactionHop{
					TxHash:      tx.Hash,
					FromAddress: fromAddr,
					ToAddress:   safeAddress(out.Addr),
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
