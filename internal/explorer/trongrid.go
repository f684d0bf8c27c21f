package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/archeblow/riskcore/internal/models"
)

// tronGridBaseURLs maps the networks covered by TronGrid
var tronGridBaseURLs = map[models.Network]string{
	models.NetworkTron: "https://api.trongrid.io",
}

// TronGridClient integrates with TronGrid for the TRON network. An API key is
// mandatory.
type TronGridClient struct {
	baseClient
	baseURL string
	apiKey  string
}

// NewTronGridClient creates a TronGrid explorer client
func NewTronGridClient(network models.Network, apiKey string, httpClient *http.Client) (*TronGridClient, error) {
	if apiKey == "" {
		return nil, &UnsupportedNetworkError{
			Provider: "trongrid",
			Network:  network,
			Reason:   "an API key is required (TRONGRID_API_KEY)",
		}
	}
	baseURL, ok := tronGridBaseURLs[network]
	if !ok {
		return nil, &UnsupportedNetworkError{
			Provider: "trongrid",
			Network:  network,
			Reason:   "TronGrid only covers tron",
		}
	}
	return &TronGridClient{
		baseClient: newBaseClient(network, "trongrid", "TronGrid API", httpClient),
		baseURL:    baseURL,
		apiKey:     apiKey,
	}, nil
}

type tronGridPayload struct {
	Data []struct {
		TxID           string      `json:"txID"`
		BlockTimestamp interface{} `json:"block_timestamp"`
		RawData        struct {
			Contract []struct {
				Type      string `json:"type"`
				Parameter struct {
					Value struct {
						OwnerAddress string      `json:"owner_address"`
						ToAddress    string      `json:"to_address"`
						Amount       interface{} `json:"amount"`
					} `json:"value"`
				} `json:"parameter"`
			} `json:"contract"`
		} `json:"raw_data"`
	} `json:"data"`
}

// FetchTransactionHops returns hops for the address, newest first. Only plain
// TransferContract entries are considered; token transfers are out of scope
// for the native-unit flow model.
func (c *TronGridClient) FetchTransactionHops(ctx context.Context, address string) ([]models.TransactionHop, error) {
	params := url.Values{}
	params.Set("limit", "50")
	params.Set("order_by", "block_timestamp,desc")
	params.Set("only_to", "false")
	params.Set("only_confirmed", "true")

	headers := map[string]string{"TRON-PRO-API-KEY": c.apiKey}

	var payload tronGridPayload
	endpoint := fmt.Sprintf("%s/v1/accounts/%s/transactions", c.baseURL, url.PathEscape(address))
	if err := c.getJSON(ctx, endpoint, params, headers, &payload); err != nil {
		return nil, err
	}

	now := c.now()
	var hops []models.TransactionHop
	for _, tx := range payload.Data {
		// block_timestamp is reported in milliseconds
		timestamp := coerceTimestamp(tx.BlockTimestamp, 0.001, now)
		for _, contract := range tx.RawData.Contract {
			if contract.Type != "TransferContract" {
				continue
			}
			value := contract.Parameter.Value
			if value.Amount == nil {
				continue
			}
			hops = append(hops, models.TransactionHop{
				TxHash:      tx.TxID,
				FromAddress: tronAddress(value.OwnerAddress),
				ToAddress:   tronAddress(value.ToAddress),
				Amount:      sunToTRX(value.Amount),
				Timestamp:   timestamp,
				Metadata: map[string]interface{}{
					"contract_type": contract.Type,
				},
			})
		}
	}

	return sortAndCapHops(hops), nil
}
