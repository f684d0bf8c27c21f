package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/archeblow/riskcore/internal/models"

	"github.com/archeblow/riskcore/pkg/utils"
)

type etherscanEndpoint struct {
	baseURL string
	chainID int
}

// etherscanEndpoints maps the account-model networks covered by the
// Etherscan v2 API family
var etherscanEndpoints = map[models.Network]etherscanEndpoint{
	models.NetworkEthereum: {baseURL: "https://api.etherscan.io/v2/api", chainID: 1},
	models.NetworkPolygon:  {baseURL: "https://api.polygonscan.com/v2/api", chainID: 137},
}

// EtherscanClient integrates with Etherscan/Polygonscan for account-model
// networks. An API key is mandatory.
type EtherscanClient struct {
	baseClient
	baseURL string
	chainID int
	apiKey  string
}

// NewEtherscanClient creates an Etherscan-family explorer client. Use
// serviceID "polygonscan" for the Polygon deployment of the same API.
func NewEtherscanClient(network models.Network, apiKey, serviceID string, httpClient *http.Client) (*EtherscanClient, error) {
	if serviceID == "" {
		serviceID = "etherscan"
	}
	if apiKey == "" {
		envName := "ETHERSCAN_API_KEY"
		if serviceID == "polygonscan" {
			envName = "POLYGONSCAN_API_KEY"
		}
		return nil, &UnsupportedNetworkError{
			Provider: serviceID,
			Network:  network,
			Reason:   fmt.Sprintf("an API key is required (%s)", envName),
		}
	}
	endpoint, ok := etherscanEndpoints[network]
	if !ok {
		return nil, &UnsupportedNetworkError{
			Provider: serviceID,
			Network:  network,
			Reason:   "the Etherscan API family covers ethereum and polygon",
		}
	}
	displayName := "Etherscan API"
	if serviceID == "polygonscan" {
		displayName = "Polygonscan API"
	}
	return &EtherscanClient{
		baseClient: newBaseClient(network, serviceID, displayName, httpClient),
		baseURL:    endpoint.baseURL,
		chainID:    endpoint.chainID,
		apiKey:     apiKey,
	}, nil
}

type etherscanPayload struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type etherscanTx struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	TimeStamp   string `json:"timeStamp"`
	Value       string `json:"value"`
	GasPrice    string `json:"gasPrice"`
	GasUsed     string `json:"gasUsed"`
	BlockNumber string `json:"blockNumber"`
}

// FetchTransactionHops returns hops for the address, newest first. Account
// model transactions map one-to-one onto hops.
func (c *EtherscanClient) FetchTransactionHops(ctx context.Context, address string) ([]models.TransactionHop, error) {
	if !utils.IsValidHexAddress(address) {
		// Etherscan rejects malformed addresses with an opaque error, so
		// validate up front for a clearer failure surface.
		return nil, &APIError{Provider: c.serviceID, Message: fmt.Sprintf("invalid account address: %s", address)}
	}

	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("page", "1")
	params.Set("offset", "100")
	params.Set("sort", "desc")
	params.Set("apikey", c.apiKey)
	params.Set("chainid", strconv.Itoa(c.chainID))

	var payload etherscanPayload
	if err := c.getJSON(ctx, c.baseURL, params, nil, &payload); err != nil {
		return nil, err
	}

	if payload.Status != "1" {
		if strings.EqualFold(payload.Message, "no transactions found") {
			return []models.TransactionHop{}, nil
		}
		detail := etherscanErrorDetail(payload.Result)
		errorText := payload.Message
		if detail != "" && !strings.EqualFold(detail, payload.Message) {
			errorText = fmt.Sprintf("%s (%s)", payload.Message, detail)
		}
		if errorText == "" {
			errorText = "Unknown error"
		}
		return nil, &APIError{Provider: c.serviceID, Message: fmt.Sprintf("API returned an error message: %s", errorText)}
	}

	var txs []etherscanTx
	if err := json.Unmarshal(payload.Result, &txs); err != nil {
		// Some deployments nest the transaction list one level deeper
		var nested struct {
			Transactions []etherscanTx `json:"transactions"`
		}
		if err := json.Unmarshal(payload.Result, &nested); err != nil {
			return []models.TransactionHop{}, nil
		}
		txs = nested.Transactions
	}

	now := c.now()
	var hops []models.TransactionHop
	for _, tx := range txs {
		hops = append(hops, models.TransactionHop{
			TxHash:      tx.Hash,
			FromAddress: safeAddress(tx.From),
			ToAddress:   safeAddress(tx.To),
			Amount:      weiToEth(tx.Value),
			Timestamp:   coerceTimestamp(tx.TimeStamp, 1, now),
			Metadata: map[string]interface{}{
				"gas_price":    tx.GasPrice,
				"gas_used":     tx.GasUsed,
				"block_number": tx.BlockNumber,
			},
		})
	}

	if len(hops) > maxHops {
		hops = hops[:maxHops]
	}
	return hops, nil
}

// etherscanErrorDetail extracts a human-readable detail from a non-list
// result payload
func etherscanErrorDetail(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asObject struct {
		Message string `json:"message"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		if asObject.Message != "" {
			return asObject.Message
		}
		return asObject.Result
	}
	return ""
}
