// File: internal/explorer/client.go
package explorer

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/archeblow/riskcore/internal/models"
)

// maxHops caps the number of hops any provider returns for one address
const maxHops = 200

// UnknownAddress is the sentinel substituted for missing or absent addresses
const UnknownAddress = "unknown"

// Client defines the contract for blockchain explorer integrations. A client
// fetches and normalizes raw transaction data for a single network into
// transaction hops, newest first, capped at 200 entries.
type Client interface {
	Network() models.Network
	ServiceID() string
	ServiceName() string
	FetchTransactionHops(ctx context.Context, address string) ([]models.TransactionHop, error)
}

// baseClient carries the plumbing shared by all explorer clients
type baseClient struct {
	network     models.Network
	serviceID   string
	serviceName string
	httpClient  *http.Client
	now         func() int64
}

func newBaseClient(network models.Network, serviceID, serviceName string, httpClient *http.Client) baseClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return baseClient{
		network:     network,
		serviceID:   serviceID,
		serviceName: serviceName,
		httpClient:  httpClient,
		now:         func() int64 { return time.Now().UTC().Unix() },
	}
}

// defaultHTTPClient returns a client with the transport-level timeouts the
// engine relies on: explorer operations themselves never enforce deadlines.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 20 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

func (c *baseClient) Network() models.Network {
	return c.network
}

func (c *baseClient) ServiceID() string {
	return c.serviceID
}

func (c *baseClient) ServiceName() string {
	return c.serviceName
}

// getJSON performs an HTTP GET and decodes the JSON body into out. Transport
// and protocol failures are wrapped into the APIError taxonomy.
func (c *baseClient) getJSON(ctx context.Context, rawURL string, params url.Values, headers map[string]string, out interface{}) error {
	requestURL := rawURL
	if len(params) > 0 {
		requestURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return &APIError{Provider: c.serviceID, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Provider: c.serviceID, Message: "network error while calling public API", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &APIError{Provider: c.serviceID, Message: "failed to read API response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Provider: c.serviceID, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Provider: c.serviceID, Message: "invalid API response: expected a JSON object", Err: err}
	}

	return nil
}
