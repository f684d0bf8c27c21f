// File: internal/monitoring/webhook.go
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/archeblow/riskcore/internal/models"
	"github.com/archeblow/riskcore/pkg/utils"
)

// WebhookNotifier dispatches monitoring events to an optional webhook
// endpoint. Delivery is strictly best-effort: failures of any kind are
// swallowed, never surfaced and never retried.
type WebhookNotifier struct {
	endpoint   string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewWebhookNotifier creates a notifier for the given endpoint. A nil
// httpClient gets a default with short timeouts so a dead endpoint cannot
// stall dispatch for long.
func NewWebhookNotifier(endpoint string, timeout time.Duration, httpClient *http.Client) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		}
	}
	return &WebhookNotifier{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     utils.ComponentLogger("webhook_notifier"),
	}
}

// Send serializes the event to JSON and POSTs it to the endpoint. Always
// returns without error; delivery problems are only logged.
func (n *WebhookNotifier) Send(ctx context.Context, event models.MonitoringEvent) {
	if n.endpoint == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.WithError(err).Debug("Failed to marshal webhook payload")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		n.logger.WithError(err).Debug("Failed to build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.WithError(err).Debug("Webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.WithField("status_code", resp.StatusCode).Debug("Webhook endpoint returned non-success status")
	}
}
