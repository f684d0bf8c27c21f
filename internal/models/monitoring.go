package models

// Monitoring event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// MonitoringEvent represents a log entry recorded by the monitoring system.
// The JSON encoding of this struct is also the webhook payload shape.
type MonitoringEvent struct {
	Timestamp int64                  `json:"timestamp"`
	Level     string                 `json:"level"`
	Category  string                 `json:"category"`
	Source    string                 `json:"source"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details"`
}

// MonitoringWatch tracks a wallet placed under extended observation
type MonitoringWatch struct {
	Address   string  `json:"address"`
	Network   Network `json:"network"`
	CreatedAt int64   `json:"created_at"`
	ExpiresAt int64   `json:"expires_at"`
	Comment   string  `json:"comment,omitempty"`
}

// ProviderHealth holds the health state tracked for one upstream provider
type ProviderHealth struct {
	ServiceID        string `json:"service_id"`
	ServiceName      string `json:"service_name"`
	Status           string `json:"status"`
	Failures         int    `json:"failures"`
	LastError        int64  `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
	LastSuccess      int64  `json:"last_success,omitempty"`
	LastMessage      string `json:"last_message,omitempty"`
}

// Provider health states
const (
	ProviderStatusOK    = "ok"
	ProviderStatusError = "error"
)
