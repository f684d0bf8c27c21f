package explorer

import (
	"fmt"

	"github.com/archeblow/riskcore/internal/models"
)

// APIError wraps a transport or protocol failure reported by a blockchain
// explorer. StatusCode and Body are populated when the upstream API answered
// with a non-success HTTP status.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: API request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: explorer request failed: %v", e.Provider, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UnsupportedNetworkError is the more specific form of APIError raised when a
// provider is instantiated for a network it does not cover, or when the
// provider requires a credential that was not supplied. Callers that match
// error types should check for it before the generic APIError; matching the
// generic type alone still succeeds through Unwrap.
type UnsupportedNetworkError struct {
	Provider string
	Network  models.Network
	Reason   string
}

func (e *UnsupportedNetworkError) message() string {
	if e.Reason != "" {
		return fmt.Sprintf("network %s unsupported: %s", e.Network, e.Reason)
	}
	return fmt.Sprintf("network %s is not supported by this provider", e.Network)
}

func (e *UnsupportedNetworkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.message())
}

// Unwrap exposes the failure as a generic transport error so callers matching
// only APIError still see credential and coverage failures.
func (e *UnsupportedNetworkError) Unwrap() error {
	return &APIError{Provider: e.Provider, Message: e.message()}
}
