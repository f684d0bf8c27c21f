// File: internal/intel/intel.go
package intel

import (
	"context"

	"github.com/archeblow/riskcore/internal/models"
)

// Source defines the contract for mixer intelligence integrations. A source
// inspects an address and its observed hops and reports associations with
// known mixing services.
type Source interface {
	ServiceID() string
	ServiceName() string
	DetectMixers(ctx context.Context, address string, hops []models.TransactionHop) ([]models.MixerMatch, error)
}
