package activation

import (
	"context"

	"ordercard/internal/domain"
)

// Redeemer asks the registry to consume a code. Implementations return an
// error only when no verdict could be obtained; a refused code is a result
// with status error.
type Redeemer interface {
	Redeem(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error)
}
