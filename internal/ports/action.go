package ports

import (
	"context"

	"github.com/bft-labs/credrot/internal/domain"
)

// Action applies one credential to a target during a bulk run.
type Action interface {
	// Apply returns the classified result. An error is counted as a failure.
	Apply(ctx context.Context, target, credential string) (domain.ApplyResult, error)
}
