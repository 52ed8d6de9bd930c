package ports

import (
	"context"

	"github.com/bft-labs/credrot/internal/domain"
)

// Validator resolves a credential to the identity it grants.
type Validator interface {
	// Validate returns the identity for an accepted credential.
	// A definite rejection wraps domain.ErrInvalidCredential; any other error
	// is a transport failure. Callers treat both as invalid and never retry.
	Validate(ctx context.Context, credential string) (domain.Identity, error)
}
