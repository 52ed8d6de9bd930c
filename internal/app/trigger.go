package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/credrot/internal/ports"
	"github.com/bft-labs/credrot/pkg/log"
)

// Activator switches the host to a credential.
type Activator interface {
	Activate(ctx context.Context, credential string) error
}

// Trigger activates a credential by writing it to the host's identity
// storage and then restarting the host.
type Trigger struct {
	identity  ports.IdentityWriter
	restarter ports.Restarter
	logger    log.Logger
}

// NewTrigger creates a trigger from its two halves.
func NewTrigger(identity ports.IdentityWriter, restarter ports.Restarter, logger log.Logger) *Trigger {
	return &Trigger{identity: identity, restarter: restarter, logger: logger}
}

// Activate writes the credential, then restarts. The restart usually does
// not return.
func (t *Trigger) Activate(ctx context.Context, credential string) error {
	if err := t.identity.Write(ctx, credential); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}

	t.logger.Info("identity written, restarting host", log.Credential("credential", credential))

	if err := t.restarter.Restart(ctx); err != nil {
		return fmt.Errorf("restart host: %w", err)
	}
	return nil
}
