package ports

import "context"

// IdentityWriter stores the credential the host should run as.
type IdentityWriter interface {
	Write(ctx context.Context, credential string) error
}

// Restarter tears down the host and brings it back up.
// A successful call usually does not return; when it does, the caller
// treats the host as relaunched.
type Restarter interface {
	Restart(ctx context.Context) error
}
