package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/bft-labs/credrot/internal/domain"
)

// Validator implements ports.Validator with an external program.
// Exit status 0 accepts the credential and the first stdout line names the
// identity; any other exit status rejects it.
type Validator struct {
	argv []string
}

// NewValidator creates a validator running argv.
func NewValidator(argv []string) *Validator {
	return &Validator{argv: argv}
}

// Validate runs the program with the credential in the environment.
func (v *Validator) Validate(ctx context.Context, credential string) (domain.Identity, error) {
	res, err := run(ctx, v.argv, EnvCredential+"="+credential)
	if err != nil {
		return domain.Identity{}, err
	}
	if res.exitCode != 0 {
		return domain.Identity{}, fmt.Errorf("%w: exit status %d", domain.ErrInvalidCredential, res.exitCode)
	}

	name, _, _ := strings.Cut(strings.TrimSpace(res.stdout), "\n")
	return domain.Identity{Name: strings.TrimSpace(name)}, nil
}
