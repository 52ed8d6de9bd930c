package command

import (
	"context"

	"github.com/bft-labs/credrot/internal/domain"
)

// DefaultChallengeExitCode is the exit status that marks a challenge-required result.
const DefaultChallengeExitCode = 3

// Action implements ports.Action with an external program.
// Exit status 0 is success, challengeCode means the target asked for extra
// verification, anything else is a failure.
type Action struct {
	argv          []string
	challengeCode int
}

// NewAction creates an action running argv.
func NewAction(argv []string, challengeCode int) *Action {
	if challengeCode <= 0 {
		challengeCode = DefaultChallengeExitCode
	}
	return &Action{argv: argv, challengeCode: challengeCode}
}

// Apply runs the program with the target and credential in the environment.
func (a *Action) Apply(ctx context.Context, target, credential string) (domain.ApplyResult, error) {
	res, err := run(ctx, a.argv, EnvTarget+"="+target, EnvCredential+"="+credential)
	if err != nil {
		return domain.ApplyFailure, err
	}

	switch res.exitCode {
	case 0:
		return domain.ApplySuccess, nil
	case a.challengeCode:
		return domain.ApplyChallenge, nil
	default:
		return domain.ApplyFailure, nil
	}
}
