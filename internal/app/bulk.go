package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/credrot/internal/domain"
	"github.com/bft-labs/credrot/internal/ports"
	"github.com/bft-labs/credrot/pkg/log"
)

// BulkApplier applies every credential of a list to one target, paced.
// It keeps no state between runs and never touches the queue store.
type BulkApplier struct {
	action   ports.Action
	notifier ports.Notifier
	logger   log.Logger
	spacing  time.Duration
}

// NewBulkApplier creates a bulk applier. notifier may be nil.
func NewBulkApplier(action ports.Action, notifier ports.Notifier, logger log.Logger, spacing time.Duration) *BulkApplier {
	return &BulkApplier{action: action, notifier: notifier, logger: logger, spacing: spacing}
}

// Apply runs action for each credential in order and reports the tally.
// Action errors count as failures. If ctx ends the partial report is
// returned with ctx's error.
func (b *BulkApplier) Apply(ctx context.Context, target string, creds []string, destination string) (domain.BulkReport, error) {
	report := domain.BulkReport{Target: target}
	if b.action == nil {
		return report, fmt.Errorf("apply credentials: %w", domain.ErrCapabilityUnavailable)
	}
	if len(creds) == 0 {
		return report, domain.ErrNoCredentials
	}

	pacer := NewPacer(b.spacing)
	for i, cred := range creds {
		if err := pacer.Wait(ctx); err != nil {
			return report, err
		}

		res, err := b.action.Apply(ctx, target, cred)
		if err != nil {
			res = domain.ApplyFailure
			b.logger.Debug("apply failed", log.Int("index", i), log.Credential("credential", cred), log.Err(err))
		}
		report.Record(res)
	}

	b.logger.Info("bulk apply finished",
		log.String("target", target),
		log.Int("success", report.Success),
		log.Int("challenge", report.Challenge),
		log.Int("failure", report.Failure),
	)

	if b.notifier != nil {
		err := b.notifier.NotifySummary(ctx, ports.Message{
			Destination: destination,
			Kind:        ports.KindSummary,
			Title:       "Bulk apply finished",
			Text: fmt.Sprintf("%s: %d success, %d challenge, %d failure",
				target, report.Success, report.Challenge, report.Failure),
		})
		if err != nil {
			b.logger.Warn("failed to send bulk summary", log.Err(err))
		}
	}
	return report, nil
}
