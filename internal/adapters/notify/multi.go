package notify

import (
	"context"
	"errors"

	"github.com/bft-labs/credrot/internal/ports"
)

// Multi fans every message out to several notifiers.
// All notifiers are tried; their errors are joined.
type Multi []ports.Notifier

// Notify forwards to every notifier.
func (m Multi) Notify(ctx context.Context, msg ports.Message) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.Notify(ctx, msg))
	}
	return errors.Join(errs...)
}

// NotifyWithCancel forwards to every notifier with the same control.
func (m Multi) NotifyWithCancel(ctx context.Context, msg ports.Message, onCancel func()) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.NotifyWithCancel(ctx, msg, onCancel))
	}
	return errors.Join(errs...)
}

// NotifySummary forwards to every notifier.
func (m Multi) NotifySummary(ctx context.Context, msg ports.Message) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.NotifySummary(ctx, msg))
	}
	return errors.Join(errs...)
}

// Cancel invokes the control held by the first notifier that has one.
func (m Multi) Cancel() bool {
	for _, n := range m {
		if c, ok := n.(Canceller); ok && c.Cancel() {
			return true
		}
	}
	return false
}
