// Package notify contains Notifier adapters.
package notify

import (
	"context"
	"sync"

	"github.com/bft-labs/credrot/internal/ports"
	"github.com/bft-labs/credrot/pkg/log"
)

// Canceller is implemented by notifiers that hold a live cancel control.
type Canceller interface {
	// Cancel invokes the live cancel control, if any, and reports whether one ran.
	Cancel() bool
}

// LogNotifier implements ports.Notifier by writing messages to a logger.
// It keeps the cancel control of the latest progress message so a local
// trigger (a signal, a key press) can invoke it.
type LogNotifier struct {
	logger log.Logger

	mu       sync.Mutex
	onCancel func()
}

// NewLogNotifier creates a notifier writing to logger.
func NewLogNotifier(logger log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs an informational message.
func (n *LogNotifier) Notify(ctx context.Context, msg ports.Message) error {
	n.emit(msg)
	return nil
}

// NotifyWithCancel logs a progress message and replaces the live cancel control.
func (n *LogNotifier) NotifyWithCancel(ctx context.Context, msg ports.Message, onCancel func()) error {
	n.mu.Lock()
	n.onCancel = onCancel
	n.mu.Unlock()

	n.emit(msg)
	return nil
}

// NotifySummary logs the session summary and drops any live cancel control.
func (n *LogNotifier) NotifySummary(ctx context.Context, msg ports.Message) error {
	n.dismiss()
	n.emit(msg)
	return nil
}

// Cancel invokes the live cancel control once.
func (n *LogNotifier) Cancel() bool {
	n.mu.Lock()
	fn := n.onCancel
	n.onCancel = nil
	n.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

func (n *LogNotifier) dismiss() {
	n.mu.Lock()
	n.onCancel = nil
	n.mu.Unlock()
}

func (n *LogNotifier) emit(msg ports.Message) {
	fields := []log.Field{
		log.String("kind", string(msg.Kind)),
		log.String("text", msg.Text),
	}
	if msg.Destination != "" {
		fields = append(fields, log.String("destination", msg.Destination))
	}

	switch msg.Kind {
	case ports.KindFailure, ports.KindCancelled:
		n.logger.Warn(msg.Title, fields...)
	default:
		n.logger.Info(msg.Title, fields...)
	}
}
