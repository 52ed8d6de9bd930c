package ports

import "context"

// MessageKind classifies a notification.
type MessageKind string

const (
	KindInfo      MessageKind = "info"
	KindProgress  MessageKind = "progress"
	KindSummary   MessageKind = "summary"
	KindCancelled MessageKind = "cancelled"
	KindFailure   MessageKind = "failure"
)

// Message is a single notification.
type Message struct {
	// Destination is the opaque reference stored with the session.
	Destination string
	Kind        MessageKind
	Title       string
	Text        string
}

// Notifier emits transient messages about rotation progress.
type Notifier interface {
	// Notify emits an informational message.
	Notify(ctx context.Context, msg Message) error

	// NotifyWithCancel emits a step progress message carrying a cancel control.
	// Only one progress message is live at a time: a new call replaces the
	// previous control rather than adding a second one.
	NotifyWithCancel(ctx context.Context, msg Message, onCancel func()) error

	// NotifySummary emits the end-of-session summary.
	NotifySummary(ctx context.Context, msg Message) error
}
