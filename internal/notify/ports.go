package notify

import "context"

// Notifier tells someone a run has ended.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, string) error { return nil }
