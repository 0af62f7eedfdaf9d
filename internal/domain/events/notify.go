package events

import "context"

type Change string

const (
	ChangeUpdated Change = "updated"
	ChangeDeleted Change = "deleted"
)

// Notification describes one change to an event and who should hear about it.
type Notification struct {
	EventID    int64
	EventName  string
	Change     Change
	Recipients []string
}

// Notifier delivers follower notifications, typically by enqueueing a job.
type Notifier interface {
	NotifyEventChange(ctx context.Context, n Notification) error
}
