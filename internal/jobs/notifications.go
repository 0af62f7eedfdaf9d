package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/ids"
	"github.com/Togather-Foundation/eventhub/internal/email"
	"github.com/Togather-Foundation/eventhub/internal/metrics"
)

// EventNotificationArgs is one email to one follower.
type EventNotificationArgs struct {
	EventID   int64  `json:"event_id"`
	EventName string `json:"event_name"`
	EventURL  string `json:"event_url,omitempty"`
	Change    string `json:"change"`
	Recipient string `json:"recipient"`
}

func (EventNotificationArgs) Kind() string { return JobKindEventNotification }

// JobInserter is the part of *river.Client the notifier needs.
type JobInserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Notifier queues one notification job per recipient.
type Notifier struct {
	client  JobInserter
	baseURL string
	logger  zerolog.Logger
}

var _ events.Notifier = (*Notifier)(nil)

func NewNotifier(client JobInserter, baseURL string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		client:  client,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "notifier").Logger(),
	}
}

func (n *Notifier) NotifyEventChange(ctx context.Context, notification events.Notification) error {
	eventURL := ""
	if notification.Change == events.ChangeUpdated {
		eventURL = n.baseURL + ids.EventPath(notification.EventID)
	}

	var errs []error
	queued := 0
	for _, recipient := range notification.Recipients {
		args := EventNotificationArgs{
			EventID:   notification.EventID,
			EventName: notification.EventName,
			EventURL:  eventURL,
			Change:    string(notification.Change),
			Recipient: recipient,
		}
		if _, err := n.client.Insert(ctx, args, InsertOptsForKind(JobKindEventNotification)); err != nil {
			errs = append(errs, fmt.Errorf("queue notification for %s: %w", recipient, err))
			continue
		}
		queued++
	}

	n.logger.Debug().
		Int64("event_id", notification.EventID).
		Str("change", string(notification.Change)).
		Int("queued", queued).
		Msg("event notifications queued")
	return errors.Join(errs...)
}

// Mailer renders and delivers notification emails.
type Mailer interface {
	RenderEventChange(to, change string, data email.EventChangeData) (email.Message, error)
	Send(ctx context.Context, msg email.Message) error
}

type EventNotificationWorker struct {
	river.WorkerDefaults[EventNotificationArgs]
	Mailer Mailer
	Logger zerolog.Logger
}

func (EventNotificationWorker) Kind() string { return JobKindEventNotification }

func (w EventNotificationWorker) Work(ctx context.Context, job *river.Job[EventNotificationArgs]) error {
	if job == nil {
		return fmt.Errorf("event notification job missing")
	}
	if w.Mailer == nil {
		return fmt.Errorf("event notification worker has no mailer")
	}

	args := job.Args
	msg, err := w.Mailer.RenderEventChange(args.Recipient, args.Change, email.EventChangeData{
		EventName: args.EventName,
		EventURL:  args.EventURL,
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(args.Change, "invalid").Inc()
		// Rendering validates the recipient, so this is the only place an
		// invalid address cancels the job. Send errors are always retried.
		return river.JobCancel(err)
	}

	if err := w.Mailer.Send(ctx, msg); err != nil {
		metrics.NotificationsSent.WithLabelValues(args.Change, "error").Inc()
		return err
	}

	metrics.NotificationsSent.WithLabelValues(args.Change, "sent").Inc()
	w.Logger.Info().
		Int64("event_id", args.EventID).
		Str("change", args.Change).
		Str("recipient", args.Recipient).
		Msg("event notification delivered")
	return nil
}

// NewWorkers registers every worker the server runs.
func NewWorkers(mailer Mailer, logger zerolog.Logger) *river.Workers {
	workers := river.NewWorkers()
	river.AddWorker(workers, &EventNotificationWorker{
		Mailer: mailer,
		Logger: logger.With().Str("component", "jobs").Logger(),
	})
	return workers
}
