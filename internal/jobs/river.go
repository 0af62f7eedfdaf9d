package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

const JobKindEventNotification = "event_notification"

// QueueNotifications carries follower emails so slow deliveries never
// block other work.
const QueueNotifications = "notifications"

const (
	NotificationMaxAttempts = 5
	DefaultMaxAttempts      = 3
)

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryPolicy implements River's ClientRetryPolicy with per-kind
// exponential backoff.
type RetryPolicy struct {
	Default RetryConfig
	ByKind  map[string]RetryConfig
}

func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		Default: RetryConfig{
			MaxAttempts: DefaultMaxAttempts,
			BaseDelay:   30 * time.Second,
			MaxDelay:    30 * time.Minute,
		},
		ByKind: map[string]RetryConfig{
			JobKindEventNotification: {
				MaxAttempts: NotificationMaxAttempts,
				BaseDelay:   1 * time.Minute,
				MaxDelay:    1 * time.Hour,
			},
		},
	}
}

func (p *RetryPolicy) NextRetry(job *rivertype.JobRow) time.Time {
	config := p.configFor(job.Kind)
	if config.BaseDelay == 0 {
		return time.Now()
	}

	attempt := max(job.Attempt, 1)
	delay := time.Duration(float64(config.BaseDelay) * math.Pow(2, float64(attempt-1)))
	if config.MaxDelay > 0 && delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	if job.AttemptedAt != nil {
		return job.AttemptedAt.Add(delay)
	}
	return time.Now().Add(delay)
}

func (p *RetryPolicy) configFor(kind string) RetryConfig {
	if p == nil {
		return RetryConfig{MaxAttempts: DefaultMaxAttempts, BaseDelay: time.Minute, MaxDelay: time.Hour}
	}
	if config, ok := p.ByKind[kind]; ok {
		return config
	}
	return p.Default
}

// InsertOptsForKind returns the default insert options for a job kind.
func InsertOptsForKind(kind string) *river.InsertOpts {
	opts := &river.InsertOpts{MaxAttempts: NewRetryPolicy().configFor(kind).MaxAttempts}
	if kind == JobKindEventNotification {
		opts.Queue = QueueNotifications
	}
	return opts
}

// NewClientConfig builds the River configuration. River logs through slog,
// so its records are written as JSON to the same zerolog writer. A zero
// notificationWorkers builds an insert-only client.
func NewClientConfig(workers *river.Workers, logger zerolog.Logger, hooks []rivertype.Hook, notificationWorkers int) *river.Config {
	policy := NewRetryPolicy()
	config := &river.Config{
		RetryPolicy:  policy,
		MaxAttempts:  policy.Default.MaxAttempts,
		Hooks:        hooks,
		Logger:       slog.New(slog.NewJSONHandler(logger, &slog.HandlerOptions{Level: slog.LevelWarn})),
		ErrorHandler: NewAlertingErrorHandler(logger, CountFailure),
	}
	if notificationWorkers > 0 {
		config.Workers = workers
		config.Queues = map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
			QueueNotifications: {MaxWorkers: notificationWorkers},
		}
	}
	return config
}

// NewClient creates a River client using pgx v5.
func NewClient(pool *pgxpool.Pool, workers *river.Workers, logger zerolog.Logger, hooks []rivertype.Hook, notificationWorkers int) (*river.Client[pgx.Tx], error) {
	return river.NewClient(riverpgxv5.New(pool), NewClientConfig(workers, logger, hooks, notificationWorkers))
}

// Migrate brings River's own tables up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("create river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("migrate river schema: %w", err)
	}
	return nil
}
