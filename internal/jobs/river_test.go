package jobs

import (
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

func TestNewRetryPolicy(t *testing.T) {
	policy := NewRetryPolicy()

	if policy.Default.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("Default.MaxAttempts = %d, want %d", policy.Default.MaxAttempts, DefaultMaxAttempts)
	}

	config, ok := policy.ByKind[JobKindEventNotification]
	if !ok {
		t.Fatalf("kind %s not found in ByKind map", JobKindEventNotification)
	}
	if config.MaxAttempts != NotificationMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", config.MaxAttempts, NotificationMaxAttempts)
	}
}

func TestRetryPolicyBackoff(t *testing.T) {
	policy := NewRetryPolicy()
	attempted := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: time.Minute},
		{attempt: 1, want: time.Minute},
		{attempt: 3, want: 4 * time.Minute},
		{attempt: 10, want: time.Hour},
	}
	for _, tt := range tests {
		job := &rivertype.JobRow{Kind: JobKindEventNotification, Attempt: tt.attempt, AttemptedAt: &attempted}
		if got := policy.NextRetry(job).Sub(attempted); got != tt.want {
			t.Errorf("attempt %d: delay = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryPolicyUnknownKindUsesDefault(t *testing.T) {
	policy := NewRetryPolicy()
	attempted := time.Now()

	job := &rivertype.JobRow{Kind: "other", Attempt: 1, AttemptedAt: &attempted}
	if got := policy.NextRetry(job).Sub(attempted); got != 30*time.Second {
		t.Errorf("delay = %v, want 30s", got)
	}
}

func TestInsertOptsForKind(t *testing.T) {
	opts := InsertOptsForKind(JobKindEventNotification)
	if opts.Queue != QueueNotifications {
		t.Errorf("Queue = %q, want %q", opts.Queue, QueueNotifications)
	}
	if opts.MaxAttempts != NotificationMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", opts.MaxAttempts, NotificationMaxAttempts)
	}
}

func TestNewClientConfig(t *testing.T) {
	workers := river.NewWorkers()

	config := NewClientConfig(workers, zerolog.Nop(), nil, 4)
	if config.Queues[QueueNotifications].MaxWorkers != 4 {
		t.Errorf("notification workers = %d, want 4", config.Queues[QueueNotifications].MaxWorkers)
	}
	if config.Workers != workers {
		t.Error("workers not wired")
	}
	if config.ErrorHandler == nil || config.Logger == nil {
		t.Error("expected error handler and logger")
	}
	if handler, ok := config.ErrorHandler.(*AlertingErrorHandler); !ok || handler.Notify == nil {
		t.Error("expected alerting error handler that counts failures")
	}

	insertOnly := NewClientConfig(workers, zerolog.Nop(), nil, 0)
	if insertOnly.Workers != nil || insertOnly.Queues != nil {
		t.Error("insert-only config must not register workers or queues")
	}
}
