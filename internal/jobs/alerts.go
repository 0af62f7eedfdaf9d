package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/metrics"
)

// AlertFunc is invoked when a job fails or panics.
type AlertFunc func(ctx context.Context, job *rivertype.JobRow, err error)

// PanicError wraps the value a worker panicked with.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// CountFailure is the AlertFunc the server runs with. It counts failed
// attempts per job kind.
func CountFailure(_ context.Context, job *rivertype.JobRow, err error) {
	reason := "error"
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		reason = "panic"
	}
	metrics.RiverJobFailures.WithLabelValues(job.Kind, reason).Inc()
}

// AlertingErrorHandler logs job failures and forwards them to Notify.
// Retry decisions are left to the workers and the retry policy.
type AlertingErrorHandler struct {
	Logger zerolog.Logger
	Notify AlertFunc
}

func NewAlertingErrorHandler(logger zerolog.Logger, notify AlertFunc) *AlertingErrorHandler {
	return &AlertingErrorHandler{
		Logger: logger.With().Str("component", "jobs").Logger(),
		Notify: notify,
	}
}

func (h *AlertingErrorHandler) HandleError(ctx context.Context, job *rivertype.JobRow, err error) *river.ErrorHandlerResult {
	h.Logger.Error().
		Err(err).
		Int64("job_id", job.ID).
		Str("kind", job.Kind).
		Int("attempt", job.Attempt).
		Msg("job failed")
	if h.Notify != nil {
		h.Notify(ctx, job, err)
	}
	return nil
}

func (h *AlertingErrorHandler) HandlePanic(ctx context.Context, job *rivertype.JobRow, panicVal any, trace string) *river.ErrorHandlerResult {
	panicErr := &PanicError{Value: panicVal}
	h.Logger.Error().
		Err(panicErr).
		Int64("job_id", job.ID).
		Str("kind", job.Kind).
		Int("attempt", job.Attempt).
		Str("trace", trace).
		Msg("job panicked")
	if h.Notify != nil {
		h.Notify(ctx, job, panicErr)
	}
	return nil
}
