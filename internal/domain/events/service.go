package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/validation"
)

type Service struct {
	repo      Repository
	notifier  Notifier
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewService builds the events service. notifier may be nil.
func NewService(repo Repository, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		validator: validation.New(),
		logger:    logger.With().Str("component", "events").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new event. An unknown organization yields
// ErrInvalidOrganization.
func (s *Service) Create(ctx context.Context, input Input) (*Event, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	event, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("event_id", event.ID).Msg("event created")
	return event, nil
}

// Replace overwrites every mutable field and notifies opted-in followers.
func (s *Service) Replace(ctx context.Context, id int64, input Input) error {
	if err := s.validator.Struct(input); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, input); err != nil {
		return err
	}
	s.notify(ctx, id, input.Name, ChangeUpdated)
	return nil
}

// Delete removes the event and its follows. Followers are collected before
// the delete so they can still be notified.
func (s *Service) Delete(ctx context.Context, id int64) error {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	recipients := s.recipients(ctx, id)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("event_id", id).Msg("event deleted")
	s.send(ctx, Notification{EventID: id, EventName: event.Name, Change: ChangeDeleted, Recipients: recipients})
	return nil
}

func (s *Service) notify(ctx context.Context, id int64, name string, change Change) {
	if s.notifier == nil {
		return
	}
	s.send(ctx, Notification{EventID: id, EventName: name, Change: change, Recipients: s.recipients(ctx, id)})
}

func (s *Service) recipients(ctx context.Context, id int64) []string {
	if s.notifier == nil {
		return nil
	}
	emails, err := s.repo.NotifiableFollowers(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Int64("event_id", id).Msg("failed to load followers for notification")
		return nil
	}
	return emails
}

// send never fails the caller; notification problems are only logged.
func (s *Service) send(ctx context.Context, n Notification) {
	if s.notifier == nil || len(n.Recipients) == 0 {
		return
	}
	if err := s.notifier.NotifyEventChange(ctx, n); err != nil {
		s.logger.Warn().Err(err).Int64("event_id", n.EventID).Str("change", string(n.Change)).Msg("failed to enqueue event notification")
	}
}
