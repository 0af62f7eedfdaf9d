package relations

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
)

// Service resolves the anchor entity of every relation before touching the
// join rows, so a missing anchor is reported with the anchor's own
// not-found error.
type Service struct {
	repo   Repository
	users  UserLookup
	events EventLookup
	orgs   OrganizationLookup
	logger zerolog.Logger
}

func NewService(repo Repository, users UserLookup, events EventLookup, orgs OrganizationLookup, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		events: events,
		orgs:   orgs,
		logger: logger.With().Str("component", "relations").Logger(),
	}
}

func (s *Service) FollowedEvents(ctx context.Context, userID int64) (*users.User, []events.Event, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.FollowedEvents(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, items, nil
}

func (s *Service) Followers(ctx context.Context, eventID int64) (*events.Event, []users.User, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.Followers(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	return event, items, nil
}

func (s *Service) UserOrganizations(ctx context.Context, userID int64) (*users.User, []organizations.Organization, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.UserOrganizations(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, items, nil
}

func (s *Service) Members(ctx context.Context, orgID int64) (*organizations.Organization, []users.User, error) {
	org, err := s.orgs.Get(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.Members(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	return org, items, nil
}

// Follow links a user to an event. ErrAlreadyFollowing when linked twice.
func (s *Service) Follow(ctx context.Context, userID, eventID int64) error {
	if err := s.userAndEvent(ctx, userID, eventID); err != nil {
		return err
	}
	if err := s.repo.Follow(ctx, userID, eventID); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", userID).Int64("event_id", eventID).Msg("event followed")
	return nil
}

func (s *Service) Unfollow(ctx context.Context, userID, eventID int64) error {
	if err := s.userAndEvent(ctx, userID, eventID); err != nil {
		return err
	}
	return s.repo.Unfollow(ctx, userID, eventID)
}

// Join adds a user to an organization. ErrAlreadyMember when joined twice.
func (s *Service) Join(ctx context.Context, userID, orgID int64) error {
	if err := s.userAndOrg(ctx, userID, orgID); err != nil {
		return err
	}
	if err := s.repo.Join(ctx, userID, orgID); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", userID).Int64("org_id", orgID).Msg("organization joined")
	return nil
}

func (s *Service) Leave(ctx context.Context, userID, orgID int64) error {
	if err := s.userAndOrg(ctx, userID, orgID); err != nil {
		return err
	}
	return s.repo.Leave(ctx, userID, orgID)
}

func (s *Service) userAndEvent(ctx context.Context, userID, eventID int64) error {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	_, err := s.events.Get(ctx, eventID)
	return err
}

func (s *Service) userAndOrg(ctx context.Context, userID, orgID int64) error {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	_, err := s.orgs.Get(ctx, orgID)
	return err
}
