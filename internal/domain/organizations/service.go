package organizations

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/validation"
)

type Service struct {
	repo      Repository
	validator *validation.Validator
	logger    zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validation.New(),
		logger:    logger.With().Str("component", "organizations").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]Organization, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Organization, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new organization. Duplicate names yield ErrNameTaken.
func (s *Service) Create(ctx context.Context, input Input) (*Organization, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	org, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("org_id", org.ID).Msg("organization created")
	return org, nil
}

// Replace overwrites every mutable field of an existing organization.
func (s *Service) Replace(ctx context.Context, id int64, input Input) error {
	if err := s.validator.Struct(input); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes the organization. Memberships go with it and events that
// referenced it lose their organization.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("org_id", id).Msg("organization deleted")
	return nil
}
