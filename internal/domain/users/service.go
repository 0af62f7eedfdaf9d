package users

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Togather-Foundation/eventhub/internal/validation"
)

// BcryptCost is the cost factor for password hashing.
const BcryptCost = 12

type Service struct {
	repo      Repository
	validator *validation.Validator
	cost      int
	logger    zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validation.New(),
		cost:      BcryptCost,
		logger:    logger.With().Str("component", "users").Logger(),
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// Create hashes the password and stores the user. A reused email yields
// ErrEmailTaken.
func (s *Service) Create(ctx context.Context, input Input) (*User, error) {
	record, err := s.record(input)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

// Replace overwrites every mutable field. The password is hashed again on
// each call.
func (s *Service) Replace(ctx context.Context, id int64, input Input) error {
	record, err := s.record(input)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, id, record)
}

// Delete removes the user together with its follows and memberships.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *Service) record(input Input) (Record, error) {
	if err := s.validator.Struct(input); err != nil {
		return Record{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return Record{}, fmt.Errorf("hash password: %w", err)
	}

	return Record{
		Name:          input.Name,
		Email:         input.Email,
		PasswordHash:  string(hash),
		Location:      input.Location,
		Notifications: input.Notifications,
	}, nil
}
