package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/relations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
)

var _ relations.Repository = (*RelationRepository)(nil)

// RelationRepository manages the following and memberships join tables.
type RelationRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *RelationRepository) queryer() queryer {
	return pick(r.pool, r.tx)
}

func (r *RelationRepository) FollowedEvents(ctx context.Context, userID int64) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT e.id, e.name, e.time, e.description, e.location, e.organization
  FROM following f
  JOIN events e ON e.id = f.event_id
 WHERE f.user_id = $1
 ORDER BY e.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list followed events: %w", err)
	}
	return collectEvents(rows)
}

func (r *RelationRepository) Followers(ctx context.Context, eventID int64) ([]users.User, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT u.id, u.name, u.email, u.password_hash, u.location, u.notifications
  FROM following f
  JOIN users u ON u.id = f.user_id
 WHERE f.event_id = $1
 ORDER BY u.id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return collectUsers(rows)
}

func (r *RelationRepository) UserOrganizations(ctx context.Context, userID int64) ([]organizations.Organization, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT o.id, o.name
  FROM memberships m
  JOIN organizations o ON o.id = m.org_id
 WHERE m.user_id = $1
 ORDER BY o.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user organizations: %w", err)
	}
	return collectOrganizations(rows)
}

func (r *RelationRepository) Members(ctx context.Context, orgID int64) ([]users.User, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT u.id, u.name, u.email, u.password_hash, u.location, u.notifications
  FROM memberships m
  JOIN users u ON u.id = m.user_id
 WHERE m.org_id = $1
 ORDER BY u.id`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return collectUsers(rows)
}

func (r *RelationRepository) Follow(ctx context.Context, userID, eventID int64) error {
	_, err := r.queryer().Exec(ctx, `INSERT INTO following (user_id, event_id) VALUES ($1, $2)`, userID, eventID)
	if err == nil {
		return nil
	}
	if _, ok := constraintError(err, uniqueViolation); ok {
		return relations.ErrAlreadyFollowing
	}
	if constraint, ok := constraintError(err, foreignKeyViolation); ok {
		if constraint == "following_user_id_fkey" {
			return users.ErrNotFound
		}
		return events.ErrNotFound
	}
	return fmt.Errorf("follow event: %w", err)
}

func (r *RelationRepository) Unfollow(ctx context.Context, userID, eventID int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM following WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return fmt.Errorf("unfollow event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return relations.ErrNotFollowing
	}
	return nil
}

func (r *RelationRepository) Join(ctx context.Context, userID, orgID int64) error {
	_, err := r.queryer().Exec(ctx, `INSERT INTO memberships (user_id, org_id) VALUES ($1, $2)`, userID, orgID)
	if err == nil {
		return nil
	}
	if _, ok := constraintError(err, uniqueViolation); ok {
		return relations.ErrAlreadyMember
	}
	if constraint, ok := constraintError(err, foreignKeyViolation); ok {
		if constraint == "memberships_user_id_fkey" {
			return users.ErrNotFound
		}
		return organizations.ErrNotFound
	}
	return fmt.Errorf("join organization: %w", err)
}

func (r *RelationRepository) Leave(ctx context.Context, userID, orgID int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM memberships WHERE user_id = $1 AND org_id = $2`, userID, orgID)
	if err != nil {
		return fmt.Errorf("leave organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return relations.ErrNotMember
	}
	return nil
}
