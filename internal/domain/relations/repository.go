// Package relations manages the two join entities: users following events
// and users belonging to organizations.
package relations

import (
	"context"
	"errors"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
)

var (
	ErrAlreadyFollowing = errors.New("user already follows this event")
	ErrNotFollowing     = errors.New("user does not follow this event")
	ErrAlreadyMember    = errors.New("user is already a member of this organization")
	ErrNotMember        = errors.New("user is not a member of this organization")
)

type Repository interface {
	FollowedEvents(ctx context.Context, userID int64) ([]events.Event, error)
	Followers(ctx context.Context, eventID int64) ([]users.User, error)
	UserOrganizations(ctx context.Context, userID int64) ([]organizations.Organization, error)
	Members(ctx context.Context, orgID int64) ([]users.User, error)

	Follow(ctx context.Context, userID, eventID int64) error
	Unfollow(ctx context.Context, userID, eventID int64) error
	Join(ctx context.Context, userID, orgID int64) error
	Leave(ctx context.Context, userID, orgID int64) error
}

type UserLookup interface {
	Get(ctx context.Context, id int64) (*users.User, error)
}

type EventLookup interface {
	Get(ctx context.Context, id int64) (*events.Event, error)
}

type OrganizationLookup interface {
	Get(ctx context.Context, id int64) (*organizations.Organization, error)
}
