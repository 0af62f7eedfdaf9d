package storage

import (
	"context"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/relations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
)

// Repository groups data access by domain.
type Repository interface {
	Events() events.Repository
	Users() users.Repository
	Organizations() organizations.Repository
	Relations() relations.Repository

	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
}
