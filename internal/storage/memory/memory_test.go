package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/relations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
)

func TestOrganizationDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := New()

	org, err := store.Organizations().Create(ctx, organizations.Input{Name: "OTiT"})
	require.NoError(t, err)
	_, err = store.Organizations().Create(ctx, organizations.Input{Name: "OTiT"})
	require.ErrorIs(t, err, organizations.ErrNameTaken)

	event, err := store.Events().Create(ctx, events.Input{Name: "Karaoke", Time: "9:23", Description: "Something", Organization: &org.ID})
	require.NoError(t, err)
	user, err := store.Users().Create(ctx, users.Record{Name: "Maija", Email: "maija@example.com", PasswordHash: "x", Notifications: 1})
	require.NoError(t, err)
	require.NoError(t, store.Relations().Join(ctx, user.ID, org.ID))

	require.NoError(t, store.Organizations().Delete(ctx, org.ID))

	got, err := store.Events().Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Organization)

	orgs, err := store.Relations().UserOrganizations(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, orgs)
	assert.NotNil(t, orgs)
}

func TestFollowChecksBothSides(t *testing.T) {
	ctx := context.Background()
	store := New()

	user, err := store.Users().Create(ctx, users.Record{Name: "Maija", Email: "maija@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	require.ErrorIs(t, store.Relations().Follow(ctx, user.ID, 7), events.ErrNotFound)
	require.ErrorIs(t, store.Relations().Follow(ctx, 9, 7), users.ErrNotFound)
	require.ErrorIs(t, store.Relations().Unfollow(ctx, user.ID, 7), relations.ErrNotFollowing)
}

func TestFailIsReturnedEverywhere(t *testing.T) {
	ctx := context.Background()
	store := New()
	boom := errors.New("boom")
	store.Fail = boom

	_, err := store.Events().List(ctx)
	require.ErrorIs(t, err, boom)
	_, err = store.Users().Get(ctx, 1)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, store.Relations().Join(ctx, 1, 1), boom)
}
