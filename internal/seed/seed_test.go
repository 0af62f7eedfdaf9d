package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Togather-Foundation/eventhub/internal/storage/memory"
)

func TestRunLoadsSampleData(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	summary, err := Run(ctx, store, bcrypt.MinCost, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Summary{Organizations: 2, Events: 3, Users: 2, Follows: 3, Memberships: 3}, summary)

	events, err := store.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.NotNil(t, events[0].Organization)
	assert.Nil(t, events[2].Organization)

	followed, err := store.Relations().FollowedEvents(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, followed, 2)

	members, err := store.Relations().Members(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	recipients, err := store.Events().NotifiableFollowers(ctx, events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"maija@example.com"}, recipients)
}

func TestRunTwiceReportsAlreadySeeded(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := Run(ctx, store, bcrypt.MinCost, zerolog.Nop())
	require.NoError(t, err)

	_, err = Run(ctx, store, bcrypt.MinCost, zerolog.Nop())
	require.ErrorIs(t, err, ErrAlreadySeeded)
}
