// Package seed loads a small demonstration data set.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
	"github.com/Togather-Foundation/eventhub/internal/domain/relations"
	"github.com/Togather-Foundation/eventhub/internal/domain/users"
	"github.com/Togather-Foundation/eventhub/internal/storage"
)

// ErrAlreadySeeded is returned when the sample organizations already exist.
var ErrAlreadySeeded = errors.New("database already contains seed data")

// Summary counts what Run created.
type Summary struct {
	Organizations int
	Events        int
	Users         int
	Follows       int
	Memberships   int
}

type eventSeed struct {
	input events.Input
	org   string
}

type userSeed struct {
	input   users.Input
	follows []string
	joins   []string
}

func ptr[T any](v T) *T { return &v }

var (
	orgSeeds = []string{"OTiT", "Blanko"}

	eventSeeds = []eventSeed{
		{input: events.Input{Name: "Sitsit", Time: "2026-11-13 18:00", Description: "Annual dinner party", Location: ptr("Tietotalo")}, org: "OTiT"},
		{input: events.Input{Name: "Karaoke", Time: "2026-11-20 19:00", Description: "Sing along night", Location: ptr("Kultturelli")}, org: "Blanko"},
		{input: events.Input{Name: "Open lecture", Time: "2026-12-02 14:15", Description: "Guest talk on distributed systems"}},
	}

	userSeeds = []userSeed{
		{
			input:   users.Input{Name: "Maija", Email: "maija@example.com", Password: "hunter22", Location: ptr("Oulu"), Notifications: 1},
			follows: []string{"Sitsit", "Karaoke"},
			joins:   []string{"OTiT"},
		},
		{
			input:   users.Input{Name: "Matti", Email: "matti@example.com", Password: "salasana1", Notifications: 0},
			follows: []string{"Open lecture"},
			joins:   []string{"OTiT", "Blanko"},
		},
	}
)

// Run inserts the sample data in one transaction. passwordCost of zero uses
// the default bcrypt cost.
func Run(ctx context.Context, repo storage.Repository, passwordCost int, logger zerolog.Logger) (Summary, error) {
	var summary Summary
	err := repo.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		summary = Summary{}

		orgService := organizations.NewService(tx.Organizations(), logger)
		eventService := events.NewService(tx.Events(), nil, logger)
		userService := users.NewService(tx.Users(), logger)
		if passwordCost > 0 {
			userService = userService.WithCost(passwordCost)
		}
		relationService := relations.NewService(tx.Relations(), userService, eventService, orgService, logger)

		orgIDs := make(map[string]int64, len(orgSeeds))
		for _, name := range orgSeeds {
			org, err := orgService.Create(ctx, organizations.Input{Name: name})
			if errors.Is(err, organizations.ErrNameTaken) {
				return ErrAlreadySeeded
			}
			if err != nil {
				return fmt.Errorf("seed organization %s: %w", name, err)
			}
			orgIDs[name] = org.ID
			summary.Organizations++
		}

		eventIDs := make(map[string]int64, len(eventSeeds))
		for _, seed := range eventSeeds {
			input := seed.input
			if seed.org != "" {
				input.Organization = ptr(orgIDs[seed.org])
			}
			event, err := eventService.Create(ctx, input)
			if err != nil {
				return fmt.Errorf("seed event %s: %w", input.Name, err)
			}
			eventIDs[input.Name] = event.ID
			summary.Events++
		}

		for _, seed := range userSeeds {
			user, err := userService.Create(ctx, seed.input)
			if err != nil {
				return fmt.Errorf("seed user %s: %w", seed.input.Email, err)
			}
			summary.Users++

			for _, name := range seed.follows {
				if err := relationService.Follow(ctx, user.ID, eventIDs[name]); err != nil {
					return fmt.Errorf("seed follow %s: %w", name, err)
				}
				summary.Follows++
			}
			for _, name := range seed.joins {
				if err := relationService.Join(ctx, user.ID, orgIDs[name]); err != nil {
					return fmt.Errorf("seed membership %s: %w", name, err)
				}
				summary.Memberships++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	logger.Info().
		Int("organizations", summary.Organizations).
		Int("events", summary.Events).
		Int("users", summary.Users).
		Msg("seed data loaded")
	return summary, nil
}
