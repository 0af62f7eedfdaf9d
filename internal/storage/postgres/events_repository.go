package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Togather-Foundation/eventhub/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const eventColumns = `id, name, time, description, location, organization`

func (r *EventRepository) queryer() queryer {
	return pick(r.pool, r.tx)
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) Get(ctx context.Context, id int64) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) Create(ctx context.Context, input events.Input) (*events.Event, error) {
	event := events.Event{
		Name:         input.Name,
		Time:         input.Time,
		Description:  input.Description,
		Location:     input.Location,
		Organization: input.Organization,
	}
	err := r.queryer().QueryRow(ctx, `
INSERT INTO events (name, time, description, location, organization)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		input.Name, input.Time, input.Description, input.Location, input.Organization,
	).Scan(&event.ID)
	if err != nil {
		return nil, mapEventError("create event", err)
	}
	return &event, nil
}

func (r *EventRepository) Update(ctx context.Context, id int64, input events.Input) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE events
   SET name = $2, time = $3, description = $4, location = $5, organization = $6
 WHERE id = $1`,
		id, input.Name, input.Time, input.Description, input.Location, input.Organization,
	)
	if err != nil {
		return mapEventError("update event", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) NotifiableFollowers(ctx context.Context, id int64) ([]string, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT u.email
  FROM following f
  JOIN users u ON u.id = f.user_id
 WHERE f.event_id = $1 AND u.notifications = 1
 ORDER BY u.id`, id)
	if err != nil {
		return nil, fmt.Errorf("list notifiable followers: %w", err)
	}
	emails, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan notifiable followers: %w", err)
	}
	return emails, nil
}

func mapEventError(op string, err error) error {
	if _, ok := constraintError(err, foreignKeyViolation); ok {
		return events.ErrInvalidOrganization
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanEvent(row pgx.Row) (events.Event, error) {
	var event events.Event
	err := row.Scan(&event.ID, &event.Name, &event.Time, &event.Description, &event.Location, &event.Organization)
	return event, err
}

func collectEvents(rows pgx.Rows) ([]events.Event, error) {
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (events.Event, error) {
		return scanEvent(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return items, nil
}
