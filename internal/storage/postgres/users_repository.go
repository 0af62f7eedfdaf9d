package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Togather-Foundation/eventhub/internal/domain/users"
)

var _ users.Repository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const userColumns = `id, name, email, password_hash, location, notifications`

func (r *UserRepository) queryer() queryer {
	return pick(r.pool, r.tx)
}

func (r *UserRepository) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.queryer().Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) Get(ctx context.Context, id int64) (*users.User, error) {
	row := r.queryer().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, record users.Record) (*users.User, error) {
	user := users.User{
		Name:          record.Name,
		Email:         record.Email,
		PasswordHash:  record.PasswordHash,
		Location:      record.Location,
		Notifications: record.Notifications,
	}
	err := r.queryer().QueryRow(ctx, `
INSERT INTO users (name, email, password_hash, location, notifications)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		record.Name, record.Email, record.PasswordHash, record.Location, int16(record.Notifications),
	).Scan(&user.ID)
	if err != nil {
		return nil, mapUserError("create user", err)
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, record users.Record) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE users
   SET name = $2, email = $3, password_hash = $4, location = $5, notifications = $6
 WHERE id = $1`,
		id, record.Name, record.Email, record.PasswordHash, record.Location, int16(record.Notifications),
	)
	if err != nil {
		return mapUserError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func mapUserError(op string, err error) error {
	if _, ok := constraintError(err, uniqueViolation); ok {
		return users.ErrEmailTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanUser(row pgx.Row) (users.User, error) {
	var (
		user          users.User
		notifications int16
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Location, &notifications); err != nil {
		return users.User{}, err
	}
	user.Notifications = int(notifications)
	return user, nil
}

func collectUsers(rows pgx.Rows) ([]users.User, error) {
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (users.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return items, nil
}
