package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Togather-Foundation/eventhub/internal/domain/organizations"
)

var _ organizations.Repository = (*OrganizationRepository)(nil)

type OrganizationRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *OrganizationRepository) queryer() queryer {
	return pick(r.pool, r.tx)
}

func (r *OrganizationRepository) List(ctx context.Context) ([]organizations.Organization, error) {
	rows, err := r.queryer().Query(ctx, `SELECT id, name FROM organizations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return collectOrganizations(rows)
}

func (r *OrganizationRepository) Get(ctx context.Context, id int64) (*organizations.Organization, error) {
	var org organizations.Organization
	err := r.queryer().QueryRow(ctx, `SELECT id, name FROM organizations WHERE id = $1`, id).Scan(&org.ID, &org.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, organizations.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, input organizations.Input) (*organizations.Organization, error) {
	org := organizations.Organization{Name: input.Name}
	err := r.queryer().QueryRow(ctx, `INSERT INTO organizations (name) VALUES ($1) RETURNING id`, input.Name).Scan(&org.ID)
	if err != nil {
		return nil, mapOrganizationError("create organization", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, id int64, input organizations.Input) error {
	tag, err := r.queryer().Exec(ctx, `UPDATE organizations SET name = $2 WHERE id = $1`, id, input.Name)
	if err != nil {
		return mapOrganizationError("update organization", err)
	}
	if tag.RowsAffected() == 0 {
		return organizations.ErrNotFound
	}
	return nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return organizations.ErrNotFound
	}
	return nil
}

func mapOrganizationError(op string, err error) error {
	if _, ok := constraintError(err, uniqueViolation); ok {
		return organizations.ErrNameTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}

func collectOrganizations(rows pgx.Rows) ([]organizations.Organization, error) {
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (organizations.Organization, error) {
		var org organizations.Organization
		err := row.Scan(&org.ID, &org.Name)
		return org, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan organizations: %w", err)
	}
	return items, nil
}
