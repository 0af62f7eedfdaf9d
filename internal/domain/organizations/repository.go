package organizations

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("organization not found")
	ErrNameTaken = errors.New("organization name is already taken")
)

type Organization struct {
	ID   int64
	Name string
}

// Input carries the mutable fields of an organization.
type Input struct {
	Name string `json:"name" validate:"required,max=128"`
}

type Repository interface {
	List(ctx context.Context) ([]Organization, error)
	Get(ctx context.Context, id int64) (*Organization, error)
	Create(ctx context.Context, input Input) (*Organization, error)
	Update(ctx context.Context, id int64, input Input) error
	Delete(ctx context.Context, id int64) error
}
