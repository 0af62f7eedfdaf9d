package events

import (
	"context"
	"errors"
)

var (
	ErrNotFound            = errors.New("event not found")
	ErrInvalidOrganization = errors.New("organization does not exist")
)

type Event struct {
	ID           int64
	Name         string
	Time         string
	Description  string
	Location     *string
	Organization *int64
}

// Input carries the mutable fields of an event. Time is free text.
type Input struct {
	Name         string  `json:"name" validate:"required,max=128"`
	Time         string  `json:"time" validate:"required,max=128"`
	Description  string  `json:"description" validate:"required,max=255"`
	Location     *string `json:"location,omitempty" validate:"omitempty,max=128"`
	Organization *int64  `json:"organization" validate:"omitempty,gt=0"`
}

type Repository interface {
	List(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id int64) (*Event, error)
	Create(ctx context.Context, input Input) (*Event, error)
	Update(ctx context.Context, id int64, input Input) error
	Delete(ctx context.Context, id int64) error
	// NotifiableFollowers returns the emails of followers that opted into
	// notifications.
	NotifiableFollowers(ctx context.Context, id int64) ([]string, error)
}
