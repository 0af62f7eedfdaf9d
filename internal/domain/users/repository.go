package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email is already taken")
)

// User is a stored account. PasswordHash never leaves the service layer in
// a response body.
type User struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	Location      *string
	Notifications int
}

// WantsNotifications reports whether the user opted into event change mail.
func (u User) WantsNotifications() bool {
	return u.Notifications == 1
}

// Input carries the mutable fields of a user as submitted by a client.
type Input struct {
	Name          string  `json:"name" validate:"required,max=128"`
	Email         string  `json:"email" validate:"required,max=128"`
	Password      string  `json:"password" validate:"required,max=72"`
	Location      *string `json:"location,omitempty" validate:"omitempty,max=128"`
	Notifications int     `json:"notifications" validate:"oneof=0 1"`
}

// Record is what the repository persists.
type Record struct {
	Name          string
	Email         string
	PasswordHash  string
	Location      *string
	Notifications int
}

type Repository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, record Record) (*User, error)
	Update(ctx context.Context, id int64, record Record) error
	Delete(ctx context.Context, id int64) error
}
