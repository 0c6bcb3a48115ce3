package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

// ProfileUpdate carries partial profile changes; nil fields are left as-is.
type ProfileUpdate struct {
	Email     *string
	Firstname *string
	Lastname  *string
}

// Repository is the credential store contract. Implementations must surface
// unique-email violations as ErrEmailTaken and missing rows as ErrNotFound;
// anything else propagates as an internal storage error.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, u User) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (User, error)

	// UpdateRefreshHash stores the fingerprint of the current refresh token.
	// An empty hash clears the stored fingerprint (no active session).
	UpdateRefreshHash(ctx context.Context, id, hash string) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}
