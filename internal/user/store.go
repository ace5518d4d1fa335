package user

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no user matched the lookup key.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail means the email already belongs to another account.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateBinding means the (provider, provider user id) pair is
	// already bound to another account.
	ErrDuplicateBinding = errors.New("provider identity already bound")
)

// Store is the keyed-record store over users. Implementations must
// enforce uniqueness of LOWER(email) and of (provider, providerUserID),
// and must apply Create/Update as a single atomic record write.
type Store interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByProvider(ctx context.Context, provider, providerUserID string) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)

	// Create persists a new user and assigns its ID.
	Create(ctx context.Context, u *User) error

	// Update rewrites the full record identified by u.ID.
	Update(ctx context.Context, u *User) error
}
