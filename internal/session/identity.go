package session

import (
	"context"

	"github.com/rpmonteiro/hackathon-starter/internal/user"
)

// IdentityAdapter maps an authenticated user to the opaque token kept
// in the session record and back. The token is the user's stable id.
type IdentityAdapter struct {
	users user.Store
}

func NewIdentityAdapter(users user.Store) *IdentityAdapter {
	return &IdentityAdapter{users: users}
}

// Serialize returns the opaque session token for a user.
func (a *IdentityAdapter) Serialize(u *user.User) string {
	return u.ID
}

// Deserialize resolves a session token back to the user record. The
// lookup always hits the store so mutations from linking events are
// visible on the next request.
func (a *IdentityAdapter) Deserialize(ctx context.Context, token string) (*user.User, error) {
	return a.users.FindByID(ctx, token)
}
