package resolver

import (
	"context"

	"github.com/rpmonteiro/hackathon-starter/internal/auth"
	"github.com/rpmonteiro/hackathon-starter/internal/user"
)

// OutcomeKind tags the result of identity reconciliation.
type OutcomeKind int

const (
	// OutcomeLinked: the provider identity was attached to the already
	// authenticated user.
	OutcomeLinked OutcomeKind = iota

	// OutcomeSignedIn: an anonymous callback matched an existing binding.
	OutcomeSignedIn

	// OutcomeCreated: a new account was created for the identity.
	OutcomeCreated

	// OutcomeConflict: the identity cannot be reconciled without merging
	// two distinct accounts; nothing was written.
	OutcomeConflict
)

// ConflictReason identifies which uniqueness rule blocked the flow.
type ConflictReason string

const (
	ConflictProviderBound ConflictReason = "provider-already-bound"
	ConflictEmailTaken    ConflictReason = "email-already-registered"
)

// Outcome is the resolver's result. User is set for every kind except
// OutcomeConflict; Reason and Message are set only on conflicts.
type Outcome struct {
	Kind    OutcomeKind
	User    *user.User
	Reason  ConflictReason
	Message string
}

// Resolver decides which local account an external identity belongs to.
// It is the only place where identity-to-user mapping logic lives.
type Resolver interface {
	// Resolve reconciles the identity. current is the authenticated
	// session user, or nil for an anonymous callback. Errors are
	// persistence failures only; conflicts are outcomes, not errors.
	Resolve(ctx context.Context, identity *auth.Identity, current *user.User) (Outcome, error)
}
