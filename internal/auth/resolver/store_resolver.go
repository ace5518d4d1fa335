package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rpmonteiro/hackathon-starter/internal/auth"
	"github.com/rpmonteiro/hackathon-starter/internal/user"
)

// StoreResolver resolves identities against the user store. The branch
// order below is deliberate: session-user checks run before any write,
// and no branch ever merges two existing accounts.
type StoreResolver struct {
	store user.Store
}

func NewStoreResolver(store user.Store) *StoreResolver {
	return &StoreResolver{store: store}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
	current *user.User,
) (Outcome, error) {

	if identity == nil {
		return Outcome{}, errors.New("resolver: identity is nil")
	}

	if current != nil {
		return r.link(ctx, identity, current)
	}
	return r.signInOrCreate(ctx, identity)
}

// link attaches the provider identity to the authenticated user.
func (r *StoreResolver) link(
	ctx context.Context,
	identity *auth.Identity,
	current *user.User,
) (Outcome, error) {

	bound, err := r.store.FindByProvider(ctx, identity.Provider, identity.ProviderUserID)
	if err != nil && err != user.ErrNotFound {
		return Outcome{}, fmt.Errorf("resolver: lookup binding: %w", err)
	}

	if bound != nil {
		if bound.ID != current.ID {
			return providerConflict(identity.Provider), nil
		}
		// Already linked to this user; idempotent, no token append.
		return Outcome{Kind: OutcomeLinked, User: bound}, nil
	}

	// Re-fetch by id so stale session state never feeds a write.
	fresh, err := r.store.FindByID(ctx, current.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolver: refresh user: %w", err)
	}

	if existing, ok := fresh.Binding(identity.Provider); ok && existing != identity.ProviderUserID {
		// The user already holds a different account for this provider;
		// bindings are immutable once set.
		return providerConflict(identity.Provider), nil
	}

	if fresh.Bindings == nil {
		fresh.Bindings = make(map[string]string)
	}
	fresh.Bindings[identity.Provider] = identity.ProviderUserID
	fresh.Tokens = append(fresh.Tokens, user.AuthToken{
		Provider:      identity.Provider,
		AccessToken:   identity.AccessToken,
		RefreshSecret: identity.RefreshSecret,
	})
	fresh.Profile.Fill(identity.Profile)

	err = r.store.Update(ctx, fresh)
	if err == user.ErrDuplicateBinding {
		// Lost a race: somebody else bound this identity between the
		// lookup and the write.
		return providerConflict(identity.Provider), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("resolver: save link: %w", err)
	}

	return Outcome{Kind: OutcomeLinked, User: fresh}, nil
}

// signInOrCreate handles anonymous callbacks: returning users sign in,
// unknown identities with an unclaimed email get a new account.
func (r *StoreResolver) signInOrCreate(
	ctx context.Context,
	identity *auth.Identity,
) (Outcome, error) {

	bound, err := r.store.FindByProvider(ctx, identity.Provider, identity.ProviderUserID)
	if err != nil && err != user.ErrNotFound {
		return Outcome{}, fmt.Errorf("resolver: lookup binding: %w", err)
	}
	if bound != nil {
		return Outcome{Kind: OutcomeSignedIn, User: bound}, nil
	}

	// An existing email account is never auto-linked from an anonymous
	// callback; the owner must sign in first and link explicitly.
	existing, err := r.store.FindByEmail(ctx, identity.Email)
	if err != nil && err != user.ErrNotFound {
		return Outcome{}, fmt.Errorf("resolver: lookup email: %w", err)
	}
	if existing != nil {
		return emailConflict(identity.Provider), nil
	}

	created := &user.User{
		Email: identity.Email,
		Bindings: map[string]string{
			identity.Provider: identity.ProviderUserID,
		},
		Tokens: []user.AuthToken{{
			Provider:      identity.Provider,
			AccessToken:   identity.AccessToken,
			RefreshSecret: identity.RefreshSecret,
		}},
		Profile: identity.Profile,
	}

	err = r.store.Create(ctx, created)
	if err == user.ErrDuplicateEmail {
		return emailConflict(identity.Provider), nil
	}
	if err == user.ErrDuplicateBinding {
		return providerConflict(identity.Provider), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("resolver: create user: %w", err)
	}

	return Outcome{Kind: OutcomeCreated, User: created}, nil
}

func providerConflict(provider string) Outcome {
	return Outcome{
		Kind:   OutcomeConflict,
		Reason: ConflictProviderBound,
		Message: fmt.Sprintf(
			"There is already a %s account that belongs to you. Sign in with that account or delete it, then link it with your current account.",
			titleCase(provider),
		),
	}
}

func emailConflict(provider string) Outcome {
	return Outcome{
		Kind:   OutcomeConflict,
		Reason: ConflictEmailTaken,
		Message: fmt.Sprintf(
			"There is already an account using this email address. Sign in to that account and link it with %s manually from Account Settings.",
			titleCase(provider),
		),
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
