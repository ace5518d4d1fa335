package resolver

import (
	"context"
	"sync"
	"testing"

	"github.com/rpmonteiro/hackathon-starter/internal/auth"
	"github.com/rpmonteiro/hackathon-starter/internal/user"
)

func seedUser(t *testing.T, store user.Store, u *user.User) *user.User {
	t.Helper()
	if u.Bindings == nil {
		u.Bindings = make(map[string]string)
	}
	if err := store.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func googleIdentity() *auth.Identity {
	return &auth.Identity{
		Provider:       auth.ProviderGoogle,
		ProviderUserID: "g1",
		Email:          "a@x.com",
		AccessToken:    "g-access",
		Profile:        user.Profile{Name: "Ada", Gender: "female", Picture: "https://g/pic"},
	}
}

func TestResolveAnonymousReturningUserSignsIn(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	existing := seedUser(t, store, &user.User{
		Email:    "a@x.com",
		Bindings: map[string]string{"google": "g1"},
		Tokens:   []user.AuthToken{{Provider: "google", AccessToken: "old"}},
		Profile:  user.Profile{Name: "Ada"},
	})

	out, err := r.Resolve(ctx, googleIdentity(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != OutcomeSignedIn {
		t.Fatalf("Kind = %v, want OutcomeSignedIn", out.Kind)
	}
	if out.User.ID != existing.ID {
		t.Errorf("resolved user %q, want %q", out.User.ID, existing.ID)
	}

	// Sign-in must not mutate tokens or profile.
	after, err := store.FindByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(after.Tokens) != 1 || after.Tokens[0].AccessToken != "old" {
		t.Errorf("tokens mutated on sign-in: %+v", after.Tokens)
	}
}

func TestResolveAnonymousEmailTakenConflicts(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	// User with the claimed email but no google binding.
	existing := seedUser(t, store, &user.User{Email: "a@x.com"})

	out, err := r.Resolve(ctx, googleIdentity(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != OutcomeConflict || out.Reason != ConflictEmailTaken {
		t.Fatalf("got %v/%v, want conflict/email-already-registered", out.Kind, out.Reason)
	}
	if out.Message == "" {
		t.Error("conflict outcome missing user-facing message")
	}

	after, err := store.FindByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(after.Bindings) != 0 || len(after.Tokens) != 0 {
		t.Errorf("conflict mutated existing user: %+v", after)
	}
}

func TestResolveAnonymousEmailLookupIsCaseFolded(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	seedUser(t, store, &user.User{Email: "A@X.com"})

	out, err := r.Resolve(ctx, googleIdentity(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != OutcomeConflict || out.Reason != ConflictEmailTaken {
		t.Fatalf("got %v/%v, want email conflict for case-variant email", out.Kind, out.Reason)
	}
}

func TestResolveAnonymousUnknownIdentityCreatesUser(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	identity := &auth.Identity{
		Provider:       auth.ProviderTwitter,
		ProviderUserID: "t1",
		Email:          "bob@twitter.invalid",
		AccessToken:    "t-access",
		RefreshSecret:  "t-secret",
		Profile:        user.Profile{Name: "Bob", Location: "Lisbon", Picture: "https://t/pic"},
	}

	out, err := r.Resolve(ctx, identity, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != OutcomeCreated {
		t.Fatalf("Kind = %v, want OutcomeCreated", out.Kind)
	}

	created, err := store.FindByProvider(ctx, "twitter", "t1")
	if err != nil {
		t.Fatalf("FindByProvider: %v", err)
	}
	if created.Email != "bob@twitter.invalid" {
		t.Errorf("Email = %q, want synthesized twitter address", created.Email)
	}
	if created.Bindings["twitter"] != "t1" {
		t.Errorf("Bindings = %+v", created.Bindings)
	}
	if len(created.Tokens) != 1 || created.Tokens[0].RefreshSecret != "t-secret" {
		t.Errorf("Tokens = %+v", created.Tokens)
	}
	if created.Profile.Name != "Bob" || created.Profile.Location != "Lisbon" {
		t.Errorf("Profile = %+v", created.Profile)
	}
	if created.PasswordHash != "" {
		t.Error("OAuth-only account must have no password hash")
	}
}

func TestResolveLinkToCurrentUser(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	current := seedUser(t, store, &user.User{
		Email:   "a@x.com",
		Profile: user.Profile{Name: "Ada from Facebook"},
	})

	out, err := r.Resolve(ctx, googleIdentity(), current)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != OutcomeLinked {
		t.Fatalf("Kind = %v, want OutcomeLinked", out.Kind)
	}

	after, err := store.FindByID(ctx, current.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if after.Bindings["google"] != "g1" {
		t.Errorf("Bindings = %+v", after.Bindings)
	}
	if len(after.Tokens) != 1 || after.Tokens[0].Provider != "google" {
		t.Errorf("Tokens = %+v", after.Tokens)
	}

	// First writer wins: the facebook-set name survives a google link.
	if after.Profile.Name != "Ada from Facebook" {
		t.Errorf("Profile.Name = %q, want untouched", after.Profile.Name)
	}
	// Empty fields do get filled.
	if after.Profile.Gender != "female" || after.Profile.Picture != "https://g/pic" {
		t.Errorf("Profile = %+v, want empty fields filled", after.Profile)
	}
}

func TestResolveLinkUsesFreshRecordNotSessionCopy(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	current := seedUser(t, store, &user.User{Email: "a@x.com"})

	// Simulate another request mutating the record after the session
	// snapshot was taken.
	fresh, _ := store.FindByID(ctx, current.ID)
	fresh.Profile.Name = "Set Elsewhere"
	if err := store.Update(ctx, fresh); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stale := current.Clone()
	stale.Profile.Name = ""

	out, err := r.Resolve(ctx, googleIdentity(), stale)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != OutcomeLinked {
		t.Fatalf("Kind = %v, want OutcomeLinked", out.Kind)
	}

	after, _ := store.FindByID(ctx, current.ID)
	if after.Profile.Name != "Set Elsewhere" {
		t.Errorf("Profile.Name = %q; stale session data overwrote the record", after.Profile.Name)
	}
}

func TestResolveLinkProviderBoundElsewhereConflicts(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	owner := seedUser(t, store, &user.User{
		Email:    "owner@x.com",
		Bindings: map[string]string{"google": "g1"},
		Tokens:   []user.AuthToken{{Provider: "google", AccessToken: "owner-tok"}},
	})
	current := seedUser(t, store, &user.User{Email: "current@x.com"})

	out, err := r.Resolve(ctx, googleIdentity(), current)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != OutcomeConflict || out.Reason != ConflictProviderBound {
		t.Fatalf("got %v/%v, want provider conflict", out.Kind, out.Reason)
	}

	// Both users must be left unmodified.
	ownerAfter, _ := store.FindByID(ctx, owner.ID)
	if len(ownerAfter.Tokens) != 1 {
		t.Errorf("owner mutated: %+v", ownerAfter.Tokens)
	}
	currentAfter, _ := store.FindByID(ctx, current.ID)
	if len(currentAfter.Bindings) != 0 || len(currentAfter.Tokens) != 0 {
		t.Errorf("current user mutated: %+v", currentAfter)
	}
}

func TestResolveLinkAlreadyLinkedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	current := seedUser(t, store, &user.User{
		Email:    "a@x.com",
		Bindings: map[string]string{"google": "g1"},
		Tokens:   []user.AuthToken{{Provider: "google", AccessToken: "tok"}},
	})

	out, err := r.Resolve(ctx, googleIdentity(), current)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != OutcomeLinked {
		t.Fatalf("Kind = %v, want OutcomeLinked", out.Kind)
	}

	// Re-linking the same provider must not accumulate token entries.
	after, _ := store.FindByID(ctx, current.ID)
	if len(after.Tokens) != 1 {
		t.Errorf("Tokens = %d entries, want 1", len(after.Tokens))
	}
}

func TestResolveLinkDifferentAccountSameProviderConflicts(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	// Current user already linked a different google account.
	current := seedUser(t, store, &user.User{
		Email:    "a@x.com",
		Bindings: map[string]string{"google": "g-other"},
	})

	out, err := r.Resolve(ctx, googleIdentity(), current)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != OutcomeConflict || out.Reason != ConflictProviderBound {
		t.Fatalf("got %v/%v, want provider conflict", out.Kind, out.Reason)
	}

	after, _ := store.FindByID(ctx, current.ID)
	if after.Bindings["google"] != "g-other" {
		t.Errorf("binding rewritten: %+v", after.Bindings)
	}
}

func TestResolveLinkMultipleProvidersAccumulatesTokens(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	current := seedUser(t, store, &user.User{Email: "a@x.com"})

	identities := []*auth.Identity{
		{Provider: "facebook", ProviderUserID: "f1", Email: "a@x.com", AccessToken: "f-tok",
			Profile: user.Profile{Name: "Ada F"}},
		{Provider: "google", ProviderUserID: "g1", Email: "a@x.com", AccessToken: "g-tok",
			Profile: user.Profile{Name: "Ada G", Picture: "https://g/pic"}},
	}

	for _, identity := range identities {
		fresh, _ := store.FindByID(ctx, current.ID)
		out, err := r.Resolve(ctx, identity, fresh)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", identity.Provider, err)
		}
		if out.Kind != OutcomeLinked {
			t.Fatalf("Resolve(%s) kind = %v", identity.Provider, out.Kind)
		}
	}

	after, _ := store.FindByID(ctx, current.ID)
	if len(after.Tokens) != 2 {
		t.Fatalf("Tokens = %d entries, want 2", len(after.Tokens))
	}
	if after.Tokens[0].Provider != "facebook" || after.Tokens[1].Provider != "google" {
		t.Errorf("token order = %+v, want linking order", after.Tokens)
	}
	if after.Profile.Name != "Ada F" {
		t.Errorf("Profile.Name = %q, want first writer's value", after.Profile.Name)
	}
}

func TestResolveConcurrentAnonymousCallbacksBindOnce(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	r := NewStoreResolver(store)

	const attempts = 8
	var wg sync.WaitGroup
	outcomes := make([]Outcome, attempts)
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = r.Resolve(ctx, googleIdentity(), nil)
		}(i)
	}
	wg.Wait()

	var ids []string
	for i := range outcomes {
		if errs[i] != nil {
			t.Fatalf("Resolve[%d]: %v", i, errs[i])
		}
		if outcomes[i].User != nil {
			ids = append(ids, outcomes[i].User.ID)
		}
	}

	// Every successful outcome must resolve to the same single user; the
	// store's uniqueness constraints forbid a second binding.
	firstUser, err := store.FindByProvider(ctx, "google", "g1")
	if err != nil {
		t.Fatalf("FindByProvider: %v", err)
	}
	for _, id := range ids {
		if id != firstUser.ID {
			t.Errorf("resolved id %q, want %q", id, firstUser.ID)
		}
	}
}

func TestResolveNilIdentityErrors(t *testing.T) {
	r := NewStoreResolver(user.NewMemoryStore())
	if _, err := r.Resolve(context.Background(), nil, nil); err == nil {
		t.Fatal("Resolve(nil) = nil error")
	}
}
