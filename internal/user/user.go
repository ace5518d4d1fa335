package user

import (
	"time"
)

// AuthToken is one provider credential obtained during a linking event.
// The list on a user is append-only and ordered by linking time.
type AuthToken struct {
	Provider      string
	AccessToken   string
	RefreshSecret string
}

// Profile holds display fields gathered from providers. Each field is
// first-writer-wins: once set it is never overwritten by a later link.
type Profile struct {
	Name     string
	Gender   string
	Picture  string
	Location string
}

// Fill copies fields from src into p, but only where p is still empty.
func (p *Profile) Fill(src Profile) {
	if p.Name == "" {
		p.Name = src.Name
	}
	if p.Gender == "" {
		p.Gender = src.Gender
	}
	if p.Picture == "" {
		p.Picture = src.Picture
	}
	if p.Location == "" {
		p.Location = src.Location
	}
}

// User is the local account record. Bindings maps a provider name to
// the provider's user id; a binding is immutable once set.
type User struct {
	ID    string
	Email string

	// PasswordHash is empty for OAuth-only accounts.
	PasswordHash string

	PasswordResetToken   string
	PasswordResetExpires time.Time

	Bindings map[string]string
	Tokens   []AuthToken
	Profile  Profile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Binding returns the provider user id bound for the given provider.
func (u *User) Binding(provider string) (string, bool) {
	id, ok := u.Bindings[provider]
	return id, ok
}

// TokenFor returns the first stored token for the given provider.
func (u *User) TokenFor(provider string) (AuthToken, bool) {
	for _, t := range u.Tokens {
		if t.Provider == provider {
			return t, true
		}
	}
	return AuthToken{}, false
}

// Clone returns a deep copy so callers can mutate freely.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	cp := *u
	cp.Bindings = make(map[string]string, len(u.Bindings))
	for k, v := range u.Bindings {
		cp.Bindings[k] = v
	}
	cp.Tokens = append([]AuthToken(nil), u.Tokens...)
	return &cp
}
