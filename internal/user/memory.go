package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store. It enforces the same uniqueness
// rules the Postgres schema does, so resolver behavior under races is
// identical against either backend.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lowered := strings.ToLower(email)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == lowered {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByProvider(ctx context.Context, provider, providerUserID string) (*User, error) {
	if provider == "" || providerUserID == "" {
		// A zero-value map read would match every user without the
		// provider bound.
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Bindings[provider] == providerUserID {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByResetToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.PasswordResetToken == token {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(u, ""); err != nil {
		return err
	}

	u.ID = uuid.NewString()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.ID] = u.Clone()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	if err := s.checkUnique(u, u.ID); err != nil {
		return err
	}

	u.UpdatedAt = time.Now()
	s.users[u.ID] = u.Clone()
	return nil
}

// checkUnique mirrors the database constraints. Callers hold the lock.
func (s *MemoryStore) checkUnique(candidate *User, selfID string) error {
	lowered := strings.ToLower(candidate.Email)

	for id, existing := range s.users {
		if id == selfID {
			continue
		}
		if strings.ToLower(existing.Email) == lowered {
			return ErrDuplicateEmail
		}
		for provider, providerUserID := range candidate.Bindings {
			if existing.Bindings[provider] == providerUserID {
				return ErrDuplicateBinding
			}
		}
	}
	return nil
}
