package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpmonteiro/hackathon-starter/internal/user"
	"github.com/rpmonteiro/hackathon-starter/internal/utils"
)

var (
	// ErrUserNotFound means no account exists for the email. Handlers
	// must not surface the distinction from ErrInvalidCredentials to the
	// end user; both map to one generic message.
	ErrUserNotFound = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("account already exists")

	ErrResetTokenInvalid = errors.New("password reset token is invalid or expired")
)

const resetTokenTTL = time.Hour

// Service verifies and manages local email/password credentials.
type Service struct {
	store user.Store
}

func NewService(store user.Store) *Service {
	return &Service{store: store}
}

// Verify checks a submitted email and password against the stored
// record. It never mutates state.
func (s *Service) Verify(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err == user.ErrNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("credentials: lookup user: %w", err)
	}

	if u.PasswordHash == "" {
		// OAuth-only account, no local password to compare.
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Register creates a local account with an email and password.
func (s *Service) Register(ctx context.Context, email, password string) (*user.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		Bindings:     make(map[string]string),
	}

	err = s.store.Create(ctx, u)
	if err == user.ErrDuplicateEmail {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("credentials: create user: %w", err)
	}

	return u, nil
}

// CreateResetToken issues a one-hour password reset token for the
// account that owns the email.
func (s *Service) CreateResetToken(ctx context.Context, email string) (string, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err == user.ErrNotFound {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credentials: lookup user: %w", err)
	}

	token := utils.RandomString(24)
	u.PasswordResetToken = token
	u.PasswordResetExpires = time.Now().Add(resetTokenTTL)

	if err := s.store.Update(ctx, u); err != nil {
		return "", fmt.Errorf("credentials: save reset token: %w", err)
	}

	return token, nil
}

// ResetPassword sets a new password for the account holding a valid,
// unexpired reset token, and consumes the token.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (*user.User, error) {
	u, err := s.store.FindByResetToken(ctx, token)
	if err == user.ErrNotFound {
		return nil, ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("credentials: lookup reset token: %w", err)
	}

	if time.Now().After(u.PasswordResetExpires) {
		return nil, ErrResetTokenInvalid
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	u.PasswordHash = hash
	u.PasswordResetToken = ""
	u.PasswordResetExpires = time.Time{}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("credentials: save new password: %w", err)
	}

	return u, nil
}
