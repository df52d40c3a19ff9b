package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vesperhq/authkit/pkg/password"
)

// Register creates a fully onboarded admin identity and returns its first
// bearer token. Self-registration grants the admin role and accepted status
// in this deployment.
func (s *Service) Register(ctx context.Context, email, plaintext string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if plaintext == "" {
		return nil, ErrPasswordRequired
	}

	if _, err := s.storage.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.vault.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Status:       StatusAccepted,
		Roles:        []Role{RoleAdmin},
		CreatedAt:    time.Now(),
	}
	if err := s.storage.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}

// Login verifies the password and issues a bearer token. Any failure,
// including an unknown email, surfaces as ErrInvalidCredentials to prevent
// account enumeration.
func (s *Service) Login(ctx context.Context, email, plaintext string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	user, err := s.storage.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		// Invited identity with no password yet.
		return nil, ErrInvalidCredentials
	}
	if err := s.vault.Verify(plaintext, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}

// InviteAdmin provisions an identity in invited status with no password and
// emails it an invitation carrying a bearer token bound to the new record.
// The token is also returned for callers that surface it directly.
func (s *Service) InviteAdmin(ctx context.Context, email string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Status:    StatusInvited,
		CreatedAt: time.Now(),
	}
	if err := s.storage.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.notifyAsync(email, "invitation", func(ctx context.Context) error {
		return s.notifier.SendInvitation(ctx, email, token)
	})

	return &AuthResult{User: user, AccessToken: token}, nil
}

// AcceptInvite completes onboarding of an invited identity: sets the
// password, grants the admin role and moves the status to accepted. It
// fails with ErrNotInvited unless the identity is currently invited.
func (s *Service) AcceptInvite(ctx context.Context, email, plaintext string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if plaintext == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.mutateByEmail(ctx, email, func(user *User) error {
		if user.Status != StatusInvited {
			return ErrNotInvited
		}

		hash, err := s.vault.Hash(plaintext)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user.PasswordHash = hash
		user.Status = StatusAccepted
		user.Roles = []Role{RoleAdmin}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}

// UpdatePassword rotates the password after verifying the old one. The new
// password must not verify against the current hash or any history entry;
// the replaced hash is appended to the history in the same atomic write.
func (s *Service) UpdatePassword(ctx context.Context, email, oldPlaintext, newPlaintext string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if newPlaintext == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.mutateByEmail(ctx, email, func(user *User) error {
		if err := s.vault.Verify(oldPlaintext, user.PasswordHash); err != nil {
			return ErrInvalidCredentials
		}
		return s.rotatePassword(user, newPlaintext)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}

// ForgotPassword issues a token bound to the identity and emails a reset
// notification. The record itself is not mutated.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	user, err := s.storage.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.notifyAsync(email, "password_reset", func(ctx context.Context) error {
		return s.notifier.SendPasswordReset(ctx, email, token)
	})

	return &AuthResult{User: user, AccessToken: token}, nil
}

// ResetPassword rotates the password without requiring the old one.
// Authorization comes from a previously issued token the caller boundary
// has already verified. Reuse rejection and history append match
// UpdatePassword.
func (s *Service) ResetPassword(ctx context.Context, email, newPlaintext string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if newPlaintext == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.mutateByEmail(ctx, email, func(user *User) error {
		return s.rotatePassword(user, newPlaintext)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}

func (s *Service) rotatePassword(user *User, newPlaintext string) error {
	if err := s.vault.CheckReuse(newPlaintext, user.PasswordHash, user.PasswordHistory); err != nil {
		if errors.Is(err, password.ErrPasswordReused) {
			return ErrPasswordReused
		}
		return err
	}

	hash, err := s.vault.Hash(newPlaintext)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.appendPasswordHistory(user)
	user.PasswordHash = hash
	return nil
}
