package auth

import (
	"context"

	"github.com/google/uuid"
)

// CredentialStorage is the durable record store for identity credentials.
//
// Implementations must return ErrUserNotFound when no record matches,
// ErrEmailAlreadyExists from Create on a duplicate email, and
// ErrConcurrentUpdate from Update when the stored Version no longer matches
// the one carried by the record. A successful Update persists the whole
// record atomically and bumps its Version.
type CredentialStorage interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

// Notifier delivers invitation and password-reset notifications carrying a
// bearer token. Calls are fire-and-forget from the orchestrator's point of
// view: a delivery failure is reported but never rolls back an already
// persisted record.
type Notifier interface {
	SendInvitation(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, token string) error
}
