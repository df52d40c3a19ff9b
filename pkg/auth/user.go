package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status tracks how far an identity has progressed through onboarding.
type Status string

const (
	// StatusInvited marks a provisioned identity with no password set yet.
	StatusInvited Status = "invited"
	// StatusAccepted marks a fully onboarded identity.
	StatusAccepted Status = "accepted"
)

// Role is a role tag attached to an identity.
type Role string

// RoleAdmin is the only role this deployment grants.
const RoleAdmin Role = "admin"

// TwoFactorState is the explicit second-factor state derived from the
// record's secret and enabled fields, so illegal flag combinations are
// interpreted in exactly one place.
type TwoFactorState int

const (
	// TwoFactorUnset means no secret exists; setup has not happened or was
	// disabled.
	TwoFactorUnset TwoFactorState = iota
	// TwoFactorPending means a secret is stored but no code has been
	// verified since; the factor is not yet trusted.
	TwoFactorPending
	// TwoFactorOn means a submitted code has been verified at least once
	// after setup.
	TwoFactorOn
)

// User is an identity's credential record. The credential store owns the
// durable copy; the orchestrator works on a transient copy per operation and
// writes it back atomically, guarded by Version.
type User struct {
	ID    uuid.UUID
	Email string

	// PasswordHash is empty only for an invited-not-yet-accepted identity.
	PasswordHash string
	// PasswordHistory holds previous password hashes, oldest first. It is
	// consulted only for reuse checks, never for login.
	PasswordHistory []string

	Status Status
	Roles  []Role

	// TwoFactorSecret and RecoveryCodes are encrypted at rest.
	TwoFactorEnabled bool
	TwoFactorSecret  string
	RecoveryCodes    []string

	// Version is the optimistic-concurrency revision the store compares on
	// update.
	Version   int64
	CreatedAt time.Time
}

// TwoFactorStatus derives the tagged second-factor state.
func (u *User) TwoFactorStatus() TwoFactorState {
	switch {
	case u.TwoFactorSecret == "":
		return TwoFactorUnset
	case u.TwoFactorEnabled:
		return TwoFactorOn
	default:
		return TwoFactorPending
	}
}

// HasRole reports whether the identity carries the given role tag.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeEmail lower-cases and trims an email so it can serve as the
// record's natural key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
