package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vesperhq/authkit/pkg/jwt"
	"github.com/vesperhq/authkit/pkg/logger"
	"github.com/vesperhq/authkit/pkg/password"
	"github.com/vesperhq/authkit/pkg/secrets"
)

// Service orchestrates credential and second-factor operations. Every
// operation loads the identity record fresh, applies one state transition
// and persists the whole record back atomically; a lost compare-and-swap
// race is retried on a fresh read a bounded number of times.
type Service struct {
	storage  CredentialStorage
	notifier Notifier
	vault    *password.Vault
	codec    *secrets.Codec
	issuer   *jwt.Issuer
	log      *slog.Logger

	issuerName         string
	historyLimit       int
	recoveryFloor      int
	recoveryCodeCount  int
	recoveryCodeLength int
	casRetries         int
	notifyTimeout      time.Duration
	qrSize             int
}

type Option func(*Service)

// WithLogger sets the service logger; the default discards records.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPasswordVault replaces the default vault, typically to tune the
// bcrypt work factor.
func WithPasswordVault(vault *password.Vault) Option {
	return func(s *Service) {
		if vault != nil {
			s.vault = vault
		}
	}
}

// WithIssuerName sets the issuer label encoded in provisioning URIs.
func WithIssuerName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.issuerName = name
		}
	}
}

// WithPasswordHistoryLimit caps how many previous hashes are retained for
// the reuse check. Zero keeps the full history.
func WithPasswordHistoryLimit(limit int) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.historyLimit = limit
		}
	}
}

// WithRecoveryFloor sets how many recovery codes must remain after the one
// being redeemed; recovery is refused once the stored set is at or below
// the floor. The default of 1 preserves the legacy behavior of never
// consuming the last code.
func WithRecoveryFloor(floor int) Option {
	return func(s *Service) {
		if floor >= 0 {
			s.recoveryFloor = floor
		}
	}
}

// WithRecoveryCodes sets the count and length of generated recovery codes.
func WithRecoveryCodes(count, length int) Option {
	return func(s *Service) {
		if count > 0 {
			s.recoveryCodeCount = count
		}
		if length > 0 {
			s.recoveryCodeLength = length
		}
	}
}

// WithCASRetries sets how many times a lost update race is retried before
// surfacing ErrConcurrentUpdate.
func WithCASRetries(retries int) Option {
	return func(s *Service) {
		if retries >= 0 {
			s.casRetries = retries
		}
	}
}

// WithNotifyTimeout bounds each background notification delivery.
func WithNotifyTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.notifyTimeout = timeout
		}
	}
}

// NewService wires the orchestrator. Storage, codec and issuer are
// mandatory collaborators; their absence is a programming error surfaced at
// construction.
func NewService(storage CredentialStorage, notifier Notifier, codec *secrets.Codec, issuer *jwt.Issuer, opts ...Option) (*Service, error) {
	if storage == nil {
		return nil, errors.New("auth: storage is required")
	}
	if notifier == nil {
		return nil, errors.New("auth: notifier is required")
	}
	if codec == nil {
		return nil, errors.New("auth: secret codec is required")
	}
	if issuer == nil {
		return nil, errors.New("auth: token issuer is required")
	}

	s := &Service{
		storage:            storage,
		notifier:           notifier,
		codec:              codec,
		issuer:             issuer,
		vault:              password.NewVault(),
		log:                logger.NewDiscard(),
		issuerName:         "authkit",
		recoveryFloor:      1,
		recoveryCodeCount:  10,
		recoveryCodeLength: 8,
		casRetries:         2,
		notifyTimeout:      10 * time.Second,
		qrSize:             256,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AuthResult pairs the identity record with a freshly issued bearer token.
type AuthResult struct {
	User        *User
	AccessToken string
}

func (s *Service) issueToken(user *User) (string, error) {
	token, err := s.issuer.Issue(user.ID.String(), user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// errNoUpdate signals from a mutation closure that the record is already in
// the desired state and no write is needed.
var errNoUpdate = errors.New("auth: no update required")

// mutateByID runs a read-modify-write cycle against the record with the
// given id, retrying lost races on a fresh read. The mutate closure must
// finish all cryptographic work before returning; the write happens only
// after it succeeds.
func (s *Service) mutateByID(ctx context.Context, id uuid.UUID, mutate func(*User) error) (*User, error) {
	return s.mutate(ctx, mutate, func() (*User, error) {
		return s.storage.FindByID(ctx, id)
	})
}

// mutateByEmail is mutateByID keyed by the email natural key.
func (s *Service) mutateByEmail(ctx context.Context, email string, mutate func(*User) error) (*User, error) {
	return s.mutate(ctx, mutate, func() (*User, error) {
		return s.storage.FindByEmail(ctx, email)
	})
}

func (s *Service) mutate(ctx context.Context, mutate func(*User) error, load func() (*User, error)) (*User, error) {
	lastErr := error(ErrConcurrentUpdate)
	for attempt := 0; attempt <= s.casRetries; attempt++ {
		user, err := load()
		if err != nil {
			return nil, err
		}

		if err := mutate(user); err != nil {
			if errors.Is(err, errNoUpdate) {
				return user, nil
			}
			return nil, err
		}

		if err := s.storage.Update(ctx, user); err != nil {
			if errors.Is(err, ErrConcurrentUpdate) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return user, nil
	}
	return nil, lastErr
}

// appendPasswordHistory records the current hash before replacement and
// applies the retention policy. Unbounded retention is the conservative
// default; see WithPasswordHistoryLimit.
func (s *Service) appendPasswordHistory(user *User) {
	if user.PasswordHash == "" {
		return
	}
	user.PasswordHistory = append(user.PasswordHistory, user.PasswordHash)
	if s.historyLimit > 0 && len(user.PasswordHistory) > s.historyLimit {
		user.PasswordHistory = user.PasswordHistory[len(user.PasswordHistory)-s.historyLimit:]
	}
}

// notifyAsync delivers a notification on a background goroutine with a
// bounded timeout. Failures are logged and reported nowhere else: the
// credential mutation they follow has already been persisted.
func (s *Service) notifyAsync(email, event string, send func(context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("notification panicked",
					logger.Email(email),
					slog.String("event", event),
					slog.Any("panic", r),
					logger.Component("auth"),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			s.log.Error("notification delivery failed",
				logger.Email(email),
				slog.String("event", event),
				logger.Error(err),
				logger.Component("auth"),
			)
		}
	}()
}
