package auth_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/vesperhq/authkit/pkg/auth"
)

// memStore is an in-memory CredentialStorage with the same compare-and-swap
// contract a real store provides. It hands out copies so mutations only
// become visible through Update, and can inject a number of artificial
// version conflicts to exercise the retry path.
type memStore struct {
	mu              sync.Mutex
	users           map[uuid.UUID]*auth.User
	conflictUpdates int
	updates         int
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uuid.UUID]*auth.User)}
}

func cloneUser(u *auth.User) *auth.User {
	clone := *u
	clone.PasswordHistory = append([]string(nil), u.PasswordHistory...)
	clone.Roles = append([]auth.Role(nil), u.Roles...)
	clone.RecoveryCodes = append([]string(nil), u.RecoveryCodes...)
	return &clone
}

func (s *memStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *memStore) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, auth.ErrUserNotFound
}

func (s *memStore) Create(ctx context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return auth.ErrEmailAlreadyExists
		}
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *memStore) Update(ctx context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates++
	if s.conflictUpdates > 0 {
		s.conflictUpdates--
		return auth.ErrConcurrentUpdate
	}

	stored, ok := s.users[user.ID]
	if !ok {
		return auth.ErrUserNotFound
	}
	if stored.Version != user.Version {
		return auth.ErrConcurrentUpdate
	}

	updated := cloneUser(user)
	updated.Version++
	s.users[user.ID] = updated
	user.Version = updated.Version
	return nil
}

// get returns the stored record for assertions on persisted state.
func (s *memStore) get(id uuid.UUID) *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return cloneUser(u)
	}
	return nil
}

// MockNotifier records notification deliveries.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendInvitation(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}
