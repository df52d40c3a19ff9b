package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vesperhq/authkit/pkg/auth"
)

const usersCollection = "users"

// CredentialStore is the MongoDB implementation of auth.CredentialStorage.
// Updates are optimistic: the whole record is replaced in a single document
// write conditioned on the stored version, which gives the orchestrator the
// compare-and-swap contract it needs to detect lost races.
type CredentialStore struct {
	coll *mongo.Collection
}

// NewCredentialStore creates a store over the given database.
func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

type userDocument struct {
	ID               string    `bson:"_id"`
	Email            string    `bson:"email"`
	PasswordHash     string    `bson:"password_hash,omitempty"`
	PasswordHistory  []string  `bson:"password_history,omitempty"`
	Status           string    `bson:"status"`
	Roles            []string  `bson:"roles,omitempty"`
	TwoFactorEnabled bool      `bson:"two_factor_enabled"`
	TwoFactorSecret  string    `bson:"two_factor_secret,omitempty"`
	RecoveryCodes    []string  `bson:"recovery_codes,omitempty"`
	Version          int64     `bson:"version"`
	CreatedAt        time.Time `bson:"created_at"`
}

func toDocument(u *auth.User) userDocument {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}
	return userDocument{
		ID:               u.ID.String(),
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		PasswordHistory:  u.PasswordHistory,
		Status:           string(u.Status),
		Roles:            roles,
		TwoFactorEnabled: u.TwoFactorEnabled,
		TwoFactorSecret:  u.TwoFactorSecret,
		RecoveryCodes:    u.RecoveryCodes,
		Version:          u.Version,
		CreatedAt:        u.CreatedAt,
	}
}

func (d userDocument) toUser() (*auth.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	roles := make([]auth.Role, len(d.Roles))
	for i, r := range d.Roles {
		roles[i] = auth.Role(r)
	}
	return &auth.User{
		ID:               id,
		Email:            d.Email,
		PasswordHash:     d.PasswordHash,
		PasswordHistory:  d.PasswordHistory,
		Status:           auth.Status(d.Status),
		Roles:            roles,
		TwoFactorEnabled: d.TwoFactorEnabled,
		TwoFactorSecret:  d.TwoFactorSecret,
		RecoveryCodes:    d.RecoveryCodes,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
	}, nil
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *CredentialStore) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *CredentialStore) findOne(ctx context.Context, filter bson.M) (*auth.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return doc.toUser()
}

func (s *CredentialStore) Create(ctx context.Context, user *auth.User) error {
	if _, err := s.coll.InsertOne(ctx, toDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update replaces the whole document, conditioned on the version the caller
// read. No match on an existing record means another writer got there
// first; the caller retries on a fresh read.
func (s *CredentialStore) Update(ctx context.Context, user *auth.User) error {
	doc := toDocument(user)
	doc.Version = user.Version + 1

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID, "version": user.Version}, doc)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		if err := s.coll.FindOne(ctx, bson.M{"_id": doc.ID}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return auth.ErrUserNotFound
		}
		return auth.ErrConcurrentUpdate
	}

	user.Version = doc.Version
	return nil
}
