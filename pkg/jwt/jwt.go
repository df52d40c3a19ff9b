package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime used when no TTL option is given.
const DefaultTTL = 24 * time.Hour

// Claims is the claim set carried by issued tokens: the subject identity id
// plus the email it was bound to at issuance.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Identity is the verified claim pair extracted from a valid token.
type Identity struct {
	SubjectID string
	Email     string
}

// Issuer signs and verifies bearer tokens with a process-wide HMAC-SHA256
// key. Tokens are stateless capability proofs; there is no revocation list.
type Issuer struct {
	signingKey []byte
	ttl        time.Duration
}

type Option func(*Issuer)

// WithTTL overrides the default token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// NewIssuer creates a token issuer. The signing key should be at least
// 32 bytes for HMAC-SHA256; an empty key is a configuration error.
func NewIssuer(signingKey []byte, opts ...Option) (*Issuer, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	i := &Issuer{
		signingKey: signingKey,
		ttl:        DefaultTTL,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// NewIssuerFromConfig builds an issuer from environment-sourced configuration.
func NewIssuerFromConfig(cfg Config) (*Issuer, error) {
	opts := []Option{}
	if cfg.TokenTTL > 0 {
		opts = append(opts, WithTTL(cfg.TokenTTL))
	}
	return NewIssuer([]byte(cfg.SigningKey), opts...)
}

// Issue signs a token binding the subject id and email, expiring after the
// configured TTL.
func (i *Issuer) Issue(subjectID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email: email,
	})

	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}
	return signed, nil
}

// Authenticate verifies signature and expiry and returns the bound identity.
// Malformed input fails with ErrTokenMalformed; a bad signature or expired
// token fails with ErrTokenInvalid or ErrTokenExpired respectively.
func (i *Issuer) Authenticate(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Identity{}, errors.Join(ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, errors.Join(ErrTokenExpired, err)
	default:
		return Identity{}, errors.Join(ErrTokenInvalid, err)
	}

	if !token.Valid {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
	}, nil
}
