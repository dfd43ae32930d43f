package token

import (
	"errors"
	"time"

	"notekeeper-be/internal/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is how long a session token stays valid after issuance.
const DefaultTTL = 7 * 24 * time.Hour

// Claims is the signed payload of a session token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is what a verified token resolves to.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

var errMissingUserID = errors.New("token payload has no valid user id")

// Issue signs a token for the user valid from now until now+ttl.
func Issue(userID uuid.UUID, email string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks signature, algorithm, expiry (against now) and payload shape.
// Every failure is reported as the same AuthError.
func Verify(raw string, secret []byte, now time.Time) (*Identity, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, apperror.NewAuth("invalid token", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return nil, apperror.NewAuth("invalid token", errMissingUserID)
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}

// Manager binds the signing secret, lifetime and clock so callers only deal with identities.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) Issue(userID uuid.UUID, email string) (string, error) {
	return Issue(userID, email, m.secret, m.now(), m.ttl)
}

func (m *Manager) Verify(raw string) (*Identity, error) {
	return Verify(raw, m.secret, m.now())
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}
