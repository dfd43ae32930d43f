package token

import (
	"errors"
	"testing"
	"time"

	"notekeeper-be/internal/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := uuid.New()

	raw, err := Issue(userID, "ana@x.com", secret, issuedAt, DefaultTTL)
	require.NoError(t, err)

	identity, err := Verify(raw, secret, issuedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, "ana@x.com", identity.Email)
}

func TestVerifyExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	raw, err := Issue(uuid.New(), "u@x.com", secret, issuedAt, DefaultTTL)
	require.NoError(t, err)

	_, err = Verify(raw, secret, issuedAt.Add(DefaultTTL-time.Minute))
	assert.NoError(t, err)

	_, err = Verify(raw, secret, issuedAt.Add(DefaultTTL+time.Minute))
	var authErr *apperror.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "invalid token", authErr.Message)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := Issue(uuid.New(), "u@x.com", []byte("right-secret"), issuedAt, time.Hour)
	require.NoError(t, err)

	_, err = Verify(raw, []byte("wrong-secret"), issuedAt)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		_, err := Verify(raw, []byte("k"), issuedAt)
		var authErr *apperror.AuthError
		assert.ErrorAs(t, err, &authErr, "token %q", raw)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Verify(raw, []byte("k"), issuedAt)
	assert.Error(t, err)

	raw, err = jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = Verify(raw, []byte("k"), issuedAt)
	assert.Error(t, err)
}

func TestVerifyRequiresUserID(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	for _, id := range []string{"", "not-a-uuid", uuid.Nil.String()} {
		claims := Claims{
			UserID: id,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			},
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)

		_, err = Verify(raw, secret, issuedAt)
		assert.True(t, errors.Is(err, errMissingUserID), "id %q", id)
	}
}

func TestVerifyRequiresExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: uuid.NewString()}).SignedString(secret)
	require.NoError(t, err)

	_, err = Verify(raw, secret, issuedAt)
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
}

func TestManagerUsesClock(t *testing.T) {
	now := issuedAt
	m := NewManager("secret", 0).WithClock(func() time.Time { return now })
	assert.Equal(t, DefaultTTL, m.TTL())

	userID := uuid.New()
	raw, err := m.Issue(userID, "u@x.com")
	require.NoError(t, err)

	identity, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)

	now = now.Add(8 * 24 * time.Hour)
	_, err = m.Verify(raw)
	assert.Error(t, err)
}
