package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmnd/duodle/internal/model"
	"github.com/lucasmnd/duodle/internal/testutil"
)

var testSecret = []byte("test-secret")

func newService() *Service {
	return New(Config{Secret: testSecret}, testutil.NopLogger())
}

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":            "user-1",
		"username":       "nami",
		"email_verified": true,
		"exp":            time.Now().Add(time.Hour).Unix(),
	})

	id, err := newService().Verify(token)
	require.NoError(t, err)
	require.NotNil(t, id)

	assert.Equal(t, model.IdentityID("user-1"), id.ID)
	assert.Equal(t, "nami", id.Username)
	assert.True(t, id.Verified)
}

func TestVerifyEmptyTokenIsAnonymous(t *testing.T) {
	id, err := newService().Verify("")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token := signToken(t, []byte("other-secret"), jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := newService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := newService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"username": "nami",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	_, err := newService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyCarriesUnverifiedFlag(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":            "user-1",
		"email_verified": false,
		"exp":            time.Now().Add(time.Hour).Unix(),
	})

	id, err := newService().Verify(token)
	require.NoError(t, err)
	assert.False(t, id.Verified)
}

func TestRequireVerified(t *testing.T) {
	assert.ErrorIs(t, RequireVerified(nil), model.ErrIdentityRequired)
	assert.ErrorIs(t,
		RequireVerified(&model.Identity{ID: "u", Verified: false}),
		model.ErrIdentityUnverified)
	assert.NoError(t, RequireVerified(&model.Identity{ID: "u", Verified: true}))
}
