package authn

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxcert/internal/registry/models"
	dErrors "vaxcert/pkg/domain-errors"
)

const (
	testKey      = "test-signing-key-at-least-32-bytes!!"
	testIssuer   = "vaxcert"
	testAudience = "vaxcert-api"
)

func bearer(token string) context.Context {
	return WithCredentials(context.Background(), Credentials{Bearer: token})
}

func TestJWTAuthenticator(t *testing.T) {
	auth := NewJWTAuthenticator(testKey, testIssuer, testAudience)
	call := models.TransferCall("GALICE", "GBOB", 1)
	now := time.Now()

	t.Run("subject matches identity", func(t *testing.T) {
		token, err := auth.IssueToken("GALICE", now, time.Hour)
		require.NoError(t, err)
		require.NoError(t, auth.Verify(bearer(token), "GALICE", call))
	})

	t.Run("subject differs", func(t *testing.T) {
		token, err := auth.IssueToken("GBOB", now, time.Hour)
		require.NoError(t, err)
		assert.ErrorIs(t, auth.Verify(bearer(token), "GALICE", call), ErrInvalidProof)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := auth.IssueToken("GALICE", now.Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)
		err = auth.Verify(bearer(token), "GALICE", call)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthenticated))
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewJWTAuthenticator("another-signing-key-at-least-32-bytes", testIssuer, testAudience)
		token, err := other.IssueToken("GALICE", now, time.Hour)
		require.NoError(t, err)
		assert.True(t, dErrors.HasCode(auth.Verify(bearer(token), "GALICE", call), dErrors.CodeUnauthenticated))
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := NewJWTAuthenticator(testKey, testIssuer, "someone-else")
		token, err := other.IssueToken("GALICE", now, time.Hour)
		require.NoError(t, err)
		assert.True(t, dErrors.HasCode(auth.Verify(bearer(token), "GALICE", call), dErrors.CodeUnauthenticated))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTAuthenticator(testKey, "impostor", testAudience)
		token, err := other.IssueToken("GALICE", now, time.Hour)
		require.NoError(t, err)
		assert.True(t, dErrors.HasCode(auth.Verify(bearer(token), "GALICE", call), dErrors.CodeUnauthenticated))
	})

	t.Run("algorithm none is refused", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "GALICE",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		assert.True(t, dErrors.HasCode(auth.Verify(bearer(signed), "GALICE", call), dErrors.CodeUnauthenticated))
	})

	t.Run("missing bearer", func(t *testing.T) {
		assert.ErrorIs(t, auth.Verify(context.Background(), "GALICE", call), ErrMissingCredentials)
	})
}

func TestCredentialsFromContext(t *testing.T) {
	_, ok := CredentialsFrom(context.Background())
	assert.False(t, ok)

	ctx := WithCredentials(context.Background(), Credentials{Bearer: "b", Signature: "s"})
	creds, ok := CredentialsFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, Credentials{Bearer: "b", Signature: "s"}, creds)
}
