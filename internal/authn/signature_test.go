package authn

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	dErrors "vaxcert/pkg/domain-errors"
)

func newAccount(t *testing.T) (id.Identity, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	account, err := EncodeAccountID(pub)
	require.NoError(t, err)
	return id.Identity(account), priv
}

func TestSignatureAuthenticator(t *testing.T) {
	auth := NewSignatureAuthenticator()
	alice, alicePriv := newAccount(t)
	bob, _ := newAccount(t)
	call := models.TransferCall(alice, bob, 1)

	signed := func(sig string) context.Context {
		return WithCredentials(context.Background(), Credentials{Signature: sig})
	}

	t.Run("valid signature", func(t *testing.T) {
		require.NoError(t, auth.Verify(signed(Sign(alicePriv, call)), alice, call))
	})

	t.Run("missing credentials", func(t *testing.T) {
		err := auth.Verify(context.Background(), alice, call)
		assert.ErrorIs(t, err, ErrMissingCredentials)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthenticated))
	})

	t.Run("signature by another key", func(t *testing.T) {
		err := auth.Verify(signed(Sign(alicePriv, call)), bob, call)
		assert.ErrorIs(t, err, ErrInvalidProof)
	})

	t.Run("signature over a different call", func(t *testing.T) {
		other := models.TransferCall(alice, bob, 2)
		err := auth.Verify(signed(Sign(alicePriv, other)), alice, call)
		assert.ErrorIs(t, err, ErrInvalidProof)
	})

	t.Run("signature over an earlier nonce", func(t *testing.T) {
		err := auth.Verify(signed(Sign(alicePriv, call)), alice, call.WithNonce(1))
		assert.ErrorIs(t, err, ErrInvalidProof)
	})

	t.Run("identity is not an account id", func(t *testing.T) {
		err := auth.Verify(signed(Sign(alicePriv, call)), "GNOTAKEY", call)
		assert.ErrorIs(t, err, ErrInvalidProof)
	})

	t.Run("malformed signature", func(t *testing.T) {
		assert.ErrorIs(t, auth.Verify(signed("%%%"), alice, call), ErrInvalidProof)
		short := base64.StdEncoding.EncodeToString([]byte("short"))
		assert.ErrorIs(t, auth.Verify(signed(short), alice, call), ErrInvalidProof)
	})
}
