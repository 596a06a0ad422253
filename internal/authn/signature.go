package authn

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"

	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
)

// SignatureAuthenticator treats identities as ed25519 account ids and accepts
// a base64 signature over the canonical call message.
type SignatureAuthenticator struct{}

func NewSignatureAuthenticator() *SignatureAuthenticator {
	return &SignatureAuthenticator{}
}

func (a *SignatureAuthenticator) Verify(ctx context.Context, identity id.Identity, call models.Call) error {
	creds, ok := CredentialsFrom(ctx)
	if !ok || creds.Signature == "" {
		return ErrMissingCredentials
	}

	pub, err := DecodeAccountID(identity.String())
	if err != nil {
		return ErrInvalidProof
	}
	sig, err := base64.StdEncoding.DecodeString(creds.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrInvalidProof
	}
	if !ed25519.Verify(pub, call.Message(), sig) {
		return ErrInvalidProof
	}
	return nil
}

// Sign returns the X-Call-Signature value for call.
func Sign(priv ed25519.PrivateKey, call models.Call) string {
	return base64.StdEncoding.EncodeToString(ed25519.Sign(priv, call.Message()))
}
