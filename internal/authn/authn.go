// Package authn verifies that a registry call was authorized by the identity
// it claims to act as.
//
// Two verifiers are provided:
//   - SignatureAuthenticator: ed25519 signature over the canonical call message
//   - JWTAuthenticator: HS256 bearer token whose subject is the identity
//
// Both read the proof from the request context (see WithCredentials).
package authn

import (
	"context"

	dErrors "vaxcert/pkg/domain-errors"
)

// Credentials carries the raw proof material of one request.
type Credentials struct {
	Bearer    string
	Signature string
}

type credentialsKey struct{}

// WithCredentials attaches the proof material to ctx.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom returns the proof material stored in ctx.
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}

var (
	ErrMissingCredentials = dErrors.New(dErrors.CodeUnauthenticated, "missing authorization proof")
	ErrInvalidProof       = dErrors.New(dErrors.CodeUnauthenticated, "authorization proof does not match identity")
)
