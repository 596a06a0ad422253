package authn

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	dErrors "vaxcert/pkg/domain-errors"
)

// JWTAuthenticator accepts HS256 bearer tokens whose subject is the acting identity.
type JWTAuthenticator struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTAuthenticator(signingKey, issuer, audience string) *JWTAuthenticator {
	return &JWTAuthenticator{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// Verify ignores the call: a valid token authorizes any call of its subject.
func (a *JWTAuthenticator) Verify(ctx context.Context, identity id.Identity, _ models.Call) error {
	creds, ok := CredentialsFrom(ctx)
	if !ok || creds.Bearer == "" {
		return ErrMissingCredentials
	}

	claims := new(jwt.RegisteredClaims)
	token, err := jwt.ParseWithClaims(creds.Bearer, claims, func(t *jwt.Token) (any, error) {
		return a.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithAudience(a.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dErrors.Wrap(err, dErrors.CodeUnauthenticated, "bearer token expired")
		}
		return dErrors.Wrap(err, dErrors.CodeUnauthenticated, "invalid bearer token")
	}
	if !token.Valid {
		return ErrInvalidProof
	}
	if claims.Subject != identity.String() {
		return ErrInvalidProof
	}
	return nil
}

// IssueToken signs a bearer token for identity valid for ttl from now.
func (a *JWTAuthenticator) IssueToken(identity id.Identity, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   identity.String(),
		Issuer:    a.issuer,
		Audience:  jwt.ClaimStrings{a.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	})
	signed, err := token.SignedString(a.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign bearer token")
	}
	return signed, nil
}
