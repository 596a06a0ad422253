// Package secrets issues and checks the bootstrap token that guards
// registry initialization. Only the bcrypt hash is ever configured.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"

	dErrors "vaxcert/pkg/domain-errors"
)

const tokenBytes = 32

// Generate returns a random URL-safe token.
func Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash returns the bcrypt hash to place in VAXCERT_BOOTSTRAP_TOKEN_HASH.
func Hash(token string) (string, error) {
	if token == "" {
		return "", dErrors.New(dErrors.CodeValidation, "token cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "token is too long")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash token")
	}
	return string(hashed), nil
}

// Verify reports CodeUnauthorized when token does not match hash.
func Verify(token, hash string) error {
	if token == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "token required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid token")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not verify token")
	}
	return nil
}
